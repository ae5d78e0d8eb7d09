// Copyright (C) 2026 Huff Language Contributors
// This file is part of huffc
//
// huffc is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// huffc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with huffc.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huff-language/huffc/asm"
	"github.com/huff-language/huffc/lang"
	"github.com/huff-language/huffc/logging"
)

var (
	wrapConstructor  bool
	noPush0          bool
	maxPushWidth     int
	keepUnusedTables bool
	verbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "huffc <input-file> <entry-macro>",
	Short: "Compiler for the Huff EVM macro-assembly language",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.Base().SetLevel(logging.Debug)
		}
		build(args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&wrapConstructor, "default-constructor", "f", false, "Wrap the output as deployable init code")
	rootCmd.Flags().BoolVar(&noPush0, "no-push0", false, "Encode zero as PUSH1 0x00 instead of PUSH0")
	rootCmd.Flags().IntVar(&maxPushWidth, "max-push-width", 32, "Maximum data width of offset pushes, in bytes")
	rootCmd.Flags().BoolVar(&keepUnusedTables, "keep-unused-tables", false, "Emit code tables even when nothing references them")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func build(filename, entry string) {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel(), err)
		os.Exit(2)
	}

	params := asm.DefaultParams()
	params.EmitPush0 = !noPush0
	params.MaxPushWidth = maxPushWidth
	params.WrapConstructor = wrapConstructor
	params.KeepUnusedTables = keepUnusedTables

	root, err := lang.Parse(string(src))
	if err != nil {
		reportErrors(filename, err)
		os.Exit(1)
	}
	bytecode, err := asm.Compile(root, entry, params)
	if err != nil {
		reportErrors(filename, err)
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(bytecode))
}

func errorLabel() string {
	return color.New(color.FgRed, color.Bold).Sprint("error:")
}

// reportErrors prints one line per accumulated error, with the source span
// when the error carries one.
func reportErrors(filename string, err error) {
	var errs []error
	switch list := err.(type) {
	case lang.ErrorList:
		errs = list.Errs()
	case asm.ErrorList:
		errs = list.Errs()
	default:
		errs = []error{err}
	}
	for _, e := range errs {
		src, ok := e.(lang.SourceError)
		if !ok || src.ErrorSpan().Start.Line == 0 {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorLabel(), filename, e)
			continue
		}
		span := src.ErrorSpan()
		fmt.Fprintf(os.Stderr, "%s %s:%d:%d: %v\n",
			errorLabel(), filename, span.Start.Line, span.Start.Column, e)
	}
}
