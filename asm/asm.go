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

// Package asm turns a parsed Huff program into EVM bytecode: it builds the
// symbol table, expands the macro invocation tree, scopes and resolves
// labels, flattens to sections, solves push widths to their minimum and
// serializes the result.
package asm

import (
	"github.com/huff-language/huffc/evm"
	"github.com/huff-language/huffc/lang"
	"github.com/huff-language/huffc/logging"
)

// CompileParams are the compile options.
type CompileParams struct {
	// EmitPush0 uses PUSH0 for zero values instead of PUSH1 0x00.
	EmitPush0 bool
	// MaxPushWidth bounds the data width of offset pushes, in [1, 32].
	MaxPushWidth int
	// WrapConstructor wraps the output as deployable init code.
	WrapConstructor bool
	// KeepUnusedTables emits code tables even when nothing references them.
	KeepUnusedTables bool

	Log logging.Logger
}

// DefaultParams returns the default compile options.
func DefaultParams() CompileParams {
	return CompileParams{
		EmitPush0:    true,
		MaxPushWidth: evm.MaxPushWidth,
		Log:          logging.Base(),
	}
}

// OpStream is the state of one compilation: the label arena, the flattened
// sections, deferred tail blobs, and the accumulated errors.
type OpStream struct {
	params CompileParams
	symtab *symbolTable
	log    logging.Logger

	labels   []*labelInfo
	sections []section
	errors   ErrorList

	macroBlobs []*includedMacro
	tables     map[string]*includedTable
	tableOrder []string

	// Guards __codesize/__codeoffset against cyclic inclusion.
	includeStack []string
}

func newOpStream(params CompileParams) *OpStream {
	if params.Log == nil {
		params.Log = logging.Base()
	}
	if params.MaxPushWidth < 1 || params.MaxPushWidth > evm.MaxPushWidth {
		params.MaxPushWidth = evm.MaxPushWidth
	}
	return &OpStream{
		params: params,
		log:    params.Log,
		tables: make(map[string]*includedTable),
	}
}

// Compile assembles the program rooted at the entry macro. On failure the
// returned error is an ErrorList with every problem found, ordered by source
// position.
func Compile(root *lang.Root, entry string, params CompileParams) ([]byte, error) {
	ops := newOpStream(params)
	ops.symtab = buildSymbolTable(root, &ops.errors)
	ops.log.Debugf("symbol table: %d definitions", len(ops.symtab.order))

	def, ok := ops.symtab.definition(entry)
	if !ok {
		ops.errors.errorf(UnknownEntry, lang.Span{}, "no definition named %s", entry)
		return nil, ops.errors.sorted()
	}
	m, isMacro := def.(*lang.Macro)
	if !isMacro {
		ops.errors.errorf(NotAMacro, def.NameSpan(), "entry %s is not a macro", entry)
		return nil, ops.errors.sorted()
	}

	out, errs := ops.assemble(m)
	if len(errs) > 0 {
		return nil, errs.sorted()
	}
	if params.WrapConstructor {
		out = wrapConstructor(out, params)
	}
	ops.log.Debugf("compiled %s: %d bytes", entry, len(out))
	return out, nil
}

// assemble runs the pipeline stages for one entry macro and returns the
// bytecode, or the errors found along the way.
func (ops *OpStream) assemble(entry *lang.Macro) ([]byte, ErrorList) {
	tree := ops.buildInvocationTree(entry)
	if tree == nil {
		return nil, ops.errors
	}
	ops.scopeLabels(tree)
	ops.log.Debugf("invocation tree of %s: %d labels", entry.Ident, len(ops.labels))

	ops.emitNode(tree)
	ops.appendTail()
	if len(ops.errors) > 0 {
		return nil, ops.errors
	}

	ops.solveSizes()
	if len(ops.errors) > 0 {
		return nil, ops.errors
	}
	return ops.bytes(), nil
}

// AssembleString parses and compiles source with the default options.
// Convenient for tests and tooling.
func AssembleString(source, entry string) ([]byte, error) {
	return AssembleStringParams(source, entry, DefaultParams())
}

// AssembleStringParams parses and compiles source with the given options.
func AssembleStringParams(source, entry string, params CompileParams) ([]byte, error) {
	root, err := lang.Parse(source)
	if err != nil {
		return nil, err
	}
	return Compile(root, entry, params)
}
