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

package asm

import (
	"fmt"
	"sort"

	"github.com/huff-language/huffc/lang"
)

// ErrorKind classifies compile errors.
type ErrorKind int

const (
	// DuplicateDefinition: two top-level definitions share a name.
	DuplicateDefinition ErrorKind = iota
	// DuplicateLabel: a label name is defined twice in one macro body.
	DuplicateLabel
	// UnknownEntry: the requested entry macro does not exist.
	UnknownEntry
	// UnknownMacroArg: a <ref> names no formal parameter of the macro.
	UnknownMacroArg
	// NotAMacro: an invocation target is not a macro definition.
	NotAMacro
	// UnknownReference: a referenced top-level name does not exist with the
	// required kind.
	UnknownReference
	// BuiltinKindMismatch: a builtin argument names a definition of the
	// wrong kind.
	BuiltinKindMismatch
	// UnresolvedLabel: a label reference matches no label in the invocation
	// ancestry.
	UnresolvedLabel
	// ArgCountMismatch: a macro invocation passes the wrong number of
	// arguments.
	ArgCountMismatch
	// RecursiveMacro: the macro-call (or code-inclusion) graph has a cycle.
	RecursiveMacro
	// PushDataOverflow: an explicit pushN literal does not fit in N bytes.
	PushDataOverflow
	// TableAddressTooLarge: a resolved offset cannot be encoded within the
	// configured maximum push width.
	TableAddressTooLarge
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateDefinition:
		return "DuplicateDefinition"
	case DuplicateLabel:
		return "DuplicateLabel"
	case UnknownEntry:
		return "UnknownEntry"
	case UnknownMacroArg:
		return "UnknownMacroArg"
	case NotAMacro:
		return "NotAMacro"
	case UnknownReference:
		return "UnknownReference"
	case BuiltinKindMismatch:
		return "BuiltinKindMismatch"
	case UnresolvedLabel:
		return "UnresolvedLabel"
	case ArgCountMismatch:
		return "ArgCountMismatch"
	case RecursiveMacro:
		return "RecursiveMacro"
	case PushDataOverflow:
		return "PushDataOverflow"
	case TableAddressTooLarge:
		return "TableAddressTooLarge"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CompileError is a semantic error anchored to a source span. Related holds
// additional spans, e.g. the earlier definition of a duplicated name.
type CompileError struct {
	Kind    ErrorKind
	Span    lang.Span
	Related []lang.Span
	Msg     string
}

func (e *CompileError) Error() string { return e.Msg }

// ErrorSpan implements lang.SourceError.
func (e *CompileError) ErrorSpan() lang.Span { return e.Span }

// ErrorList accumulates compile errors across pipeline stages.
type ErrorList []*CompileError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Msg
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Msg, len(l)-1)
}

// Errs returns the list as []error for uniform reporting.
func (l ErrorList) Errs() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// sorted orders errors by source position for stable reporting.
func (l ErrorList) sorted() ErrorList {
	out := append(ErrorList{}, l...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start.Offset < out[j].Span.Start.Offset
	})
	return out
}

func (l *ErrorList) errorf(kind ErrorKind, span lang.Span, format string, args ...interface{}) {
	*l = append(*l, &CompileError{
		Kind: kind,
		Span: span,
		Msg:  fmt.Sprintf(format, args...),
	})
}

func (l *ErrorList) related(kind ErrorKind, span lang.Span, related []lang.Span, format string, args ...interface{}) {
	*l = append(*l, &CompileError{
		Kind:    kind,
		Span:    span,
		Related: related,
		Msg:     fmt.Sprintf(format, args...),
	})
}

// HasKind reports whether any accumulated error has the given kind.
func (l ErrorList) HasKind(kind ErrorKind) bool {
	for _, e := range l {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
