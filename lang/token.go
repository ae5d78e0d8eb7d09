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

package lang

import "fmt"

// Pos is a location in a source file.
type Pos struct {
	Offset int
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) in a source file.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return s.Start.String()
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokDefine
	tokInclude
	tokIdent
	tokPunct
	tokHex
	tokBin
	tokDec
	tokString
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokDefine:
		return "#define"
	case tokInclude:
		return "#include"
	case tokIdent:
		return "identifier"
	case tokPunct:
		return "punctuation"
	case tokHex:
		return "hex literal"
	case tokBin:
		return "binary literal"
	case tokDec:
		return "decimal literal"
	case tokString:
		return "string"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string // literal text; for strings, the unescaped contents
	span Span
}

// SourceError is an error anchored to a position in the input. Both parse and
// compile errors satisfy it so the CLI can render them uniformly.
type SourceError interface {
	error
	ErrorSpan() Span
}

// Error is a lexical or syntactic error.
type Error struct {
	Span Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// ErrorSpan implements SourceError.
func (e *Error) ErrorSpan() Span { return e.Span }

// ErrorList accumulates parse errors.
type ErrorList []*Error

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
