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

// Package lang contains the Huff lexer, parser, and syntax tree.
package lang

import (
	"github.com/holiman/uint256"

	"github.com/huff-language/huffc/evm"
)

// Root is a parsed source file: an ordered list of top-level definitions.
type Root struct {
	Defs []Definition
}

// Definition is a top-level #define.
type Definition interface {
	Name() string
	NameSpan() Span
}

// Macro is a parameterized block of statements expanded at each call site.
type Macro struct {
	Ident  string
	Span   Span
	Params []Param

	// Optional takes/returns stack annotation. Parsed and kept for tooling;
	// not checked during compilation.
	Takes, Returns     int
	HasStackAnnotation bool

	Body []Statement
}

// Param is a formal macro parameter.
type Param struct {
	Ident string
	Span  Span
}

func (m *Macro) Name() string   { return m.Ident }
func (m *Macro) NameSpan() Span { return m.Span }

// Constant is a named 256-bit word, or a FREE_STORAGE_POINTER() slot assigned
// during symbol-table construction.
type Constant struct {
	Ident       string
	Span        Span
	FreePointer bool
	Value       *uint256.Int // nil when FreePointer
}

func (c *Constant) Name() string   { return c.Ident }
func (c *Constant) NameSpan() Span { return c.Span }

// CodeTable is a named blob of bytes appended to the output when referenced.
type CodeTable struct {
	Ident string
	Span  Span
	Data  []byte
}

func (t *CodeTable) Name() string   { return t.Ident }
func (t *CodeTable) NameSpan() Span { return t.Span }

// SolFunction is a Solidity-shaped function declaration. Arg and return types
// are stored canonicalized.
type SolFunction struct {
	Ident string
	Span  Span
	Args  []string
	Rets  []string
}

func (f *SolFunction) Name() string   { return f.Ident }
func (f *SolFunction) NameSpan() Span { return f.Span }

// SolEvent is a Solidity-shaped event declaration.
type SolEvent struct {
	Ident string
	Span  Span
	Args  []string
}

func (e *SolEvent) Name() string   { return e.Ident }
func (e *SolEvent) NameSpan() Span { return e.Span }

// SolError is a Solidity-shaped custom error declaration.
type SolError struct {
	Ident string
	Span  Span
	Args  []string
}

func (e *SolError) Name() string   { return e.Ident }
func (e *SolError) NameSpan() Span { return e.Span }

// Statement is one entry of a macro body.
type Statement interface {
	StmtSpan() Span
}

// LabelDef binds a name to the current program counter.
type LabelDef struct {
	Ident string
	Span  Span
}

func (l *LabelDef) StmtSpan() Span { return l.Span }

// Instruction is a statement that contributes code directly. Instructions are
// also the only values allowed as macro-call arguments.
type Instruction interface {
	Statement
	instruction()
}

// Op is a bare opcode.
type Op struct {
	Code evm.OpCode
	Span Span
}

func (o *Op) StmtSpan() Span { return o.Span }
func (o *Op) instruction()   {}

// Push is a literal push. Width 0 means the minimum-width encoding is chosen;
// width n in [1,32] is an explicit pushN.
type Push struct {
	Word  *uint256.Int
	Width int
	Span  Span
}

func (p *Push) StmtSpan() Span { return p.Span }
func (p *Push) instruction()   {}

// LabelRef pushes the program counter of a label.
type LabelRef struct {
	Ident string
	Span  Span
}

func (r *LabelRef) StmtSpan() Span { return r.Span }
func (r *LabelRef) instruction()   {}

// MacroArgRef is <name>, substituted by the invoking call site.
type MacroArgRef struct {
	Ident string
	Span  Span
}

func (r *MacroArgRef) StmtSpan() Span { return r.Span }
func (r *MacroArgRef) instruction()   {}

// ConstantRef is [NAME], substituted by the constant's value.
type ConstantRef struct {
	Ident string
	Span  Span
}

func (r *ConstantRef) StmtSpan() Span { return r.Span }
func (r *ConstantRef) instruction()   {}

// Invoke is a macro call or builtin call statement.
type Invoke interface {
	Statement
	invoke()
}

// MacroCall invokes a user macro with instruction arguments.
type MacroCall struct {
	Ident string
	Span  Span
	Args  []Instruction
}

func (c *MacroCall) StmtSpan() Span { return c.Span }
func (c *MacroCall) invoke()        {}

// BuiltinKind enumerates the compiler builtins.
type BuiltinKind int

const (
	BuiltinTableStart BuiltinKind = iota
	BuiltinTableSize
	BuiltinCodeSize
	BuiltinCodeOffset
	BuiltinFuncSig
	BuiltinEventHash
	BuiltinErrorSig
)

var builtinNames = map[string]BuiltinKind{
	"__tablestart": BuiltinTableStart,
	"__tablesize":  BuiltinTableSize,
	"__codesize":   BuiltinCodeSize,
	"__codeoffset": BuiltinCodeOffset,
	"__FUNC_SIG":   BuiltinFuncSig,
	"__EVENT_HASH": BuiltinEventHash,
	"__ERROR":      BuiltinErrorSig,
}

func (k BuiltinKind) String() string {
	for name, kind := range builtinNames {
		if kind == k {
			return name
		}
	}
	return "__unknown"
}

// Builtin is one of the named builtin invocations, each taking a single
// identifier argument.
type Builtin struct {
	Kind    BuiltinKind
	Span    Span
	Arg     string
	ArgSpan Span
}

func (b *Builtin) StmtSpan() Span { return b.Span }
func (b *Builtin) invoke()        {}
