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

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/huff-language/huffc/abi"
	"github.com/huff-language/huffc/evm"
)

// Parse turns Huff source text into a Root. The returned error, when non-nil,
// is an ErrorList; the parser recovers at the next #define so one run reports
// as many syntax errors as possible.
func Parse(src string) (*Root, error) {
	toks, errs := scan(src)
	p := &parser{toks: toks, errors: errs}
	root := p.parseRoot()
	if len(p.errors) > 0 {
		return root, p.errors
	}
	return root, nil
}

type parser struct {
	toks   []token
	i      int
	errors ErrorList
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) peekPunct(ch string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == ch
}

func (p *parser) acceptPunct(ch string) bool {
	if p.peekPunct(ch) {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(span Span, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Span: span, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) expectPunct(ch string) (token, bool) {
	if p.peekPunct(ch) {
		return p.next(), true
	}
	tok := p.peek()
	p.errorf(tok.span, "expected %q, found %s", ch, describe(tok))
	return tok, false
}

func (p *parser) expectIdent() (token, bool) {
	tok := p.peek()
	if tok.kind == tokIdent {
		return p.next(), true
	}
	p.errorf(tok.span, "expected identifier, found %s", describe(tok))
	return tok, false
}

// sync skips ahead to the next top-level definition after a syntax error.
func (p *parser) sync() {
	for {
		switch p.peek().kind {
		case tokDefine, tokInclude, tokEOF:
			return
		}
		p.next()
	}
}

func (p *parser) parseRoot() *Root {
	root := &Root{}
	for {
		tok := p.next()
		switch tok.kind {
		case tokEOF:
			return root
		case tokInclude:
			path := p.peek()
			if path.kind == tokString {
				p.next()
			}
			p.errorf(tok.span, "#include is not supported")
		case tokDefine:
			if def := p.parseDefinition(); def != nil {
				root.Defs = append(root.Defs, def)
			}
		default:
			p.errorf(tok.span, "expected #define, found %s", describe(tok))
			p.sync()
		}
	}
}

func (p *parser) parseDefinition() Definition {
	kw, ok := p.expectIdent()
	if !ok {
		p.sync()
		return nil
	}
	var def Definition
	switch kw.text {
	case "macro":
		def = p.parseMacro()
	case "constant":
		def = p.parseConstant()
	case "table":
		def = p.parseTable()
	case "function":
		def = p.parseFunction()
	case "event":
		def = p.parseEvent()
	case "error":
		def = p.parseSolError()
	case "jumptable":
		p.errorf(kw.span, "jump tables are not supported")
	default:
		p.errorf(kw.span, "unknown definition kind %q", kw.text)
	}
	if def == nil {
		p.sync()
	}
	return def
}

func (p *parser) parseMacro() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	m := &Macro{Ident: name.text, Span: name.span}
	if _, ok := p.expectPunct("("); !ok {
		return nil
	}
	seen := make(map[string]bool)
	for !p.acceptPunct(")") {
		if len(m.Params) > 0 {
			if _, ok := p.expectPunct(","); !ok {
				return nil
			}
		}
		arg, ok := p.expectIdent()
		if !ok {
			return nil
		}
		if seen[arg.text] {
			p.errorf(arg.span, "duplicate macro parameter %q", arg.text)
		}
		seen[arg.text] = true
		m.Params = append(m.Params, Param{Ident: arg.text, Span: arg.span})
	}
	if _, ok := p.expectPunct("="); !ok {
		return nil
	}
	if tok := p.peek(); tok.kind == tokIdent && tok.text == "takes" {
		p.next()
		takes, ok := p.parseStackCount()
		if !ok {
			return nil
		}
		ret, ok := p.expectIdent()
		if !ok || ret.text != "returns" {
			p.errorf(ret.span, "expected \"returns\"")
			return nil
		}
		returns, ok := p.parseStackCount()
		if !ok {
			return nil
		}
		m.Takes, m.Returns = takes, returns
		m.HasStackAnnotation = true
	}
	if _, ok := p.expectPunct("{"); !ok {
		return nil
	}
	m.Body = p.parseBody()
	return m
}

func (p *parser) parseStackCount() (int, bool) {
	if _, ok := p.expectPunct("("); !ok {
		return 0, false
	}
	tok := p.peek()
	if tok.kind != tokDec {
		p.errorf(tok.span, "expected decimal stack count, found %s", describe(tok))
		return 0, false
	}
	p.next()
	n := 0
	for _, c := range tok.text {
		n = n*10 + int(c-'0')
	}
	if _, ok := p.expectPunct(")"); !ok {
		return 0, false
	}
	return n, true
}

func (p *parser) parseBody() []Statement {
	var body []Statement
	for {
		tok := p.peek()
		switch {
		case tok.kind == tokEOF:
			p.errorf(tok.span, "unexpected end of file in macro body")
			return body
		case tok.kind == tokPunct && tok.text == "}":
			p.next()
			return body
		}
		if stmt := p.parseStatement(); stmt != nil {
			body = append(body, stmt)
		}
	}
}

func (p *parser) parseStatement() Statement {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		if p.acceptPunct(":") {
			return &LabelDef{Ident: tok.text, Span: tok.span}
		}
		if p.peekPunct("(") {
			return p.parseInvoke(tok)
		}
		return p.identInstruction(tok)
	case tokHex, tokBin, tokDec:
		return p.literalPush(tok)
	case tokPunct:
		switch tok.text {
		case "<":
			return p.parseBracketed(">", func(name token) Instruction {
				return &MacroArgRef{Ident: name.text, Span: spanning(tok.span, p.toks[p.i-1].span)}
			})
		case "[":
			return p.parseBracketed("]", func(name token) Instruction {
				return &ConstantRef{Ident: name.text, Span: spanning(tok.span, p.toks[p.i-1].span)}
			})
		}
	}
	p.errorf(tok.span, "unexpected %s in macro body", describe(tok))
	return nil
}

func (p *parser) parseBracketed(closing string, build func(token) Instruction) Instruction {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	if _, ok := p.expectPunct(closing); !ok {
		return nil
	}
	return build(name)
}

// identInstruction classifies a bare identifier: pushN with immediate, opcode
// mnemonic, or label reference.
func (p *parser) identInstruction(tok token) Instruction {
	if width, ok := evm.IsPushMnemonic(tok.text); ok {
		lit := p.peek()
		switch lit.kind {
		case tokHex, tokBin, tokDec:
			p.next()
			word := p.parseWord(lit)
			if word == nil {
				return nil
			}
			return &Push{Word: word, Width: width, Span: spanning(tok.span, lit.span)}
		}
		p.errorf(lit.span, "%s needs a literal argument", tok.text)
		return nil
	}
	if op, ok := evm.OpByName(tok.text); ok {
		return &Op{Code: op, Span: tok.span}
	}
	return &LabelRef{Ident: tok.text, Span: tok.span}
}

func (p *parser) literalPush(tok token) Instruction {
	word := p.parseWord(tok)
	if word == nil {
		return nil
	}
	return &Push{Word: word, Span: tok.span}
}

func (p *parser) parseInvoke(name token) Statement {
	p.next() // consume "("
	if kind, ok := builtinNames[name.text]; ok {
		arg, ok := p.expectIdent()
		if !ok {
			return nil
		}
		if _, ok := p.expectPunct(")"); !ok {
			return nil
		}
		return &Builtin{
			Kind:    kind,
			Span:    spanning(name.span, p.toks[p.i-1].span),
			Arg:     arg.text,
			ArgSpan: arg.span,
		}
	}
	call := &MacroCall{Ident: name.text}
	for !p.acceptPunct(")") {
		if len(call.Args) > 0 {
			if _, ok := p.expectPunct(","); !ok {
				return nil
			}
		}
		arg := p.parseCallArg()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	call.Span = spanning(name.span, p.toks[p.i-1].span)
	return call
}

// parseCallArg parses one actual argument of a macro call. Arguments are
// instructions: literals, opcodes, label refs, <arg> and [CONST] forms.
func (p *parser) parseCallArg() Instruction {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		return p.identInstruction(tok)
	case tokHex, tokBin, tokDec:
		return p.literalPush(tok)
	case tokPunct:
		switch tok.text {
		case "<":
			return p.parseBracketed(">", func(name token) Instruction {
				return &MacroArgRef{Ident: name.text, Span: spanning(tok.span, p.toks[p.i-1].span)}
			})
		case "[":
			return p.parseBracketed("]", func(name token) Instruction {
				return &ConstantRef{Ident: name.text, Span: spanning(tok.span, p.toks[p.i-1].span)}
			})
		}
	}
	p.errorf(tok.span, "unexpected %s in macro arguments", describe(tok))
	return nil
}

func (p *parser) parseConstant() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	if _, ok := p.expectPunct("="); !ok {
		return nil
	}
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		if tok.text != "FREE_STORAGE_POINTER" {
			p.errorf(tok.span, "expected literal or FREE_STORAGE_POINTER()")
			return nil
		}
		if _, ok := p.expectPunct("("); !ok {
			return nil
		}
		if _, ok := p.expectPunct(")"); !ok {
			return nil
		}
		return &Constant{Ident: name.text, Span: name.span, FreePointer: true}
	case tokHex, tokBin, tokDec:
		word := p.parseWord(tok)
		if word == nil {
			return nil
		}
		return &Constant{Ident: name.text, Span: name.span, Value: word}
	}
	p.errorf(tok.span, "expected literal or FREE_STORAGE_POINTER()")
	return nil
}

func (p *parser) parseTable() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	if _, ok := p.expectPunct("{"); !ok {
		return nil
	}
	table := &CodeTable{Ident: name.text, Span: name.span}
	for !p.acceptPunct("}") {
		tok := p.next()
		if tok.kind != tokHex {
			p.errorf(tok.span, "expected hex bytes in table, found %s", describe(tok))
			return nil
		}
		digits := tok.text[2:]
		if len(digits)%2 != 0 {
			p.errorf(tok.span, "odd number of hex digits in table entry")
			continue
		}
		data, err := hex.DecodeString(digits)
		if err != nil {
			p.errorf(tok.span, "bad hex in table entry: %v", err)
			continue
		}
		table.Data = append(table.Data, data...)
	}
	return table
}

func (p *parser) parseFunction() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	args, ok := p.parseSolTypeList()
	if !ok {
		return nil
	}
	fn := &SolFunction{Ident: name.text, Span: name.span, Args: args}
	// Optional visibility/mutability words before returns are accepted and
	// ignored, matching how declarations are written in practice.
	for {
		tok := p.peek()
		if tok.kind != tokIdent {
			break
		}
		p.next()
		if tok.text == "returns" {
			rets, ok := p.parseSolTypeList()
			if !ok {
				return nil
			}
			fn.Rets = rets
			break
		}
	}
	return fn
}

func (p *parser) parseEvent() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	args, ok := p.parseSolTypeList()
	if !ok {
		return nil
	}
	return &SolEvent{Ident: name.text, Span: name.span, Args: args}
}

func (p *parser) parseSolError() Definition {
	name, ok := p.expectIdent()
	if !ok {
		return nil
	}
	args, ok := p.parseSolTypeList()
	if !ok {
		return nil
	}
	return &SolError{Ident: name.text, Span: name.span, Args: args}
}

// parseSolTypeList parses "(type [name], ...)" into canonical type strings.
func (p *parser) parseSolTypeList() ([]string, bool) {
	if _, ok := p.expectPunct("("); !ok {
		return nil, false
	}
	types := []string{}
	for !p.acceptPunct(")") {
		if len(types) > 0 {
			if _, ok := p.expectPunct(","); !ok {
				return nil, false
			}
		}
		typ, ok := p.parseSolType()
		if !ok {
			return nil, false
		}
		types = append(types, typ)
	}
	return types, true
}

func (p *parser) parseSolType() (string, bool) {
	var typ string
	if p.peekPunct("(") {
		inner, ok := p.parseSolTypeList()
		if !ok {
			return "", false
		}
		typ = "(" + strings.Join(inner, ",") + ")"
	} else {
		base, ok := p.expectIdent()
		if !ok {
			return "", false
		}
		// Indexed event parameters keep only the type.
		typ = abi.NormalizeType(base.text)
	}
	for p.peekPunct("[") {
		p.next()
		size := ""
		if tok := p.peek(); tok.kind == tokDec {
			p.next()
			size = tok.text
		}
		if _, ok := p.expectPunct("]"); !ok {
			return "", false
		}
		typ += "[" + size + "]"
	}
	// Optional parameter name, plus "indexed" before it for events.
	for i := 0; i < 2; i++ {
		if tok := p.peek(); tok.kind == tokIdent && tok.text != "returns" {
			p.next()
			if tok.text != "indexed" {
				break
			}
		} else {
			break
		}
	}
	return typ, true
}

// parseWord converts a literal token to a 256-bit word.
func (p *parser) parseWord(tok token) *uint256.Int {
	overflow := func() *uint256.Int {
		p.errorf(tok.span, "literal %s does not fit in 256 bits", tok.text)
		return nil
	}
	switch tok.kind {
	case tokHex:
		digits := tok.text[2:]
		if len(digits) > 64 {
			return overflow()
		}
		if len(digits)%2 != 0 {
			digits = "0" + digits
		}
		data, err := hex.DecodeString(digits)
		if err != nil {
			p.errorf(tok.span, "bad hex literal: %v", err)
			return nil
		}
		return new(uint256.Int).SetBytes(data)
	case tokBin:
		digits := tok.text[2:]
		if len(digits) > 256 {
			return overflow()
		}
		v := new(uint256.Int)
		for _, c := range digits {
			v.Lsh(v, 1)
			if c == '1' {
				v.Or(v, uint256.NewInt(1))
			}
		}
		return v
	case tokDec:
		n, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			p.errorf(tok.span, "bad decimal literal %q", tok.text)
			return nil
		}
		v, over := uint256.FromBig(n)
		if over {
			return overflow()
		}
		return v
	}
	p.errorf(tok.span, "expected literal, found %s", describe(tok))
	return nil
}

func describe(tok token) string {
	switch tok.kind {
	case tokIdent, tokHex, tokBin, tokDec, tokPunct:
		return fmt.Sprintf("%q", tok.text)
	}
	return tok.kind.String()
}

func spanning(from, to Span) Span {
	return Span{Start: from.Start, End: to.End}
}
