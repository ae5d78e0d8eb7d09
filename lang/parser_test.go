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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/huff-language/huffc/evm"
)

func parseOne(t *testing.T, src string) Definition {
	t.Helper()
	root, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, root.Defs, 1)
	return root.Defs[0]
}

func TestParseMacro(t *testing.T) {
	def := parseOne(t, "#define macro MAIN() = { }")
	m, ok := def.(*Macro)
	require.True(t, ok)
	require.Equal(t, "MAIN", m.Ident)
	require.Empty(t, m.Params)
	require.Empty(t, m.Body)

	def = parseOne(t, "#define macro READ_ADDRESS(offset) = takes (0) returns (1) { stop }")
	m = def.(*Macro)
	require.Len(t, m.Params, 1)
	require.Equal(t, "offset", m.Params[0].Ident)
	require.True(t, m.HasStackAnnotation)
	require.Equal(t, 0, m.Takes)
	require.Equal(t, 1, m.Returns)
	require.Len(t, m.Body, 1)
	op, ok := m.Body[0].(*Op)
	require.True(t, ok)
	require.Equal(t, evm.OpCode(0x00), op.Code)
}

func TestParseMacroBody(t *testing.T) {
	src := `#define macro M() = {
		x:
		add
		0x1
		push2 0x1
		y
		<arg>
		[CONST]
		INNER(0x4)
		__tablestart(TABLE)
	}`
	m := parseOne(t, src).(*Macro)
	require.Len(t, m.Body, 9)

	require.Equal(t, "x", m.Body[0].(*LabelDef).Ident)
	require.Equal(t, evm.OpCode(0x01), m.Body[1].(*Op).Code)

	push := m.Body[2].(*Push)
	require.Equal(t, 0, push.Width)
	require.Equal(t, uint256.NewInt(1), push.Word)

	push = m.Body[3].(*Push)
	require.Equal(t, 2, push.Width)
	require.Equal(t, uint256.NewInt(1), push.Word)

	require.Equal(t, "y", m.Body[4].(*LabelRef).Ident)
	require.Equal(t, "arg", m.Body[5].(*MacroArgRef).Ident)
	require.Equal(t, "CONST", m.Body[6].(*ConstantRef).Ident)

	call := m.Body[7].(*MacroCall)
	require.Equal(t, "INNER", call.Ident)
	require.Len(t, call.Args, 1)
	require.Equal(t, uint256.NewInt(4), call.Args[0].(*Push).Word)

	builtin := m.Body[8].(*Builtin)
	require.Equal(t, BuiltinTableStart, builtin.Kind)
	require.Equal(t, "TABLE", builtin.Arg)
}

func TestParseConstant(t *testing.T) {
	c := parseOne(t, "#define constant TEST = 0x1").(*Constant)
	require.Equal(t, uint256.NewInt(1), c.Value)

	c = parseOne(t, "#define constant TEST /* comment */ = 0b1101 // comment").(*Constant)
	require.Equal(t, uint256.NewInt(13), c.Value)

	c = parseOne(t, "#define constant SLOT = FREE_STORAGE_POINTER()").(*Constant)
	require.True(t, c.FreePointer)
	require.Nil(t, c.Value)
}

func TestParseWordOverflow(t *testing.T) {
	max := "#define constant C = 0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	c := parseOne(t, max).(*Constant)
	require.Equal(t, 32, c.Value.ByteLen())

	over := "#define constant C = 0x10000000000000000000000000000000000000000000000000000000000000000"
	_, err := Parse(over)
	require.Error(t, err)
}

func TestParseTable(t *testing.T) {
	tab := parseOne(t, "#define table TEST { 0xc0de }").(*CodeTable)
	require.Equal(t, []byte{0xc0, 0xde}, tab.Data)

	tab = parseOne(t, "#define table TEST { 0xc0de 0xcc00ddee }").(*CodeTable)
	require.Equal(t, []byte{0xc0, 0xde, 0xcc, 0x00, 0xdd, 0xee}, tab.Data)

	_, err := Parse("#define table TEST { 0x0 }")
	require.Error(t, err)
}

func TestParseSolDefinitions(t *testing.T) {
	fn := parseOne(t, "#define function balanceOf(address) returns (uint256)").(*SolFunction)
	require.Equal(t, []string{"address"}, fn.Args)
	require.Equal(t, []string{"uint256"}, fn.Rets)

	fn = parseOne(t, "#define function put(uint, address[] tokens) returns (bool)").(*SolFunction)
	require.Equal(t, []string{"uint256", "address[]"}, fn.Args)

	fn = parseOne(t, "#define function nest((address, (address to, uint256 amount)[]))").(*SolFunction)
	require.Equal(t, []string{"(address,(address,uint256)[])"}, fn.Args)

	ev := parseOne(t, "#define event Transfer(address indexed from, address indexed to, uint256 value)").(*SolEvent)
	require.Equal(t, []string{"address", "address", "uint256"}, ev.Args)

	se := parseOne(t, "#define error PanicError(uint256)").(*SolError)
	require.Equal(t, []string{"uint256"}, se.Args)
}

func TestParseFixedSizeArray(t *testing.T) {
	fn := parseOne(t, "#define function f(address[3] tokens)").(*SolFunction)
	require.Equal(t, []string{"address[3]"}, fn.Args)
}

func TestParseIncludeUnsupported(t *testing.T) {
	_, err := Parse(`#include "util.huff"`)
	require.Error(t, err)
}

func TestParseJumptableUnsupported(t *testing.T) {
	_, err := Parse("#define jumptable JUMPS { a b c }")
	require.Error(t, err)
}

func TestParseRecovery(t *testing.T) {
	// Both broken definitions are reported in one run, and the good one in
	// between still parses.
	src := `
#define macro BROKEN( = { }
#define constant OK = 0x1
#define table ALSO_BROKEN { nope }
`
	root, err := Parse(src)
	require.Error(t, err)
	errs, ok := err.(ErrorList)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(errs), 2)
	require.Len(t, root.Defs, 1)
	require.Equal(t, "OK", root.Defs[0].Name())
}

func TestParseDuplicateParameter(t *testing.T) {
	_, err := Parse("#define macro M(a, a) = { }")
	require.Error(t, err)
}
