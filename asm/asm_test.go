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
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huff-language/huffc/lang"
)

func mustParse(t *testing.T, source string) *lang.Root {
	t.Helper()
	root, err := lang.Parse(source)
	require.NoError(t, err)
	return root
}

func mustCompile(t *testing.T, source, entry string) string {
	t.Helper()
	program, err := AssembleString(source, entry)
	require.NoError(t, err)
	return hex.EncodeToString(program)
}

func compileErrors(t *testing.T, source, entry string) ErrorList {
	t.Helper()
	_, err := AssembleString(source, entry)
	require.Error(t, err)
	list, ok := err.(ErrorList)
	require.True(t, ok, "expected compile errors, got %v", err)
	return list
}

func TestAssembleSinglePush(t *testing.T) {
	require.Equal(t, "5f", mustCompile(t, "#define macro M() = { 0x00 }", "M"))

	params := DefaultParams()
	params.EmitPush0 = false
	program, err := AssembleStringParams("#define macro M() = { 0x00 }", "M", params)
	require.NoError(t, err)
	require.Equal(t, "6000", hex.EncodeToString(program))
}

func TestAssembleEmptyEntry(t *testing.T) {
	program, err := AssembleString("#define macro MAIN() = { }", "MAIN")
	require.NoError(t, err)
	require.Empty(t, program)
}

func TestLabelResolvesUpward(t *testing.T) {
	source := `
#define macro MAIN() = { INNER() target: }
#define macro INNER() = { target 0x1 0x1 add 0x2 eq }
`
	// The reference inside INNER binds to MAIN's label, whose PC equals the
	// length of INNER's emitted body.
	require.Equal(t, "600a60016001016002145b", mustCompile(t, source, "MAIN"))
}

func TestLabelNeverResolvesDownward(t *testing.T) {
	source := `
#define macro MAIN() = { INNER() target }
#define macro INNER() = { target: 0x1 }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(UnresolvedLabel))
}

func TestLabelShadowing(t *testing.T) {
	source := `
#define macro MAIN() = { target: INNER() target }
#define macro INNER() = { target: target }
`
	// MAIN's target sits at PC 0, INNER's at PC 1. The inner reference binds
	// to the inner label, the outer reference to the outer one.
	require.Equal(t, "5b5b60015f", mustCompile(t, source, "MAIN"))
}

func TestSharedAncestorLabel(t *testing.T) {
	source := `
#define macro MAIN() = { dest: A() B() }
#define macro A() = { dest }
#define macro B() = { dest }
`
	// Both invoked children see the label the common ancestor defines.
	require.Equal(t, "5b5f5f", mustCompile(t, source, "MAIN"))
}

func TestPushWidthBoundary(t *testing.T) {
	compile := func(padding int) string {
		source := "#define macro MAIN() = { target " +
			strings.Repeat("pc ", padding) + "target: }"
		return mustCompile(t, source, "MAIN")
	}

	// 253 pad bytes: label lands at 255, a one-byte push suffices.
	out := compile(253)
	require.True(t, strings.HasPrefix(out, "60ff"))
	require.Equal(t, (2+253+1)*2, len(out))

	// One more pad byte pushes the label past 255; the push widens to two
	// bytes, moving the label to 257.
	out = compile(254)
	require.True(t, strings.HasPrefix(out, "610101"))
	require.Equal(t, (3+254+1)*2, len(out))
}

func TestDuplicateLabel(t *testing.T) {
	errs := compileErrors(t, "#define macro M() = { x: x: }", "M")
	require.True(t, errs.HasKind(DuplicateLabel))
	for _, e := range errs {
		if e.Kind == DuplicateLabel {
			require.NotEmpty(t, e.Related)
		}
	}
}

func TestDuplicateDefinition(t *testing.T) {
	source := `
#define constant X = 0x1
#define constant X = 0x2
#define macro M() = { 0x0 }
`
	errs := compileErrors(t, source, "M")
	require.True(t, errs.HasKind(DuplicateDefinition))

	// Kind does not matter, only the name.
	source = `
#define constant X = 0x1
#define macro X() = { }
#define macro M() = { 0x0 }
`
	errs = compileErrors(t, source, "M")
	require.True(t, errs.HasKind(DuplicateDefinition))
}

func TestArgCountMismatch(t *testing.T) {
	source := `
#define macro M(a) = { <a> }
#define macro MAIN() = { M() }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(ArgCountMismatch))
}

func TestRecursiveMacro(t *testing.T) {
	source := `
#define macro A() = { B() }
#define macro B() = { A() }
#define macro MAIN() = { A() }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(RecursiveMacro))
}

func TestUnknownEntry(t *testing.T) {
	errs := compileErrors(t, "#define macro M() = { }", "MISSING")
	require.True(t, errs.HasKind(UnknownEntry))

	errs = compileErrors(t, "#define constant C = 0x1", "C")
	require.True(t, errs.HasKind(NotAMacro))
}

func TestMacroArguments(t *testing.T) {
	source := `
#define macro PUSHER(v) = { <v> }
#define macro MAIN() = { PUSHER(0x42) }
`
	require.Equal(t, "6042", mustCompile(t, source, "MAIN"))

	// Opcodes pass through as arguments.
	source = `
#define macro APPLY(op) = { <op> }
#define macro MAIN() = { 0x1 0x2 APPLY(add) }
`
	require.Equal(t, "6001600201", mustCompile(t, source, "MAIN"))
}

func TestMacroArgumentForwarding(t *testing.T) {
	source := `
#define macro INNER(x) = { <x> }
#define macro OUTER(y) = { INNER(<y>) }
#define macro MAIN() = { OUTER(0x07) }
`
	require.Equal(t, "6007", mustCompile(t, source, "MAIN"))
}

func TestLabelArgumentBindsInCaller(t *testing.T) {
	source := `
#define macro JUMPER(t) = { <t> jump }
#define macro MAIN() = { start: JUMPER(start) }
`
	require.Equal(t, "5b5f56", mustCompile(t, source, "MAIN"))
}

func TestUnknownMacroArg(t *testing.T) {
	source := `
#define macro M() = { <ghost> }
#define macro MAIN() = { M() }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(UnknownMacroArg))
}

func TestConstants(t *testing.T) {
	source := `
#define constant A = 0x20
#define macro MAIN() = { [A] }
`
	require.Equal(t, "6020", mustCompile(t, source, "MAIN"))
}

func TestFreeStoragePointers(t *testing.T) {
	source := `
#define constant SLOT0 = FREE_STORAGE_POINTER()
#define constant SLOT1 = FREE_STORAGE_POINTER()
#define macro MAIN() = { [SLOT0] [SLOT1] }
`
	require.Equal(t, "5f6001", mustCompile(t, source, "MAIN"))
}

func TestCodeTables(t *testing.T) {
	source := `
#define table T { 0xc0de }
#define macro MAIN() = { __tablestart(T) __tablesize(T) }
`
	require.Equal(t, "60046002c0de", mustCompile(t, source, "MAIN"))
}

func TestUnreferencedTableOmitted(t *testing.T) {
	source := `
#define table T { 0xc0de }
#define macro MAIN() = { 0x01 }
`
	require.Equal(t, "6001", mustCompile(t, source, "MAIN"))

	params := DefaultParams()
	params.KeepUnusedTables = true
	root := mustParse(t, source)
	program, err := Compile(root, "MAIN", params)
	require.NoError(t, err)
	require.Equal(t, "6001c0de", hex.EncodeToString(program))
}

func TestCodeSizeAndOffset(t *testing.T) {
	source := `
#define macro SUB() = { 0x01 0x02 add }
#define macro MAIN() = { __codesize(SUB) __codeoffset(SUB) }
`
	// SUB compiles to five bytes, appended after MAIN's four.
	require.Equal(t, "600560046001600201", mustCompile(t, source, "MAIN"))
}

func TestCodeSizeRecursion(t *testing.T) {
	source := `
#define macro A() = { __codesize(B) }
#define macro B() = { __codesize(A) }
#define macro MAIN() = { __codesize(A) }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(RecursiveMacro))
}

func TestFuncSig(t *testing.T) {
	source := `
#define function balanceOf(address) returns (uint256)
#define macro MAIN() = { __FUNC_SIG(balanceOf) }
`
	require.Equal(t, "6370a08231", mustCompile(t, source, "MAIN"))
}

func TestErrorSelector(t *testing.T) {
	source := `
#define error Error(string)
#define macro MAIN() = { __ERROR(Error) }
`
	require.Equal(t, "6308c379a0", mustCompile(t, source, "MAIN"))
}

func TestEventHash(t *testing.T) {
	source := `
#define event Transfer(address indexed from, address indexed to, uint256 value)
#define macro MAIN() = { __EVENT_HASH(Transfer) }
`
	require.Equal(t,
		"7fddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		mustCompile(t, source, "MAIN"))
}

func TestBuiltinKindMismatch(t *testing.T) {
	source := `
#define constant T = 0x1
#define macro MAIN() = { __tablestart(T) }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(BuiltinKindMismatch))

	source = `
#define macro MAIN() = { __tablestart(MISSING) }
`
	errs = compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(UnknownReference))
}

func TestPushDataOverflow(t *testing.T) {
	errs := compileErrors(t, "#define macro M() = { push1 0x100 }", "M")
	require.True(t, errs.HasKind(PushDataOverflow))
}

func TestExplicitPushKeepsWidth(t *testing.T) {
	require.Equal(t, "610001", mustCompile(t, "#define macro M() = { push2 0x1 }", "M"))
}

func TestDispatcher(t *testing.T) {
	source := `
#define function balanceOf(address) returns (uint256)
#define macro MAIN() = {
    0x00 calldataload 0xe0 shr
    __FUNC_SIG(balanceOf) eq ret jumpi
    0x00 0x00 revert
    ret:
    0x01 0x00 mstore 0x20 0x00 return
}
`
	require.Equal(t,
		"5f3560e01c6370a08231146011575f5ffd5b60015f5260205ff3",
		mustCompile(t, source, "MAIN"))
}

func TestDeterminism(t *testing.T) {
	source := `
#define constant SLOT = FREE_STORAGE_POINTER()
#define table T { 0xdeadbeef }
#define macro STORE() = { [SLOT] sstore }
#define macro MAIN() = { 0x01 STORE() __tablestart(T) pop stop }
`
	first := mustCompile(t, source, "MAIN")
	second := mustCompile(t, source, "MAIN")
	require.Equal(t, first, second)
}

func TestUnreferencedDefinitionsDoNotChangeOutput(t *testing.T) {
	base := `
#define macro MAIN() = { 0x01 0x02 add }
`
	extended := `
#define macro HELPER() = { 0xff }
#define constant UNUSED = 0x1234
#define macro MAIN() = { 0x01 0x02 add }
`
	require.Equal(t, mustCompile(t, base, "MAIN"), mustCompile(t, extended, "MAIN"))
}

func TestErrorAccumulation(t *testing.T) {
	source := `
#define macro M(a) = { <a> }
#define macro MAIN() = { M() M(0x1, 0x2) nope }
`
	errs := compileErrors(t, source, "MAIN")
	require.True(t, errs.HasKind(ArgCountMismatch))
	// Both bad invocations are reported in one run, plus the stray label.
	count := 0
	for _, e := range errs {
		if e.Kind == ArgCountMismatch {
			count++
		}
	}
	require.Equal(t, 2, count)
	require.True(t, errs.HasKind(UnresolvedLabel))
}

func TestConstructorWrapSmall(t *testing.T) {
	params := DefaultParams()
	params.WrapConstructor = true
	program, err := AssembleStringParams("#define macro MAIN() = { 0x00 }", "MAIN", params)
	require.NoError(t, err)
	// One-byte runtime: pushed whole, stored at the tail of the first word,
	// returned from memory.
	require.Equal(t, "605f3d526001601ff3", hex.EncodeToString(program))
}

func TestConstructorWrapLarge(t *testing.T) {
	params := DefaultParams()
	params.WrapConstructor = true
	source := "#define macro MAIN() = { " + strings.Repeat("0x01 ", 17) + "}"
	program, err := AssembleStringParams(source, "MAIN", params)
	require.NoError(t, err)
	runtime := strings.Repeat("6001", 17)
	require.Equal(t, "60228060093d393df3"+runtime, hex.EncodeToString(program))
}

func TestMaxPushWidth(t *testing.T) {
	params := DefaultParams()
	params.MaxPushWidth = 1
	source := "#define macro MAIN() = { target " + strings.Repeat("pc ", 300) + "target: }"
	root := mustParse(t, source)
	_, err := Compile(root, "MAIN", params)
	require.Error(t, err)
	errs, ok := err.(ErrorList)
	require.True(t, ok)
	require.True(t, errs.HasKind(TableAddressTooLarge))
}
