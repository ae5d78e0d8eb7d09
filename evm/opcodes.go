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

// Package evm holds the EVM instruction table and PUSH encoding helpers.
package evm

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// OpCode is a single-byte EVM instruction.
type OpCode byte

// Instructions referenced by name elsewhere in the compiler.
const (
	JUMPDEST       OpCode = 0x5b
	PUSH0          OpCode = 0x5f
	PUSH1          OpCode = 0x60
	PUSH32         OpCode = 0x7f
	DUP1           OpCode = 0x80
	MSIZE          OpCode = 0x59
	MSTORE         OpCode = 0x52
	CODECOPY       OpCode = 0x39
	RETURNDATASIZE OpCode = 0x3d
	RETURN         OpCode = 0xf3
)

// MaxPushWidth is the number of data bytes PUSH32 carries.
const MaxPushWidth = 32

// opSpec describes one entry of the instruction table.
type opSpec struct {
	code OpCode
	name string
}

var opSpecs = []opSpec{
	{0x00, "stop"},
	{0x01, "add"},
	{0x02, "mul"},
	{0x03, "sub"},
	{0x04, "div"},
	{0x05, "sdiv"},
	{0x06, "mod"},
	{0x07, "smod"},
	{0x08, "addmod"},
	{0x09, "mulmod"},
	{0x0a, "exp"},
	{0x0b, "signextend"},
	{0x10, "lt"},
	{0x11, "gt"},
	{0x12, "slt"},
	{0x13, "sgt"},
	{0x14, "eq"},
	{0x15, "iszero"},
	{0x16, "and"},
	{0x17, "or"},
	{0x18, "xor"},
	{0x19, "not"},
	{0x1a, "byte"},
	{0x1b, "shl"},
	{0x1c, "shr"},
	{0x1d, "sar"},
	{0x20, "keccak256"},
	{0x20, "sha3"},
	{0x30, "address"},
	{0x31, "balance"},
	{0x32, "origin"},
	{0x33, "caller"},
	{0x34, "callvalue"},
	{0x35, "calldataload"},
	{0x36, "calldatasize"},
	{0x37, "calldatacopy"},
	{0x38, "codesize"},
	{0x39, "codecopy"},
	{0x3a, "gasprice"},
	{0x3b, "extcodesize"},
	{0x3c, "extcodecopy"},
	{0x3d, "returndatasize"},
	{0x3e, "returndatacopy"},
	{0x3f, "extcodehash"},
	{0x40, "blockhash"},
	{0x41, "coinbase"},
	{0x42, "timestamp"},
	{0x43, "number"},
	{0x44, "prevrandao"},
	{0x44, "difficulty"},
	{0x45, "gaslimit"},
	{0x46, "chainid"},
	{0x47, "selfbalance"},
	{0x48, "basefee"},
	{0x50, "pop"},
	{0x51, "mload"},
	{0x52, "mstore"},
	{0x53, "mstore8"},
	{0x54, "sload"},
	{0x55, "sstore"},
	{0x56, "jump"},
	{0x57, "jumpi"},
	{0x58, "pc"},
	{0x59, "msize"},
	{0x5a, "gas"},
	{0x5b, "jumpdest"},
	{0x5f, "push0"},
	{0xf0, "create"},
	{0xf1, "call"},
	{0xf2, "callcode"},
	{0xf3, "return"},
	{0xf4, "delegatecall"},
	{0xf5, "create2"},
	{0xfa, "staticcall"},
	{0xfd, "revert"},
	{0xfe, "invalid"},
	{0xff, "selfdestruct"},
}

var opsByName map[string]OpCode

func init() {
	opsByName = make(map[string]OpCode, len(opSpecs)+64)
	for _, spec := range opSpecs {
		opsByName[spec.name] = spec.code
	}
	for i := 1; i <= 16; i++ {
		opsByName[fmt.Sprintf("dup%d", i)] = OpCode(0x80 + i - 1)
		opsByName[fmt.Sprintf("swap%d", i)] = OpCode(0x90 + i - 1)
	}
	for i := 0; i <= 4; i++ {
		opsByName[fmt.Sprintf("log%d", i)] = OpCode(0xa0 + i)
	}
}

// OpByName resolves a mnemonic to its opcode. Lookup is case-insensitive;
// the pushN mnemonics are excluded because they take immediate data and are
// handled by the parser.
func OpByName(name string) (OpCode, bool) {
	op, ok := opsByName[strings.ToLower(name)]
	return op, ok
}

// IsPushMnemonic reports whether name is one of push1..push32, returning the
// data width. push0 is a plain opcode and not matched here.
func IsPushMnemonic(name string) (int, bool) {
	lower := strings.ToLower(name)
	if !strings.HasPrefix(lower, "push") || len(lower) == len("push") {
		return 0, false
	}
	n := 0
	for _, c := range lower[len("push"):] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > MaxPushWidth {
			return 0, false
		}
	}
	if n < 1 {
		return 0, false
	}
	return n, true
}

// PushOp returns the PUSHn opcode for n data bytes, n in [0, 32].
func PushOp(width int) OpCode {
	if width == 0 {
		return PUSH0
	}
	return PUSH1 + OpCode(width-1)
}

// PushData encodes v big-endian into exactly width bytes. The value must fit.
func PushData(v *uint256.Int, width int) []byte {
	return v.PaddedBytes(32)[32-width:]
}

// MinPushValue encodes the minimum-width push of v. Zero becomes PUSH0 when
// push0 is set, PUSH1 0x00 otherwise.
func MinPushValue(v *uint256.Int, push0 bool) []byte {
	if v.IsZero() {
		if push0 {
			return []byte{byte(PUSH0)}
		}
		return []byte{byte(PUSH1), 0x00}
	}
	width := v.ByteLen()
	out := make([]byte, 1, 1+width)
	out[0] = byte(PushOp(width))
	return append(out, PushData(v, width)...)
}

// MinPushUint is MinPushValue for a machine integer.
func MinPushUint(v uint64, push0 bool) []byte {
	return MinPushValue(uint256.NewInt(v), push0)
}

// PushWidthFor returns the number of data bytes needed to hold v. Zero needs
// one byte (or a PUSH0, which the size solver accounts for separately).
func PushWidthFor(v uint64) int {
	width := 0
	for tv := v; tv > 0; tv >>= 8 {
		width++
	}
	if width == 0 {
		width = 1
	}
	return width
}
