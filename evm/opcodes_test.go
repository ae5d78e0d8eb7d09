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

package evm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestOpByName(t *testing.T) {
	op, ok := OpByName("add")
	require.True(t, ok)
	require.Equal(t, OpCode(0x01), op)

	op, ok = OpByName("ADD")
	require.True(t, ok)
	require.Equal(t, OpCode(0x01), op)

	op, ok = OpByName("sha3")
	require.True(t, ok)
	require.Equal(t, OpCode(0x20), op)

	op, ok = OpByName("dup16")
	require.True(t, ok)
	require.Equal(t, OpCode(0x8f), op)

	op, ok = OpByName("swap1")
	require.True(t, ok)
	require.Equal(t, OpCode(0x90), op)

	op, ok = OpByName("log4")
	require.True(t, ok)
	require.Equal(t, OpCode(0xa4), op)

	op, ok = OpByName("push0")
	require.True(t, ok)
	require.Equal(t, PUSH0, op)

	_, ok = OpByName("push1")
	require.False(t, ok)

	_, ok = OpByName("frobnicate")
	require.False(t, ok)
}

func TestIsPushMnemonic(t *testing.T) {
	n, ok := IsPushMnemonic("push1")
	require.True(t, ok)
	require.Equal(t, 1, n)

	n, ok = IsPushMnemonic("push32")
	require.True(t, ok)
	require.Equal(t, 32, n)

	_, ok = IsPushMnemonic("push0")
	require.False(t, ok)
	_, ok = IsPushMnemonic("push33")
	require.False(t, ok)
	_, ok = IsPushMnemonic("pusher")
	require.False(t, ok)
}

func TestPushEncoding(t *testing.T) {
	require.Equal(t, []byte{0x5f}, MinPushValue(uint256.NewInt(0), true))
	require.Equal(t, []byte{0x60, 0x00}, MinPushValue(uint256.NewInt(0), false))
	require.Equal(t, []byte{0x60, 0xff}, MinPushValue(uint256.NewInt(255), true))
	require.Equal(t, []byte{0x61, 0x01, 0x00}, MinPushValue(uint256.NewInt(256), true))

	word := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	encoded := MinPushValue(word, true)
	require.Equal(t, byte(PUSH32), encoded[0])
	require.Len(t, encoded, 33)
}

func TestPushData(t *testing.T) {
	require.Equal(t, []byte{0x00, 0x01}, PushData(uint256.NewInt(1), 2))
	require.Equal(t, []byte{0x12, 0x34}, PushData(uint256.NewInt(0x1234), 2))
}

func TestPushWidthFor(t *testing.T) {
	require.Equal(t, 1, PushWidthFor(0))
	require.Equal(t, 1, PushWidthFor(255))
	require.Equal(t, 2, PushWidthFor(256))
	require.Equal(t, 2, PushWidthFor(65535))
	require.Equal(t, 3, PushWidthFor(65536))
}
