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
	"github.com/huff-language/huffc/evm"
	"github.com/huff-language/huffc/lang"
)

// bytes serializes the solved sections. Label marks contribute nothing; each
// pushRef becomes PUSHw plus its value big-endian in w bytes, or a bare PUSH0.
func (ops *OpStream) bytes() []byte {
	var out []byte
	for _, sec := range ops.sections {
		switch s := sec.(type) {
		case opBytes:
			out = append(out, s.data...)
		case *pushRef:
			if s.value == 0 && ops.params.EmitPush0 {
				out = append(out, byte(evm.PUSH0))
				continue
			}
			out = append(out, byte(evm.PushOp(s.width)))
			data := make([]byte, s.width)
			v := s.value
			for i := s.width - 1; i >= 0; i-- {
				data[i] = byte(v)
				v >>= 8
			}
			out = append(out, data...)
		}
	}
	return out
}

// wrapConstructor wraps runtime bytecode in init code that returns it.
// Runtimes up to a word are pushed whole and returned from memory; anything
// longer gets the CODECOPY prelude with minimized size and offset pushes.
// The prelude relies on RETURNDATASIZE being zero, so it is only correct as a
// standalone constructor.
func wrapConstructor(runtime []byte, params CompileParams) []byte {
	n := len(runtime)
	switch {
	case n == 0:
		return nil
	case n <= 32:
		out := make([]byte, 0, n+8)
		out = append(out, byte(evm.PushOp(n)))
		out = append(out, runtime...)
		out = append(out, byte(evm.RETURNDATASIZE), byte(evm.MSTORE))
		if n == 32 {
			return append(out, byte(evm.MSIZE), byte(evm.RETURNDATASIZE), byte(evm.RETURN))
		}
		return append(out,
			byte(evm.PUSH1), byte(n),
			byte(evm.PUSH1), byte(32-n),
			byte(evm.RETURN))
	}

	ops := newOpStream(params)
	start := ops.newLabel("runtime", lang.Span{})
	ops.add(
		opBytes{data: evm.MinPushUint(uint64(n), params.EmitPush0)},
		opBytes{data: []byte{byte(evm.DUP1)}},
		&pushRef{target: start, width: 1},
		opBytes{data: []byte{
			byte(evm.RETURNDATASIZE),
			byte(evm.CODECOPY),
			byte(evm.RETURNDATASIZE),
			byte(evm.RETURN),
		}},
		labelMark{id: start},
		opBytes{data: runtime},
	)
	ops.solveSizes()
	return ops.bytes()
}
