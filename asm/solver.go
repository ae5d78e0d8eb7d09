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

import "github.com/huff-language/huffc/evm"

// solveSizes fixes the data width of every pushRef. All widths start at one
// byte; each round recomputes label PCs under the current widths and widens
// any push whose value no longer fits. Widening moves labels forward only, so
// widths grow monotonically and the loop terminates.
func (ops *OpStream) solveSizes() {
	rounds := 0
	for {
		rounds++

		pc := 0
		for _, sec := range ops.sections {
			switch s := sec.(type) {
			case opBytes:
				pc += len(s.data)
			case labelMark:
				ops.labels[s.id].pc = pc
			case *pushRef:
				pc += s.encodedSize(ops.params.EmitPush0)
			}
		}

		changed := false
		for _, sec := range ops.sections {
			p, ok := sec.(*pushRef)
			if !ok {
				continue
			}
			v := ops.labels[p.target].pc
			if v != p.value {
				p.value = v
				changed = true
			}
			need := evm.PushWidthFor(uint64(v))
			if need > p.width {
				if need > ops.params.MaxPushWidth {
					ops.errors.errorf(TableAddressTooLarge, p.span,
						"offset %d needs a %d-byte push, limit is %d", v, need, ops.params.MaxPushWidth)
					return
				}
				p.width = need
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	ops.log.Debugf("push sizes converged after %d rounds", rounds)
}
