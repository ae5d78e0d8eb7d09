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
	"github.com/holiman/uint256"

	"github.com/huff-language/huffc/lang"
)

// symbolTable maps each top-level name to its definition. Names are unique
// across all definition kinds. Constant values, including free storage
// pointer slots, are evaluated once here.
type symbolTable struct {
	defs      map[string]lang.Definition
	order     []lang.Definition
	constants map[string]*uint256.Int
}

// buildSymbolTable indexes the root's definitions, reporting every duplicate
// name with both spans. The first definition of a name wins so later stages
// can keep running.
func buildSymbolTable(root *lang.Root, errs *ErrorList) *symbolTable {
	st := &symbolTable{
		defs:      make(map[string]lang.Definition, len(root.Defs)),
		constants: make(map[string]*uint256.Int),
	}
	for _, def := range root.Defs {
		if prev, ok := st.defs[def.Name()]; ok {
			errs.related(DuplicateDefinition, def.NameSpan(), []lang.Span{prev.NameSpan()},
				"duplicate definition of %q", def.Name())
			continue
		}
		st.defs[def.Name()] = def
		st.order = append(st.order, def)
	}

	// Free storage pointer slots are assigned in source order.
	nextSlot := uint64(0)
	for _, def := range st.order {
		c, ok := def.(*lang.Constant)
		if !ok {
			continue
		}
		if c.FreePointer {
			st.constants[c.Ident] = uint256.NewInt(nextSlot)
			nextSlot++
		} else {
			st.constants[c.Ident] = c.Value
		}
	}
	return st
}

func (st *symbolTable) definition(name string) (lang.Definition, bool) {
	def, ok := st.defs[name]
	return def, ok
}

func (st *symbolTable) macro(name string) (*lang.Macro, bool) {
	m, ok := st.defs[name].(*lang.Macro)
	return m, ok
}

func (st *symbolTable) codeTable(name string) (*lang.CodeTable, bool) {
	t, ok := st.defs[name].(*lang.CodeTable)
	return t, ok
}

func (st *symbolTable) constant(name string) (*uint256.Int, bool) {
	v, ok := st.constants[name]
	return v, ok
}
