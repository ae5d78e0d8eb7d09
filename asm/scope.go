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

import "github.com/huff-language/huffc/lang"

// labelID indexes the central label table. IDs are unique across the whole
// invocation tree, so the same label name in two expansions of a macro gets
// two distinct IDs.
type labelID int

// labelInfo is one entry of the label table. pc is filled by the size solver.
type labelInfo struct {
	name string
	span lang.Span
	pc   int
}

func (ops *OpStream) newLabel(name string, span lang.Span) labelID {
	id := labelID(len(ops.labels))
	ops.labels = append(ops.labels, &labelInfo{name: name, span: span})
	return id
}

// scopeLabels walks the tree in pre-order and assigns each node its label
// scope. The whole body is scanned before any resolution happens, so a
// reference may point at a label defined later in the same body or in an
// ancestor's body.
func (ops *OpStream) scopeLabels(node *invocation) {
	node.labels = make(map[string]labelID)
	for _, stmt := range node.macro.Body {
		def, ok := stmt.(*lang.LabelDef)
		if !ok {
			continue
		}
		if prev, dup := node.labels[def.Ident]; dup {
			ops.errors.related(DuplicateLabel, def.Span, []lang.Span{ops.labels[prev].span},
				"duplicate label %s in macro %s", def.Ident, node.macro.Ident)
			continue
		}
		node.labels[def.Ident] = ops.newLabel(def.Ident, def.Span)
	}
	for _, stmt := range node.macro.Body {
		if call, ok := stmt.(*lang.MacroCall); ok {
			if child := node.children[call]; child != nil {
				ops.scopeLabels(child)
			}
		}
	}
}

// resolveLabel searches the node's scope, then its ancestors', for name. The
// first match wins, so a label in an inner expansion shadows an ancestor's
// label of the same name. Resolution never descends into children.
func resolveLabel(node *invocation, name string) (labelID, bool) {
	for n := node; n != nil; n = n.parent {
		if id, ok := n.labels[name]; ok {
			return id, true
		}
	}
	return 0, false
}
