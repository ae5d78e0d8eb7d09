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
	"strings"

	"github.com/huff-language/huffc/lang"
)

// invocation is one expansion of one macro: a node of the invocation tree.
// The same macro invoked from two call sites yields two nodes with distinct
// label scopes.
type invocation struct {
	macro    *lang.Macro
	parent   *invocation
	callSpan lang.Span

	// Actual arguments keyed by formal parameter name.
	args map[string]boundArg

	// One child per MacroCall statement of the body.
	children map[*lang.MacroCall]*invocation

	// Label scope, filled by scopeLabels.
	labels map[string]labelID
}

// boundArg is an actual argument bound at tree-building time. origin is the
// node whose body lexically contains the instruction: label references inside
// the argument resolve against the origin's scope chain, not the callee's.
type boundArg struct {
	instr  lang.Instruction
	origin *invocation
}

// buildInvocationTree expands the tree rooted at the entry macro. It returns
// nil when a fatal structural error (macro recursion, or an entry macro that
// takes arguments) was found.
func (ops *OpStream) buildInvocationTree(entry *lang.Macro) *invocation {
	root := &invocation{
		macro:    entry,
		callSpan: entry.Span,
		args:     map[string]boundArg{},
		children: map[*lang.MacroCall]*invocation{},
	}
	if len(entry.Params) > 0 {
		ops.errors.errorf(ArgCountMismatch, entry.Span,
			"entry macro %s takes %d arguments, none are supplied", entry.Ident, len(entry.Params))
		return nil
	}
	if !ops.expand(root) {
		return nil
	}
	return root
}

// expand builds the children of node, in source order. It returns false on
// recursion, which terminates tree building.
func (ops *OpStream) expand(node *invocation) bool {
	for _, stmt := range node.macro.Body {
		call, ok := stmt.(*lang.MacroCall)
		if !ok {
			continue
		}
		callee, found := ops.symtab.macro(call.Ident)
		if !found {
			if _, defined := ops.symtab.definition(call.Ident); defined {
				ops.errors.errorf(NotAMacro, call.Span, "%s is not a macro", call.Ident)
			} else {
				ops.errors.errorf(NotAMacro, call.Span, "no macro named %s", call.Ident)
			}
			continue
		}
		if len(call.Args) != len(callee.Params) {
			ops.errors.errorf(ArgCountMismatch, call.Span,
				"macro %s takes %d arguments, got %d", callee.Ident, len(callee.Params), len(call.Args))
			continue
		}
		if cycle := callPath(node, callee); cycle != "" {
			ops.errors.errorf(RecursiveMacro, call.Span, "recursive macro invocation: %s", cycle)
			return false
		}

		child := &invocation{
			macro:    callee,
			parent:   node,
			callSpan: call.Span,
			args:     make(map[string]boundArg, len(call.Args)),
			children: map[*lang.MacroCall]*invocation{},
		}
		for i, actual := range call.Args {
			bound := boundArg{instr: actual, origin: node}
			// Forwarded <arg> references inherit the caller's own binding.
			if ref, isRef := actual.(*lang.MacroArgRef); isRef {
				inherited, has := node.args[ref.Ident]
				if !has {
					ops.errors.errorf(UnknownMacroArg, ref.Span,
						"%s is not a parameter of %s", ref.Ident, node.macro.Ident)
					continue
				}
				bound = inherited
			}
			child.args[callee.Params[i].Ident] = bound
		}
		node.children[call] = child
		if !ops.expand(child) {
			return false
		}
	}
	return true
}

// callPath checks whether callee already appears on the ancestor path of
// node. It returns the cycle description, or "" when there is none.
func callPath(node *invocation, callee *lang.Macro) string {
	onPath := false
	for n := node; n != nil; n = n.parent {
		if n.macro == callee {
			onPath = true
			break
		}
	}
	if !onPath {
		return ""
	}
	var names []string
	for n := node; n != nil; n = n.parent {
		names = append(names, n.macro.Ident)
	}
	// Reverse into root-first order and close the cycle.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(append(names, callee.Ident), " -> ")
}
