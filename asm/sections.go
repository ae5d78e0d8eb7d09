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

	"github.com/huff-language/huffc/abi"
	"github.com/huff-language/huffc/evm"
	"github.com/huff-language/huffc/lang"
)

// section is one element of the flattened program.
type section interface {
	section()
}

// opBytes is a run of fixed bytes: opcode encodings, literal push data, or
// appended table/code blobs.
type opBytes struct {
	data []byte
}

func (opBytes) section() {}

// labelMark records the current PC for a label. It contributes no bytes.
type labelMark struct {
	id labelID
}

func (labelMark) section() {}

// pushRef is a push of a not-yet-resolved offset. width is the current data
// width chosen by the size solver; value is the last resolved PC.
type pushRef struct {
	target labelID
	width  int
	value  int
	span   lang.Span
}

func (*pushRef) section() {}

// encodedSize is the byte size of the push with the current width. A resolved
// zero collapses to PUSH0 when enabled.
func (p *pushRef) encodedSize(push0 bool) int {
	if p.value == 0 && push0 {
		return 1
	}
	return 1 + p.width
}

// includedMacro is a macro compiled as an isolated unit and appended at the
// tail for __codesize / __codeoffset.
type includedMacro struct {
	name  string
	start labelID
	data  []byte
}

// includedTable is a code table appended at the tail when referenced.
type includedTable struct {
	table      *lang.CodeTable
	start      labelID
	referenced bool
}

func (ops *OpStream) add(secs ...section) {
	ops.sections = append(ops.sections, secs...)
}

// emitNode flattens one invocation node in source order, recursing into child
// invocations as they appear.
func (ops *OpStream) emitNode(node *invocation) {
	for _, stmt := range node.macro.Body {
		switch st := stmt.(type) {
		case *lang.LabelDef:
			id := node.labels[st.Ident]
			ops.add(labelMark{id: id}, opBytes{data: []byte{byte(evm.JUMPDEST)}})
		case *lang.MacroCall:
			if child := node.children[st]; child != nil {
				ops.emitNode(child)
			}
		case *lang.Builtin:
			ops.emitBuiltin(st)
		case lang.Instruction:
			ops.emitInstruction(st, node)
		}
	}
}

// emitInstruction appends the sections for one instruction, resolving
// references against node's scope chain.
func (ops *OpStream) emitInstruction(instr lang.Instruction, node *invocation) {
	switch in := instr.(type) {
	case *lang.Op:
		ops.add(opBytes{data: []byte{byte(in.Code)}})

	case *lang.Push:
		if in.Width == 0 {
			ops.add(opBytes{data: evm.MinPushValue(in.Word, ops.params.EmitPush0)})
			return
		}
		if in.Word.ByteLen() > in.Width {
			ops.errors.errorf(PushDataOverflow, in.Span,
				"literal needs %d bytes, push%d holds %d", in.Word.ByteLen(), in.Width, in.Width)
			return
		}
		data := make([]byte, 1, 1+in.Width)
		data[0] = byte(evm.PushOp(in.Width))
		ops.add(opBytes{data: append(data, evm.PushData(in.Word, in.Width)...)})

	case *lang.LabelRef:
		id, ok := resolveLabel(node, in.Ident)
		if !ok {
			ops.errors.errorf(UnresolvedLabel, in.Span,
				"no label %s in %s or the macros invoking it", in.Ident, node.macro.Ident)
			return
		}
		ops.add(&pushRef{target: id, width: 1, span: in.Span})

	case *lang.ConstantRef:
		v, ok := ops.symtab.constant(in.Ident)
		if !ok {
			ops.errors.errorf(UnknownReference, in.Span, "no constant named %s", in.Ident)
			return
		}
		ops.add(opBytes{data: evm.MinPushValue(v, ops.params.EmitPush0)})

	case *lang.MacroArgRef:
		bound, ok := node.args[in.Ident]
		if !ok {
			ops.errors.errorf(UnknownMacroArg, in.Span,
				"%s is not a parameter of %s", in.Ident, node.macro.Ident)
			return
		}
		ops.emitInstruction(bound.instr, bound.origin)
	}
}

func (ops *OpStream) emitBuiltin(b *lang.Builtin) {
	switch b.Kind {
	case lang.BuiltinTableStart:
		if t := ops.lookupTable(b); t != nil {
			t.referenced = true
			ops.add(&pushRef{target: t.start, width: 1, span: b.Span})
		}

	case lang.BuiltinTableSize:
		if t := ops.lookupTable(b); t != nil {
			t.referenced = true
			ops.add(opBytes{data: evm.MinPushUint(uint64(len(t.table.Data)), ops.params.EmitPush0)})
		}

	case lang.BuiltinCodeSize:
		if blob := ops.includeMacro(b); blob != nil {
			ops.add(opBytes{data: evm.MinPushUint(uint64(len(blob.data)), ops.params.EmitPush0)})
		}

	case lang.BuiltinCodeOffset:
		if blob := ops.includeMacro(b); blob != nil {
			ops.add(&pushRef{target: blob.start, width: 1, span: b.Span})
		}

	case lang.BuiltinFuncSig:
		fn, ok := ops.symtab.definition(b.Arg)
		f, isFn := fn.(*lang.SolFunction)
		if !ok || !isFn {
			ops.builtinMismatch(b, "function")
			return
		}
		ops.pushSelector(f.Ident, f.Args)

	case lang.BuiltinErrorSig:
		def, ok := ops.symtab.definition(b.Arg)
		e, isErr := def.(*lang.SolError)
		if !ok || !isErr {
			ops.builtinMismatch(b, "error")
			return
		}
		ops.pushSelector(e.Ident, e.Args)

	case lang.BuiltinEventHash:
		def, ok := ops.symtab.definition(b.Arg)
		e, isEvent := def.(*lang.SolEvent)
		if !ok || !isEvent {
			ops.builtinMismatch(b, "event")
			return
		}
		topic := abi.EventTopic(e.Ident, e.Args)
		word := new(uint256.Int).SetBytes(topic[:])
		ops.add(opBytes{data: evm.MinPushValue(word, ops.params.EmitPush0)})
	}
}

func (ops *OpStream) builtinMismatch(b *lang.Builtin, want string) {
	if _, defined := ops.symtab.definition(b.Arg); defined {
		ops.errors.errorf(BuiltinKindMismatch, b.ArgSpan,
			"%s needs a %s, %s is not one", b.Kind, want, b.Arg)
	} else {
		ops.errors.errorf(UnknownReference, b.ArgSpan, "no %s named %s", want, b.Arg)
	}
}

// lookupTable resolves a table builtin argument, registering the table for
// the tail on first sight.
func (ops *OpStream) lookupTable(b *lang.Builtin) *includedTable {
	if t, ok := ops.tables[b.Arg]; ok {
		return t
	}
	def, ok := ops.symtab.codeTable(b.Arg)
	if !ok {
		if _, defined := ops.symtab.definition(b.Arg); defined {
			ops.errors.errorf(BuiltinKindMismatch, b.ArgSpan,
				"%s needs a code table, %s is not one", b.Kind, b.Arg)
		} else {
			ops.errors.errorf(UnknownReference, b.ArgSpan, "no code table named %s", b.Arg)
		}
		return nil
	}
	t := &includedTable{table: def, start: ops.newLabel(def.Ident, def.Span)}
	ops.tables[b.Arg] = t
	ops.tableOrder = append(ops.tableOrder, b.Arg)
	return t
}

// includeMacro compiles the macro referenced by __codesize / __codeoffset as
// an isolated unit, deferred to the tail. Each macro is compiled once no
// matter how often it is referenced.
func (ops *OpStream) includeMacro(b *lang.Builtin) *includedMacro {
	for _, blob := range ops.macroBlobs {
		if blob.name == b.Arg {
			return blob
		}
	}
	m, ok := ops.symtab.macro(b.Arg)
	if !ok {
		if _, defined := ops.symtab.definition(b.Arg); defined {
			ops.errors.errorf(BuiltinKindMismatch, b.ArgSpan,
				"%s needs a macro, %s is not one", b.Kind, b.Arg)
		} else {
			ops.errors.errorf(UnknownReference, b.ArgSpan, "no macro named %s", b.Arg)
		}
		return nil
	}
	if len(m.Params) > 0 {
		ops.errors.errorf(ArgCountMismatch, b.ArgSpan,
			"cannot include macro %s: it takes %d arguments", m.Ident, len(m.Params))
		return nil
	}
	for _, name := range ops.includeStack {
		if name == m.Ident {
			ops.errors.errorf(RecursiveMacro, b.Span,
				"recursive code inclusion: %s", joinCycle(ops.includeStack, m.Ident))
			return nil
		}
	}

	sub := newOpStream(ops.params)
	sub.symtab = ops.symtab
	sub.includeStack = append(append([]string{}, ops.includeStack...), m.Ident)
	data, subErrs := sub.assemble(m)
	if len(subErrs) > 0 {
		ops.errors = append(ops.errors, subErrs...)
		return nil
	}

	blob := &includedMacro{name: m.Ident, start: ops.newLabel(m.Ident, m.Span), data: data}
	ops.macroBlobs = append(ops.macroBlobs, blob)
	return blob
}

func joinCycle(stack []string, last string) string {
	out := ""
	for _, name := range stack {
		out += name + " -> "
	}
	return out + last
}

// pushSelector emits the 4-byte selector of a function or error signature as
// a minimum-width push.
func (ops *OpStream) pushSelector(name string, args []string) {
	sel := abi.Selector(name, args)
	word := new(uint256.Int).SetBytes(sel[:])
	ops.add(opBytes{data: evm.MinPushValue(word, ops.params.EmitPush0)})
}

// appendTail adds the deferred code blobs, then every referenced code table,
// each preceded by the mark its references point at.
func (ops *OpStream) appendTail() {
	for _, blob := range ops.macroBlobs {
		ops.add(labelMark{id: blob.start}, opBytes{data: blob.data})
	}
	for _, name := range ops.tableOrder {
		t := ops.tables[name]
		if !t.referenced && !ops.params.KeepUnusedTables {
			continue
		}
		ops.add(labelMark{id: t.start}, opBytes{data: t.table.Data})
	}
	if ops.params.KeepUnusedTables {
		// Tables never named by any builtin still get emitted, in source
		// order after the referenced ones.
		for _, def := range ops.symtab.order {
			table, ok := def.(*lang.CodeTable)
			if !ok {
				continue
			}
			if _, seen := ops.tables[table.Ident]; seen {
				continue
			}
			ops.add(labelMark{id: ops.newLabel(table.Ident, table.Span)}, opBytes{data: table.Data})
		}
	}
}
