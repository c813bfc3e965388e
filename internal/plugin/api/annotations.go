package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/command"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

// AnnotationModule implements the ks.annotations API module.
//
// annotate, delete and clear follow the same enablement as the commands:
// they raise an error outside annotation mode.
type AnnotationModule struct {
	ctx *Context
}

// NewAnnotationModule creates a new annotation module.
func NewAnnotationModule(ctx *Context) *AnnotationModule {
	return &AnnotationModule{ctx: ctx}
}

// Name returns the module name.
func (m *AnnotationModule) Name() string {
	return "annotations"
}

// Funcs returns the module functions.
func (m *AnnotationModule) Funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"list":     m.list,
		"count":    m.count,
		"at":       m.at,
		"annotate": m.annotate,
		"delete":   m.delete,
		"clear":    m.clear,
		"mode":     m.mode,
		"toggle":   m.toggle,
	}
}

// load returns the reconciled set of the active document.
func (m *AnnotationModule) load(L *lua.LState, fn string) (*document.Document, *annotation.Set) {
	doc := m.ctx.active(L, fn)
	set, err := m.ctx.Store.Load(doc)
	if err != nil {
		L.RaiseError("%s: %v", fn, err)
		return nil, nil
	}
	return doc, set
}

// enabled raises an error unless action may run on doc.
func (m *AnnotationModule) enabled(L *lua.LState, fn, action string, doc *document.Document) {
	if !m.ctx.Commands.IsEnabled(action, doc) {
		L.RaiseError("%s: %s is disabled", fn, action)
	}
}

func (m *AnnotationModule) annotationTable(L *lua.LState, a annotation.Annotation) *lua.LTable {
	tbl := rangeTable(L, a.Range)
	L.SetField(tbl, "id", lua.LNumber(a.ID))
	L.SetField(tbl, "comment", lua.LString(a.Comment))
	L.SetField(tbl, "hash", lua.LString(a.Hash))
	L.SetField(tbl, "preview", lua.LString(a.Preview(m.ctx.PreviewWidth)))
	return tbl
}

// list() -> {annotation, ...}
// Returns every annotation in id order. Lua index i holds id i-1.
func (m *AnnotationModule) list(L *lua.LState) int {
	_, set := m.load(L, "list")
	tbl := L.NewTable()
	for i, a := range set.All() {
		tbl.RawSetInt(i+1, m.annotationTable(L, a))
	}
	L.Push(tbl)
	return 1
}

// count() -> number
func (m *AnnotationModule) count(L *lua.LState) int {
	_, set := m.load(L, "count")
	L.Push(lua.LNumber(set.Count()))
	return 1
}

// at(offset) -> annotation or nil
// Returns the annotation containing offset.
func (m *AnnotationModule) at(L *lua.LState) int {
	offset := L.CheckInt64(1)
	_, set := m.load(L, "at")
	a, ok := set.Find(buffer.ByteOffset(offset))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(m.annotationTable(L, a))
	return 1
}

// annotate(start, end, comment) -> outcome
// Comments a range the way the annotate command does, without prompting.
// Returns "created", "updated" or "discarded".
func (m *AnnotationModule) annotate(L *lua.LState) int {
	r := checkRange(L, 1)
	comment := L.CheckString(3)

	doc := m.ctx.active(L, "annotate")
	m.enabled(L, "annotate", command.ActionAnnotate, doc)

	req, err := m.ctx.Store.Prepare(doc, r)
	if err != nil {
		L.RaiseError("annotate: %v", err)
		return 0
	}
	outcome, err := m.ctx.Store.Commit(doc, req, comment)
	if err != nil {
		L.RaiseError("annotate: %v", err)
		return 0
	}
	L.Push(lua.LString(outcome.String()))
	return 1
}

// delete(start, end) -> count
// Deletes the annotation intersecting the range and returns the number of
// annotations left.
func (m *AnnotationModule) delete(L *lua.LState) int {
	r := checkRange(L, 1)

	doc := m.ctx.active(L, "delete")
	m.enabled(L, "delete", command.ActionDelete, doc)

	set, err := m.ctx.Store.DeleteIntersecting(doc, []buffer.Range{r})
	if err != nil {
		L.RaiseError("delete: %v", err)
		return 0
	}
	L.Push(lua.LNumber(set.Count()))
	return 1
}

// clear() -> nil
func (m *AnnotationModule) clear(L *lua.LState) int {
	doc := m.ctx.active(L, "clear")
	m.enabled(L, "clear", command.ActionClear, doc)

	if err := m.ctx.Store.Clear(doc); err != nil {
		L.RaiseError("clear: %v", err)
	}
	return 0
}

// mode() -> bool
// Returns true in annotation mode.
func (m *AnnotationModule) mode(L *lua.LState) int {
	doc := m.ctx.active(L, "mode")
	L.Push(lua.LBool(command.InAnnotationMode(doc)))
	return 1
}

// toggle() -> bool
// Enters or leaves annotation mode and returns the new mode.
func (m *AnnotationModule) toggle(L *lua.LState) int {
	doc := m.ctx.active(L, "toggle")
	m.enabled(L, "toggle", command.ActionToggleMode, doc)

	res := m.ctx.Commands.Handle(command.ActionToggleMode, doc)
	if res.IsError() {
		L.RaiseError("toggle: %v", res.Error)
		return 0
	}
	L.Push(lua.LBool(command.InAnnotationMode(doc)))
	return 1
}
