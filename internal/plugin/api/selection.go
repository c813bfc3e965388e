package api

import (
	lua "github.com/yuin/gopher-lua"
)

// SelectionModule implements the ks.sel API module.
type SelectionModule struct {
	ctx *Context
}

// NewSelectionModule creates a new selection module.
func NewSelectionModule(ctx *Context) *SelectionModule {
	return &SelectionModule{ctx: ctx}
}

// Name returns the module name.
func (m *SelectionModule) Name() string {
	return "sel"
}

// Funcs returns the module functions.
func (m *SelectionModule) Funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"get": m.get,
		"set": m.set,
		"add": m.add,
	}
}

// get() -> {{start, end}, ...}
// Returns every selection in position order.
func (m *SelectionModule) get(L *lua.LState) int {
	doc := m.ctx.active(L, "get")
	tbl := L.NewTable()
	for i, r := range doc.Selections() {
		tbl.RawSetInt(i+1, rangeTable(L, r))
	}
	L.Push(tbl)
	return 1
}

// set(start, end) -> nil
// Replaces all selections with one.
func (m *SelectionModule) set(L *lua.LState) int {
	r := checkRange(L, 1)
	doc := m.ctx.active(L, "set")
	doc.SetSelections(r)
	return 0
}

// add(start, end) -> nil
// Adds a selection. Overlapping selections merge.
func (m *SelectionModule) add(L *lua.LState) int {
	r := checkRange(L, 1)
	doc := m.ctx.active(L, "add")
	doc.SetSelections(append(doc.Selections(), r)...)
	return 0
}
