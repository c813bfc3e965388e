package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

// BufferModule implements the ks.buf API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Funcs returns the module functions.
func (m *BufferModule) Funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"text":       m.text,
		"text_range": m.textRange,
		"len":        m.bufLen,
		"line_count": m.lineCount,
		"path":       m.path,
		"revision":   m.revision,
		"insert":     m.insert,
		"delete":     m.delete,
		"replace":    m.replace,
	}
}

// text() -> string
// Returns the full document text.
func (m *BufferModule) text(L *lua.LState) int {
	doc := m.ctx.active(L, "text")
	L.Push(lua.LString(doc.Text()))
	return 1
}

// text_range(start, end) -> string
// Returns text in the given byte range, clamped to the document.
func (m *BufferModule) textRange(L *lua.LState) int {
	r := checkRange(L, 1)
	doc := m.ctx.active(L, "text_range")
	L.Push(lua.LString(doc.TextRange(r.Start, r.End)))
	return 1
}

// len() -> number
// Returns the document length in bytes.
func (m *BufferModule) bufLen(L *lua.LState) int {
	doc := m.ctx.active(L, "len")
	L.Push(lua.LNumber(doc.Len()))
	return 1
}

// line_count() -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	doc := m.ctx.active(L, "line_count")
	L.Push(lua.LNumber(doc.LineCount()))
	return 1
}

// revision() -> number
func (m *BufferModule) revision(L *lua.LState) int {
	doc := m.ctx.active(L, "revision")
	L.Push(lua.LNumber(doc.Revision()))
	return 1
}

// path() -> string
func (m *BufferModule) path(L *lua.LState) int {
	doc := m.ctx.active(L, "path")
	L.Push(lua.LString(doc.Path()))
	return 1
}

// insert(offset, text) -> end_offset
// Inserts text at the given byte offset.
func (m *BufferModule) insert(L *lua.LState) int {
	offset := L.CheckInt64(1)
	text := L.CheckString(2)
	if offset < 0 {
		L.ArgError(1, "offset must be non-negative")
		return 0
	}

	doc := m.ctx.active(L, "insert")
	end, err := doc.Insert(buffer.ByteOffset(offset), text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// delete(start, end) -> nil
// Deletes text in the given byte range.
func (m *BufferModule) delete(L *lua.LState) int {
	r := checkRange(L, 1)
	doc := m.ctx.active(L, "delete")
	if err := doc.Delete(r.Start, r.End); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(start, end, text) -> end_offset
// Replaces text in the given byte range.
func (m *BufferModule) replace(L *lua.LState) int {
	r := checkRange(L, 1)
	text := L.CheckString(3)

	doc := m.ctx.active(L, "replace")
	end, err := doc.Replace(r.Start, r.End, text)
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}
