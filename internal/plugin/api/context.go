package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/command"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

// Workspace provides the document scripts operate on.
type Workspace interface {
	// Active returns the focused document, or nil.
	Active() *document.Document
}

// Context gives API modules access to application state.
type Context struct {
	// Workspace provides the active document.
	Workspace Workspace

	// Store manages annotations.
	Store *annotation.Store

	// Commands runs annotation commands and answers enablement.
	Commands *command.Handler

	// PreviewWidth is the width of comment previews in listings.
	PreviewWidth int
}

// active returns the active document or raises a Lua error.
func (c *Context) active(L *lua.LState, fn string) *document.Document {
	if c.Workspace != nil {
		if doc := c.Workspace.Active(); doc != nil {
			return doc
		}
	}
	L.RaiseError("%s: %v", fn, document.ErrNoActiveDocument)
	return nil
}

// checkRange reads a (start, end) argument pair starting at n.
func checkRange(L *lua.LState, n int) buffer.Range {
	start := L.CheckInt64(n)
	end := L.CheckInt64(n + 1)
	if start < 0 {
		L.ArgError(n, "start must be non-negative")
	}
	if end < start {
		L.ArgError(n+1, "end must be >= start")
	}
	return buffer.Range{Start: buffer.ByteOffset(start), End: buffer.ByteOffset(end)}
}

// rangeTable converts a range to {start=, end=}.
func rangeTable(L *lua.LState, r buffer.Range) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "start", lua.LNumber(r.Start))
	L.SetField(tbl, "end", lua.LNumber(r.End))
	return tbl
}
