package api

import (
	lua "github.com/yuin/gopher-lua"
)

// Module is a ks submodule.
type Module interface {
	// Name returns the field the module is installed under in ks.
	Name() string

	// Funcs returns the module's functions by Lua name.
	Funcs() map[string]lua.LGFunction
}

// Guard wraps every host function before it is installed.
type Guard func(lua.LGFunction) lua.LGFunction

// Install builds the ks table from modules, sets it as the ks global and
// preloads it so require("ks") returns the same table. A nil guard
// installs the functions unwrapped.
func Install(L *lua.LState, guard Guard, modules ...Module) *lua.LTable {
	ks := L.NewTable()
	for _, mod := range modules {
		tbl := L.NewTable()
		for name, fn := range mod.Funcs() {
			if guard != nil {
				fn = guard(fn)
			}
			L.SetField(tbl, name, L.NewFunction(fn))
		}
		L.SetField(ks, mod.Name(), tbl)
	}
	L.SetField(ks, "api_version", lua.LNumber(1))

	L.SetGlobal("ks", ks)
	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ks)
		return 1
	})
	return ks
}

// DefaultModules returns the standard ks submodules for ctx.
func DefaultModules(ctx *Context) []Module {
	return []Module{
		NewBufferModule(ctx),
		NewSelectionModule(ctx),
		NewAnnotationModule(ctx),
	}
}
