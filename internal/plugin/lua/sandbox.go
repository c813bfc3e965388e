package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations and counts host
// API calls.
type Sandbox struct {
	L *lua.LState

	callLimit int64
	calls     int64
	exceeded  bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, callLimit int64) *Sandbox {
	return &Sandbox{
		L:         L,
		callLimit: callLimit,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// installSafeRequire clears the package search paths and replaces require
// with one that only resolves preloaded ks modules and safe built-ins.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	safeModules := map[string]bool{
		"string": true,
		"table":  true,
		"math":   true,
	}

	originalRequire := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !safeModules[modName] && modName != "ks" {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

// Reset starts a new run.
func (s *Sandbox) Reset() {
	s.calls = 0
	s.exceeded = false
}

// Calls returns the host API calls made in the current run.
func (s *Sandbox) Calls() int64 {
	return s.calls
}

// Exceeded reports whether the current run hit the call limit.
func (s *Sandbox) Exceeded() bool {
	return s.exceeded
}

// count records a host API call and returns true if the limit is exceeded.
func (s *Sandbox) count() bool {
	s.calls++
	if s.callLimit > 0 && s.calls > s.callLimit {
		s.exceeded = true
	}
	return s.exceeded
}
