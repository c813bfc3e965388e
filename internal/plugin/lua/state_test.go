package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s := NewState(opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateDoString(t *testing.T) {
	s := newTestState(t)

	if err := s.DoString(context.Background(), `x = 1 + 2`); err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if got := s.GetGlobal("x"); got.String() != "3" {
		t.Errorf("x = %v, want 3", got)
	}

	if err := s.DoString(context.Background(), `error("boom")`); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("DoString error = %v, want boom", err)
	}
}

func TestStateDoFile(t *testing.T) {
	s := newTestState(t)
	path := filepath.Join(t.TempDir(), "script.lua")
	if err := os.WriteFile(path, []byte(`greeting = string.upper("hi")`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile error = %v", err)
	}
	if got := s.GetGlobal("greeting"); got.String() != "HI" {
		t.Errorf("greeting = %v", got)
	}
}

func TestSandboxRemovesUnsafeGlobals(t *testing.T) {
	s := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	s := newTestState(t)

	if err := s.DoString(context.Background(), `local m = require("math"); pi = m.pi`); err != nil {
		t.Fatalf("require math: %v", err)
	}
	for _, mod := range []string{"io", "os", "debug", "mylib"} {
		err := s.DoString(context.Background(), `require("`+mod+`")`)
		if err == nil || !strings.Contains(err.Error(), "not available") {
			t.Errorf("require(%q) error = %v", mod, err)
		}
	}
}

func TestStateCallLimit(t *testing.T) {
	s := newTestState(t, WithCallLimit(3))
	s.SetGlobal("ping", s.L.NewFunction(s.Guard(func(L *lua.LState) int { return 0 })))

	if err := s.DoString(context.Background(), `ping(); ping(); ping()`); err != nil {
		t.Fatalf("within limit: %v", err)
	}
	if got := s.Sandbox().Calls(); got != 3 {
		t.Errorf("Calls() = %d, want 3", got)
	}

	err := s.DoString(context.Background(), `for i = 1, 10 do ping() end`)
	if !errors.Is(err, ErrCallLimit) {
		t.Errorf("error = %v, want ErrCallLimit", err)
	}

	// The count starts over on every run.
	if err := s.DoString(context.Background(), `ping()`); err != nil {
		t.Errorf("after reset: %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	s := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("error = %v, want ErrExecutionTimeout", err)
	}

	if err := s.DoString(context.Background(), `y = 1`); err != nil {
		t.Errorf("run after timeout: %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after Close = %v", err)
	}
	if v := s.GetGlobal("x"); v != lua.LNil {
		t.Errorf("GetGlobal after Close = %v", v)
	}
}
