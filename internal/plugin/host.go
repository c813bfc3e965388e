package plugin

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/marginalia/internal/logging"
	"github.com/dshills/marginalia/internal/plugin/api"
	plua "github.com/dshills/marginalia/internal/plugin/lua"
)

// Host runs scripts with the ks API installed.
type Host struct {
	state  *plua.State
	output io.Writer
	logger *logging.Logger

	executionTimeout time.Duration
	callLimit        int64
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostExecutionTimeout sets the timeout for a single run.
func WithHostExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.executionTimeout = d
	}
}

// WithHostCallLimit sets the maximum ks API calls per run.
func WithHostCallLimit(limit int64) HostOption {
	return func(h *Host) {
		h.callLimit = limit
	}
}

// WithHostOutput sets where script print output goes. The default is
// standard error.
func WithHostOutput(w io.Writer) HostOption {
	return func(h *Host) {
		h.output = w
	}
}

// WithHostLogger sets the host's logger.
func WithHostLogger(l *logging.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHost creates a host whose scripts operate through ctx.
func NewHost(ctx *api.Context, opts ...HostOption) *Host {
	h := &Host{
		output:           os.Stderr,
		logger:           logging.Null,
		executionTimeout: plua.DefaultExecutionTimeout,
		callLimit:        plua.DefaultCallLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("plugin")

	h.state = plua.NewState(
		plua.WithExecutionTimeout(h.executionTimeout),
		plua.WithCallLimit(h.callLimit),
	)
	h.state.SetGlobal("print", h.state.L.NewFunction(h.print))
	api.Install(h.state.L, h.state.Guard, api.DefaultModules(ctx)...)
	return h
}

// print writes its arguments tab-separated to the host output.
func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.output, strings.Join(parts, "\t"))
	return 0
}

// RunFile executes the script at path.
func (h *Host) RunFile(ctx context.Context, path string) error {
	h.logger.Debug("running %s", path)
	if err := h.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	h.logger.Debug("%s made %d calls", path, h.state.Sandbox().Calls())
	return nil
}

// RunString executes Lua source.
func (h *Host) RunString(ctx context.Context, code string) error {
	if err := h.state.DoString(ctx, code); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Global returns a global script value.
func (h *Host) Global(name string) lua.LValue {
	return h.state.GetGlobal(name)
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}
