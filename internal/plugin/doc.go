// Package plugin runs Lua scripts against the workspace.
//
// A Host owns one sandboxed Lua state with the ks module installed. Every
// ks function call counts against the configured call limit, and every
// run is bounded by the configured timeout.
//
//	host := plugin.NewHost(&api.Context{...},
//	    plugin.WithHostExecutionTimeout(5*time.Second))
//	defer host.Close()
//	err := host.RunFile(ctx, "review.lua")
package plugin
