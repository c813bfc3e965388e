// Package lua provides the sandboxed Lua runtime scripts run in.
//
// A State opens only the base, table, string and math libraries plus a
// restricted require that resolves the preloaded "ks" module and the safe
// built-ins. The file and shell libraries are never available.
//
// Two limits apply to every run: a timeout, enforced through the LState
// context, and a bound on the number of host API calls, enforced by
// functions wrapped with Guard.
package lua
