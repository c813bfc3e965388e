// Package api implements the "ks" module scripts use to drive marginalia.
//
// Scripts load it with require or use the ks global:
//
//	local ks = require("ks")
//	ks.annotations.toggle()
//	ks.annotations.annotate(0, 5, "first word")
//	for _, a in ipairs(ks.annotations.list()) do
//	    print(a.id, a.start, a["end"], a.comment)
//	end
//
// Submodules:
//   - ks.buf: text(), text_range(s, e), len(), line_count(), path(),
//     insert(off, text), delete(s, e), replace(s, e, text)
//   - ks.sel: get(), set(s, e), add(s, e)
//   - ks.annotations: list(), count(), at(off), annotate(s, e, comment),
//     delete(s, e), clear(), mode(), toggle()
//
// Every function works on the active document. Offsets are byte offsets.
package api
