// Package command provides the annotation commands a host binds to keys,
// menus or scripts.
//
// The Handler type owns the "annotation" namespace:
//   - annotation.toggleMode: enter or leave annotation mode
//   - annotation.annotate: comment the first selection
//   - annotation.delete: delete annotations touching any selection
//   - annotation.clear: delete every annotation
//
// Annotation mode is a per-document setting. Entering it makes the
// document read-only and remembers the previous read-only flag; leaving it
// clears every annotation and restores the flag. The annotate, delete and
// clear commands are only enabled in annotation mode.
//
// Annotating is asynchronous: the handler prompts through the UI and the
// annotation is written when the prompt completes, so Handle returns
// StatusAsync. A prompt completed after focus moved to another document is
// ignored.
//
// Usage:
//
//	h := command.NewHandler(store, ui)
//	if h.IsEnabled(command.ActionAnnotate, doc) {
//	    result := h.Handle(command.ActionAnnotate, doc)
//	}
package command
