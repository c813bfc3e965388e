// Package region tracks named ranges of a buffer through edits.
//
// A Tracker maps string keys to ranges. After every buffer edit the owner
// calls Apply, and each range is moved with cursor.TransformRange: text
// inserted elsewhere shifts it, text inserted at its boundaries stays
// outside it, and deleting its text collapses it to an empty range.
// Collapsed ranges are kept so callers can observe that the tracked text
// is gone; removing them is the caller's decision.
//
// A Tracker is not safe for concurrent use.
package region

import (
	"sort"

	"github.com/dshills/marginalia/internal/engine/buffer"
	"github.com/dshills/marginalia/internal/engine/cursor"
)

// Tracker holds the live ranges registered for a document.
type Tracker struct {
	regions map[string]buffer.Range
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{regions: make(map[string]buffer.Range)}
}

// Add registers r under key, replacing any range already registered there.
func (t *Tracker) Add(key string, r buffer.Range) {
	t.regions[key] = buffer.NewRange(r.Start, r.End)
}

// Get returns the current range registered under key.
func (t *Tracker) Get(key string) (buffer.Range, bool) {
	r, ok := t.regions[key]
	return r, ok
}

// Erase removes the range registered under key. Erasing an unknown key is
// a no-op.
func (t *Tracker) Erase(key string) {
	delete(t.regions, key)
}

// Len returns the number of registered ranges.
func (t *Tracker) Len() int {
	return len(t.regions)
}

// Keys returns the registered keys in sorted order.
func (t *Tracker) Keys() []string {
	keys := make([]string, 0, len(t.regions))
	for k := range t.regions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply moves every registered range through an edit.
func (t *Tracker) Apply(edit buffer.Edit) {
	if edit.IsNoOp() {
		return
	}
	for k, r := range t.regions {
		t.regions[k] = cursor.TransformRange(r, edit)
	}
}
