package cursor

import "sort"

// CursorSet manages the selections of a document.
// There is always at least one selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSetAt creates a cursor set with a single caret at offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return &CursorSet{selections: []Selection{NewCursorSelection(offset)}}
}

// Primary returns the first selection.
func (cs *CursorSet) Primary() Selection {
	return cs.selections[0]
}

// All returns a copy of all selections in position order.
func (cs *CursorSet) All() []Selection {
	out := make([]Selection, len(cs.selections))
	copy(out, cs.selections)
	return out
}

// Count returns the number of selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// SetAll replaces every selection. An empty slice resets the set to a
// caret at offset 0.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{NewCursorSelection(0)}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
	cs.normalize()
}

// Ranges returns the range of every selection, carets included.
func (cs *CursorSet) Ranges() []Range {
	ranges := make([]Range, len(cs.selections))
	for i, sel := range cs.selections {
		ranges[i] = sel.Range()
	}
	return ranges
}

// Clamp limits all selections to [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for i := range cs.selections {
		cs.selections[i] = cs.selections[i].Clamp(maxOffset)
	}
	cs.normalize()
}

// normalize sorts selections and merges overlapping ones.
func (cs *CursorSet) normalize() {
	if len(cs.selections) <= 1 {
		return
	}

	sort.SliceStable(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].Start(), cs.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return cs.selections[i].End() > cs.selections[j].End()
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start() < last.End() || sel.Range() == last.Range() {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}
