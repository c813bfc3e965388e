package cursor

import "github.com/dshills/marginalia/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	// Edit is entirely before offset: adjust by delta
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}

	// Edit starts at or after offset: no change needed
	if edit.Range.Start >= offset {
		return offset
	}

	// Edit spans offset: move to end of new text
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformOffsetSticky is like TransformOffset but decides what happens
// to an insertion exactly at the offset. A sticky offset stays before the
// inserted text; a non-sticky one moves past it.
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	if edit.Range.IsEmpty() && edit.Range.Start == offset {
		if sticky {
			return offset
		}
		return offset + ByteOffset(len(edit.NewText))
	}
	return TransformOffset(offset, edit)
}

// TransformSelection updates a selection after an edit.
// Both anchor and head are transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformCursorSet updates all selections in a cursor set after an edit.
func TransformCursorSet(cs *CursorSet, edit Edit) {
	for i := range cs.selections {
		cs.selections[i] = TransformSelection(cs.selections[i], edit)
	}
	cs.normalize()
}

// TransformRange updates a tracked range after an edit.
//
// Text inserted at the start or end of the range stays outside it. An edit
// that removes every byte of the range collapses it to an empty range at
// the edit position, which is how callers detect that the tracked text is
// gone.
func TransformRange(r Range, edit Edit) Range {
	if r.IsEmpty() {
		o := TransformOffset(r.Start, edit)
		return Range{Start: o, End: o}
	}

	start := TransformOffsetSticky(r.Start, edit, false)
	end := TransformOffsetSticky(r.End, edit, true)

	// A replacement covering the whole range drops the old text entirely.
	if edit.Range.ContainsRange(r) {
		start = edit.Range.Start
		end = start
	}

	if start > end {
		start = end
	}
	return Range{Start: start, End: end}
}
