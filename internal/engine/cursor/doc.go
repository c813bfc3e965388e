// Package cursor provides selections for a document and the rules that move
// offsets, selections and tracked ranges through buffer edits.
//
// Selections use an anchor/head model: Anchor is where the selection
// started and Head is where typing would occur. When Anchor == Head the
// selection is a caret.
//
// CursorSet keeps its selections sorted by position and merges selections
// that overlap.
//
// Transformation rules (TransformOffset):
//
//   - An edit entirely before an offset shifts it by the edit's delta.
//   - An edit starting at or after an offset leaves it in place.
//   - An edit spanning an offset moves it to the end of the new text.
//
// TransformRange applies these rules to a tracked range so that text
// inserted at either boundary stays outside the range and deleting all of
// its text collapses it to an empty range.
package cursor
