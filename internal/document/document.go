package document

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/marginalia/internal/engine/buffer"
	"github.com/dshills/marginalia/internal/engine/cursor"
	"github.com/dshills/marginalia/internal/engine/region"
	"github.com/dshills/marginalia/internal/settings"
)

// Document is an open text document and its editor state.
type Document struct {
	id       string
	name     string
	path     string
	buf      *buffer.Buffer
	cursors  *cursor.CursorSet
	regions  *region.Tracker
	settings *settings.Store
	readOnly bool
}

// New creates a document holding text. An empty path makes a scratch
// document named "Untitled".
func New(path, text string) *Document {
	name := "Untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	return &Document{
		id:       uuid.NewString(),
		name:     name,
		path:     path,
		buf:      buffer.NewBufferFromString(text),
		cursors:  cursor.NewCursorSetAt(0),
		regions:  region.NewTracker(),
		settings: settings.New(),
	}
}

// ID returns the document's unique identifier.
func (d *Document) ID() string {
	return d.id
}

// Name returns the display name.
func (d *Document) Name() string {
	return d.name
}

// Path returns the file path, empty for scratch documents.
func (d *Document) Path() string {
	return d.path
}

// Settings returns the document-scoped settings.
func (d *Document) Settings() *settings.Store {
	return d.settings
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.buf.Text()
}

// TextRange returns the text in [start, end), clamped to the document.
func (d *Document) TextRange(start, end buffer.ByteOffset) string {
	return d.buf.TextRange(start, end)
}

// Len returns the document length in bytes.
func (d *Document) Len() buffer.ByteOffset {
	return d.buf.Len()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() uint32 {
	return d.buf.LineCount()
}

// Revision identifies the current text. Every successful edit changes it.
func (d *Document) Revision() buffer.RevisionID {
	return d.buf.RevisionID()
}

// OffsetToPoint converts a byte offset to a line/column position.
func (d *Document) OffsetToPoint(offset buffer.ByteOffset) buffer.Point {
	return d.buf.OffsetToPoint(offset)
}

// ReadOnly reports whether edits are rejected.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// SetReadOnly sets the read-only flag.
func (d *Document) SetReadOnly(readOnly bool) {
	d.readOnly = readOnly
}

// Selections

// Selections returns the range of every selection in position order.
// Carets are returned as empty ranges.
func (d *Document) Selections() []buffer.Range {
	return d.cursors.Ranges()
}

// SetSelections replaces the selections. Ranges are clamped to the
// document. Calling it with no ranges leaves a caret at offset 0.
func (d *Document) SetSelections(ranges ...buffer.Range) {
	sels := make([]cursor.Selection, len(ranges))
	for i, r := range ranges {
		sels[i] = cursor.NewRangeSelection(r)
	}
	d.cursors.SetAll(sels)
	d.cursors.Clamp(d.buf.Len())
}

// Regions

// AddRegion registers a live range under key.
func (d *Document) AddRegion(key string, r buffer.Range) {
	d.regions.Add(key, r.Clamp(d.buf.Len()))
}

// Region returns the live range registered under key.
func (d *Document) Region(key string) (buffer.Range, bool) {
	return d.regions.Get(key)
}

// EraseRegion stops tracking key.
func (d *Document) EraseRegion(key string) {
	d.regions.Erase(key)
}

// RegionKeys returns the keys of all tracked regions in sorted order.
func (d *Document) RegionKeys() []string {
	return d.regions.Keys()
}

// Editing

// Insert inserts text at offset and returns the end of the inserted text.
func (d *Document) Insert(offset buffer.ByteOffset, text string) (buffer.ByteOffset, error) {
	if offset < 0 || offset > d.buf.Len() {
		return 0, buffer.ErrOffsetOutOfRange
	}
	res, err := d.apply(buffer.NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end buffer.ByteOffset) error {
	_, err := d.apply(buffer.Edit{Range: buffer.Range{Start: start, End: end}})
	return err
}

// Replace replaces the text in [start, end) and returns the end of the
// new text.
func (d *Document) Replace(start, end buffer.ByteOffset, text string) (buffer.ByteOffset, error) {
	res, err := d.apply(buffer.Edit{Range: buffer.Range{Start: start, End: end}, NewText: text})
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// apply edits the buffer and moves selections and regions with the change.
func (d *Document) apply(edit buffer.Edit) (buffer.EditResult, error) {
	if d.readOnly {
		return buffer.EditResult{}, ErrReadOnly
	}

	res, err := d.buf.ApplyEdit(edit)
	if err != nil {
		return buffer.EditResult{}, fmt.Errorf("%s: %w", edit, err)
	}

	// Follow the edit as applied, after line ending normalization.
	applied := buffer.NewEdit(res.OldRange, d.buf.TextRange(res.NewRange.Start, res.NewRange.End))
	cursor.TransformCursorSet(d.cursors, applied)
	d.regions.Apply(applied)
	return res, nil
}
