package buffer

import (
	"errors"
	"io"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds the text of a document.
//
// Line endings are normalized to LF when text enters the buffer.
type Buffer struct {
	text       string
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{revisionID: NewRevisionID()}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = normalizeLineEndings(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read everything first so CRLF pairs split across reads are normalized.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return b.text
}

// TextRange returns text in the given byte range.
// The range is clamped to the buffer, so an out-of-range request returns
// whatever part of it exists.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	r := NewRange(start, end).Clamp(b.Len())
	return b.text[r.Start:r.End]
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	return uint32(strings.Count(b.text, "\n")) + 1
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets past the end clamp to the end of the buffer.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > b.Len() {
		offset = b.Len()
	}
	prefix := b.text[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Point{Line: uint32(line), Column: uint32(int(offset) - lineStart)}
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	return b.revisionID
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if offset < 0 || offset > b.Len() {
		return 0, ErrOffsetOutOfRange
	}
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(Edit{Range: Range{Start: start, End: end}})
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(Edit{Range: Range{Start: start, End: end}, NewText: text})
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// ApplyEdit applies a single edit to the buffer.
// The returned result describes the edit after line ending normalization,
// which is the form other components must use to follow the change.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	if !edit.Range.IsValid() || edit.Range.End > b.Len() {
		return EditResult{}, ErrRangeInvalid
	}

	text := normalizeLineEndings(edit.NewText)
	oldText := b.text[edit.Range.Start:edit.Range.End]
	b.text = b.text[:edit.Range.Start] + text + b.text[edit.Range.End:]
	b.revisionID = NewRevisionID()

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: edit.Range.Start + ByteOffset(len(text))},
		OldText:  oldText,
	}, nil
}
