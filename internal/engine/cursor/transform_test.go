package cursor

import (
	"testing"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 10, buffer.NewInsert(5, "abc"), 13},
		{"insert after", 10, buffer.NewInsert(15, "abc"), 10},
		{"insert at offset", 10, buffer.NewInsert(10, "abc"), 13},
		{"delete before", 10, buffer.NewDelete(2, 5), 7},
		{"delete spanning", 10, buffer.NewDelete(5, 15), 5},
		{"replace spanning", 10, buffer.NewEdit(buffer.Range{Start: 5, End: 15}, "xy"), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransformOffsetSticky(t *testing.T) {
	edit := buffer.NewInsert(10, "abc")
	if got := TransformOffsetSticky(10, edit, true); got != 10 {
		t.Errorf("sticky offset moved to %d", got)
	}
	if got := TransformOffsetSticky(10, edit, false); got != 13 {
		t.Errorf("non-sticky offset = %d, want 13", got)
	}
}

func TestTransformRange(t *testing.T) {
	r := buffer.Range{Start: 10, End: 20}

	tests := []struct {
		name string
		edit Edit
		want buffer.Range
	}{
		{"insert before", buffer.NewInsert(0, "xxxxx"), buffer.Range{Start: 15, End: 25}},
		{"insert after", buffer.NewInsert(30, "xxxxx"), r},
		{"insert inside", buffer.NewInsert(15, "xx"), buffer.Range{Start: 10, End: 22}},
		{"insert at start", buffer.NewInsert(10, "xx"), buffer.Range{Start: 12, End: 22}},
		{"insert at end", buffer.NewInsert(20, "xx"), r},
		{"delete head", buffer.NewDelete(5, 15), buffer.Range{Start: 5, End: 10}},
		{"delete tail", buffer.NewDelete(15, 25), buffer.Range{Start: 10, End: 15}},
		{"delete exact", buffer.NewDelete(10, 20), buffer.Range{Start: 10, End: 10}},
		{"delete enclosing", buffer.NewDelete(0, 30), buffer.Range{Start: 0, End: 0}},
		{"replace exact", buffer.NewEdit(r, "new"), buffer.Range{Start: 10, End: 10}},
		{"replace inside", buffer.NewEdit(buffer.Range{Start: 12, End: 14}, "abcd"), buffer.Range{Start: 10, End: 22}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformRange(r, tt.edit); got != tt.want {
				t.Errorf("TransformRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformCursorSet(t *testing.T) {
	cs := NewCursorSetAt(0)
	cs.SetAll([]Selection{NewSelection(2, 4), NewCursorSelection(10)})

	TransformCursorSet(cs, buffer.NewInsert(0, "ab"))

	got := cs.Ranges()
	want := []buffer.Range{{Start: 4, End: 6}, {Start: 12, End: 12}}
	if len(got) != len(want) {
		t.Fatalf("expected %d ranges, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCursorSetNormalize(t *testing.T) {
	cs := NewCursorSetAt(0)
	cs.SetAll([]Selection{
		NewSelection(20, 30),
		NewSelection(0, 10),
		NewSelection(5, 15),
		NewSelection(15, 18),
	})

	got := cs.Ranges()
	want := []buffer.Range{{Start: 0, End: 15}, {Start: 15, End: 18}, {Start: 20, End: 30}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, got[i], want[i])
		}
	}

	cs.SetAll(nil)
	if cs.Count() != 1 || !cs.Primary().IsEmpty() {
		t.Error("empty SetAll should leave a single caret")
	}
}

func TestSelectionRange(t *testing.T) {
	sel := NewSelection(20, 10)
	if sel.IsForward() {
		t.Error("expected backward selection")
	}
	if sel.Range() != (buffer.Range{Start: 10, End: 20}) {
		t.Errorf("unexpected range %v", sel.Range())
	}
	if sel.Clamp(15).Range() != (buffer.Range{Start: 10, End: 15}) {
		t.Errorf("unexpected clamped range %v", sel.Clamp(15).Range())
	}
}
