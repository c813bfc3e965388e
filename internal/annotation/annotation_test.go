package annotation

import (
	"testing"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

func setOf(ranges ...buffer.Range) *Set {
	s := NewSet()
	for i, r := range ranges {
		s.append(Annotation{Range: r, Comment: string(rune('a' + i))})
	}
	return s
}

func TestClassify(t *testing.T) {
	set := setOf(buffer.Range{Start: 10, End: 20}, buffer.Range{Start: 30, End: 40})

	tests := []struct {
		name string
		sel  buffer.Range
		want Target
	}{
		{
			name: "inside first",
			sel:  buffer.Range{Start: 12, End: 15},
			want: Target{Selection: buffer.Range{Start: 10, End: 20}, Matched: true, ID: 0, Comment: "a"},
		},
		{
			name: "exactly second",
			sel:  buffer.Range{Start: 30, End: 40},
			want: Target{Selection: buffer.Range{Start: 30, End: 40}, Matched: true, ID: 1, Comment: "b"},
		},
		{
			name: "crossing first",
			sel:  buffer.Range{Start: 15, End: 25},
			want: Target{Selection: buffer.Range{Start: 15, End: 25}, Conflict: true},
		},
		{
			name: "enclosing second",
			sel:  buffer.Range{Start: 25, End: 45},
			want: Target{Selection: buffer.Range{Start: 25, End: 45}, Conflict: true},
		},
		{
			name: "between",
			sel:  buffer.Range{Start: 20, End: 30},
			want: Target{Selection: buffer.Range{Start: 20, End: 30}},
		},
		{
			name: "after all",
			sel:  buffer.Range{Start: 50, End: 60},
			want: Target{Selection: buffer.Range{Start: 50, End: 60}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Classify(tt.sel); got != tt.want {
				t.Errorf("Classify(%v) = %+v, want %+v", tt.sel, got, tt.want)
			}
		})
	}
}

func TestClassifyFirstHitWins(t *testing.T) {
	// A selection spanning both annotations conflicts with the first.
	set := setOf(buffer.Range{Start: 10, End: 20}, buffer.Range{Start: 20, End: 30})
	got := set.Classify(buffer.Range{Start: 15, End: 25})
	if !got.Conflict {
		t.Errorf("expected conflict, got %+v", got)
	}
}

func TestSetFindAndAt(t *testing.T) {
	set := setOf(buffer.Range{Start: 10, End: 20}, buffer.Range{Start: 30, End: 40})

	if a, ok := set.Find(20); !ok || a.ID != 0 {
		t.Errorf("Find(20) = %+v, %v", a, ok)
	}
	if a, ok := set.Find(35); !ok || a.ID != 1 {
		t.Errorf("Find(35) = %+v, %v", a, ok)
	}
	if _, ok := set.Find(25); ok {
		t.Error("Find(25) should miss")
	}
	if _, ok := set.At(2); ok {
		t.Error("At(2) should miss")
	}
	if _, ok := set.At(-1); ok {
		t.Error("At(-1) should miss")
	}
}

func TestHash(t *testing.T) {
	// SHA-1 of "abc".
	if got := Hash("abc"); got != "a9993e364706816aba3e25717850c26c9cd0d89d" {
		t.Errorf("unexpected hash %s", got)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		comment string
		width   int
		want    string
	}{
		{"short", 10, "short"},
		{"multi\nline   comment", 40, "multi line comment"},
		{"a rather long comment", 8, "a rathe…"},
		{"日本語のコメント", 7, "日本語…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		got := Annotation{Comment: tt.comment}.Preview(tt.width)
		if got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.comment, tt.width, got, tt.want)
		}
	}
}
