package annotation

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

// Annotation is a comment attached to a range of a document.
type Annotation struct {
	// ID is the dense, zero-based index of the annotation in its set.
	ID int

	// Range is the stored copy of the annotated range. Load refreshes it
	// from the live region.
	Range buffer.Range

	// Hash is the SHA-1 of the annotated text when the comment was written.
	Hash string

	// Comment is the user's text.
	Comment string
}

// Hash returns the content hash stored with an annotation: the hex SHA-1
// of the annotated text.
func Hash(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Preview returns the comment on a single line, cut to at most width
// terminal cells on grapheme boundaries. A cut preview ends in "…".
func (a Annotation) Preview(width int) string {
	text := strings.Join(strings.Fields(a.Comment), " ")
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(text) <= width {
		return text
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}

// Set is the typed form of a document's annotations. The annotation at
// index i always has ID i.
type Set struct {
	annotations []Annotation
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Count returns the number of annotations.
func (s *Set) Count() int {
	return len(s.annotations)
}

// At returns the annotation with the given id.
func (s *Set) At(id int) (Annotation, bool) {
	if id < 0 || id >= len(s.annotations) {
		return Annotation{}, false
	}
	return s.annotations[id], true
}

// All returns a copy of the annotations in id order.
func (s *Set) All() []Annotation {
	out := make([]Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// Find returns the lowest-id annotation whose range contains offset.
// The end of a range counts as inside, so a caret placed right after the
// annotated text still finds it.
func (s *Set) Find(offset buffer.ByteOffset) (Annotation, bool) {
	for _, a := range s.annotations {
		if offset >= a.Range.Start && offset <= a.Range.End {
			return a, true
		}
	}
	return Annotation{}, false
}

// Target is the result of classifying a selection against a set.
type Target struct {
	// Selection is the range the comment applies to. When an existing
	// annotation contains the requested selection this is the whole
	// annotation range.
	Selection buffer.Range

	// Matched is true when an existing annotation contains the selection.
	Matched bool

	// ID is the matched annotation's id. Only meaningful when Matched.
	ID int

	// Comment is the matched annotation's comment, or empty.
	Comment string

	// Conflict is true when the selection intersects an annotation that
	// does not contain it.
	Conflict bool
}

// Classify decides how a selection relates to the set. Annotations are
// scanned in id order and the first one that contains or intersects the
// selection decides the outcome.
func (s *Set) Classify(sel buffer.Range) Target {
	for _, a := range s.annotations {
		if a.Range.ContainsRange(sel) {
			return Target{
				Selection: a.Range,
				Matched:   true,
				ID:        a.ID,
				Comment:   a.Comment,
			}
		}
		if a.Range.Intersects(sel) {
			return Target{Selection: sel, Conflict: true}
		}
	}
	return Target{Selection: sel}
}

// intersecting returns the id of the first annotation intersecting r.
func (s *Set) intersecting(r buffer.Range) (int, bool) {
	for _, a := range s.annotations {
		if a.Range.Intersects(r) {
			return a.ID, true
		}
	}
	return 0, false
}

func (s *Set) append(a Annotation) Annotation {
	a.ID = len(s.annotations)
	s.annotations = append(s.annotations, a)
	return a
}

func (s *Set) replace(a Annotation) {
	s.annotations[a.ID] = a
}
