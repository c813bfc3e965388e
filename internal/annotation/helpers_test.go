package annotation

import (
	"strings"
	"testing"

	"github.com/dshills/marginalia/internal/engine/buffer"
	"github.com/dshills/marginalia/internal/engine/region"
	"github.com/dshills/marginalia/internal/settings"
)

// fakeDoc implements Document on top of a real buffer and region tracker.
type fakeDoc struct {
	id       string
	buf      *buffer.Buffer
	regions  *region.Tracker
	settings *settings.Store
}

func newFakeDoc(id, text string) *fakeDoc {
	return &fakeDoc{
		id:       id,
		buf:      buffer.NewBufferFromString(text),
		regions:  region.NewTracker(),
		settings: settings.New(),
	}
}

func (d *fakeDoc) ID() string                             { return d.id }
func (d *fakeDoc) Settings() *settings.Store              { return d.settings }
func (d *fakeDoc) AddRegion(key string, r buffer.Range)   { d.regions.Add(key, r) }
func (d *fakeDoc) Region(key string) (buffer.Range, bool) { return d.regions.Get(key) }
func (d *fakeDoc) EraseRegion(key string)                 { d.regions.Erase(key) }
func (d *fakeDoc) TextRange(start, end buffer.ByteOffset) string {
	return d.buf.TextRange(start, end)
}

// edit applies an edit to the text and moves the regions with it.
func (d *fakeDoc) edit(t *testing.T, e buffer.Edit) {
	t.Helper()
	res, err := d.buf.ApplyEdit(e)
	if err != nil {
		t.Fatalf("edit %v: %v", e, err)
	}
	d.regions.Apply(buffer.NewEdit(res.OldRange, d.buf.TextRange(res.NewRange.Start, res.NewRange.End)))
}

// fixedWorkspace reports a fixed active document.
type fixedWorkspace struct {
	active string
}

func (w *fixedWorkspace) ActiveID() string { return w.active }

// sampleText is long enough for every range used in the tests.
var sampleText = strings.Repeat("abcdefghij", 10)

// annotate prepares and commits a comment, failing the test on any error.
func annotate(t *testing.T, s *Store, doc *fakeDoc, start, end buffer.ByteOffset, comment string) Outcome {
	t.Helper()
	req, err := s.Prepare(doc, buffer.Range{Start: start, End: end})
	if err != nil {
		t.Fatalf("Prepare(%d, %d): %v", start, end, err)
	}
	outcome, err := s.Commit(doc, req, comment)
	if err != nil {
		t.Fatalf("Commit(%d, %d): %v", start, end, err)
	}
	return outcome
}

// mustLoad loads the set, failing the test on error.
func mustLoad(t *testing.T, s *Store, doc *fakeDoc) *Set {
	t.Helper()
	set, err := s.Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return set
}

// checkDense verifies ids are exactly 0..Count()-1, that every annotation
// has a region under its own key and that no two ranges intersect.
func checkDense(t *testing.T, s *Store, doc *fakeDoc, set *Set) {
	t.Helper()
	all := set.All()
	for i, a := range all {
		if a.ID != i {
			t.Errorf("annotation at index %d has id %d", i, a.ID)
		}
		r, ok := doc.Region(s.Key(a.ID))
		if !ok {
			t.Errorf("annotation %d has no region", a.ID)
		} else if r != a.Range {
			t.Errorf("annotation %d range %v, region %v", a.ID, a.Range, r)
		}
		for _, b := range all[i+1:] {
			if a.Range.Intersects(b.Range) {
				t.Errorf("annotations %d %v and %d %v intersect", a.ID, a.Range, b.ID, b.Range)
			}
		}
	}
	if doc.regions.Len() != len(all) {
		t.Errorf("expected %d regions, have %v", len(all), doc.regions.Keys())
	}
	if got := doc.settings.GetPath(s.SettingsKey(), "count").Int(); got != int64(len(all)) {
		t.Errorf("persisted count %d, set has %d", got, len(all))
	}
}
