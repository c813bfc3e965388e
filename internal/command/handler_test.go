package command

import (
	"errors"
	"testing"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

// prompt is a prompt the fake UI has not answered yet.
type prompt struct {
	doc      *document.Document
	title    string
	initial  string
	onDone   func(string)
	onCancel func()
}

// fakeUI records prompts and errors instead of showing them.
type fakeUI struct {
	prompts []prompt
	errors  []string
}

func (u *fakeUI) Prompt(doc *document.Document, title, initial string, onDone func(string), onCancel func()) {
	u.prompts = append(u.prompts, prompt{doc: doc, title: title, initial: initial, onDone: onDone, onCancel: onCancel})
}

func (u *fakeUI) ShowError(msg string) {
	u.errors = append(u.errors, msg)
}

// answer completes the oldest pending prompt.
func (u *fakeUI) answer(t *testing.T, comment string) prompt {
	t.Helper()
	if len(u.prompts) == 0 {
		t.Fatal("no pending prompt")
	}
	p := u.prompts[0]
	u.prompts = u.prompts[1:]
	p.onDone(comment)
	return p
}

type fixture struct {
	mgr   *document.Manager
	doc   *document.Document
	store *annotation.Store
	ui    *fakeUI
	h     *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mgr := document.NewManager()
	doc := mgr.Create("notes.txt", "the quick brown fox jumps over the lazy dog")
	store := annotation.NewStore(annotation.WithWorkspace(mgr))
	ui := &fakeUI{}
	return &fixture{
		mgr:   mgr,
		doc:   doc,
		store: store,
		ui:    ui,
		h:     NewHandler(store, ui),
	}
}

// enterMode puts the fixture document in annotation mode.
func (f *fixture) enterMode(t *testing.T) {
	t.Helper()
	if res := f.h.Handle(ActionToggleMode, f.doc); !res.IsOK() {
		t.Fatalf("toggle mode: %v %v", res.Status, res.Error)
	}
}

// annotate selects [start, end), runs annotate and answers the prompt.
func (f *fixture) annotate(t *testing.T, start, end buffer.ByteOffset, comment string) {
	t.Helper()
	f.doc.SetSelections(buffer.Range{Start: start, End: end})
	if res := f.h.Handle(ActionAnnotate, f.doc); res.Status != StatusAsync {
		t.Fatalf("annotate %d-%d: %v %v", start, end, res.Status, res.Error)
	}
	f.ui.answer(t, comment)
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	set, err := f.store.Load(f.doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return set.Count()
}

func TestHandlerCanHandle(t *testing.T) {
	f := newFixture(t)
	if f.h.Namespace() != "annotation" {
		t.Errorf("Namespace() = %q", f.h.Namespace())
	}
	for _, name := range f.h.Actions() {
		if !f.h.CanHandle(name) {
			t.Errorf("CanHandle(%q) = false", name)
		}
	}
	if f.h.CanHandle("mode.insert") {
		t.Error("CanHandle(mode.insert) = true")
	}
	if res := f.h.Handle("annotation.bogus", f.doc); !res.IsError() {
		t.Errorf("unknown action status = %v", res.Status)
	}
	if res := f.h.Handle(ActionToggleMode, nil); !errors.Is(res.Error, document.ErrNoActiveDocument) {
		t.Errorf("nil document error = %v", res.Error)
	}
}

func TestHandlerEnablement(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{ActionAnnotate, ActionDelete, ActionClear} {
		if f.h.IsEnabled(name, f.doc) {
			t.Errorf("%s enabled outside annotation mode", name)
		}
		if res := f.h.Handle(name, f.doc); res.Status != StatusNoOp {
			t.Errorf("%s outside annotation mode: status %v", name, res.Status)
		}
	}
	if !f.h.IsEnabled(ActionToggleMode, f.doc) {
		t.Error("toggle disabled on a plain document")
	}

	f.enterMode(t)
	for _, name := range []string{ActionAnnotate, ActionDelete, ActionClear} {
		if !f.h.IsEnabled(name, f.doc) {
			t.Errorf("%s disabled in annotation mode", name)
		}
	}

	if err := f.doc.Settings().Set(SettingWidget, true); err != nil {
		t.Fatal(err)
	}
	if f.h.IsEnabled(ActionToggleMode, f.doc) {
		t.Error("toggle enabled on a widget")
	}
}

func TestToggleModeReadOnly(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{"writable", false},
		{"read-only", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.doc.SetReadOnly(tt.readOnly)

			res := f.h.Handle(ActionToggleMode, f.doc)
			if !res.IsOK() || res.Data["mode"] != true {
				t.Fatalf("enter: %+v", res)
			}
			if !f.doc.ReadOnly() {
				t.Error("document writable in annotation mode")
			}
			if !InAnnotationMode(f.doc) {
				t.Error("InAnnotationMode() = false after entering")
			}

			f.annotate(t, 4, 9, "adjective")
			if f.count(t) != 1 {
				t.Fatalf("count = %d, want 1", f.count(t))
			}

			res = f.h.Handle(ActionToggleMode, f.doc)
			if !res.IsOK() || res.Data["mode"] != false {
				t.Fatalf("leave: %+v", res)
			}
			if f.doc.ReadOnly() != tt.readOnly {
				t.Errorf("ReadOnly() = %v, want restored %v", f.doc.ReadOnly(), tt.readOnly)
			}
			if f.count(t) != 0 {
				t.Errorf("count = %d after leaving annotation mode", f.count(t))
			}
			if _, ok := f.doc.Region(f.store.Key(0)); ok {
				t.Error("region survived leaving annotation mode")
			}
		})
	}
}

func TestAnnotateCreatesAndEdits(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)

	f.doc.SetSelections(buffer.Range{Start: 10, End: 15})
	if res := f.h.Handle(ActionAnnotate, f.doc); res.Status != StatusAsync {
		t.Fatalf("annotate status = %v", res.Status)
	}
	p := f.ui.answer(t, "colour")
	if p.title != "Annotate region (10, 15)" || p.initial != "" {
		t.Errorf("prompt = %q / %q", p.title, p.initial)
	}

	// A selection inside the annotation edits the whole annotation.
	f.doc.SetSelections(buffer.Range{Start: 11, End: 13})
	f.h.Handle(ActionAnnotate, f.doc)
	p = f.ui.answer(t, "color")
	if p.title != "Annotate region (10, 15)" || p.initial != "colour" {
		t.Errorf("edit prompt = %q / %q", p.title, p.initial)
	}

	set, err := f.store.Load(f.doc)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := set.At(0)
	if set.Count() != 1 || !ok || a.Comment != "color" {
		t.Errorf("set = %+v", set.All())
	}
}

func TestAnnotateUsesFirstSelection(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)

	f.doc.SetSelections(buffer.Range{Start: 4, End: 9}, buffer.Range{Start: 20, End: 25})
	f.h.Handle(ActionAnnotate, f.doc)
	p := f.ui.answer(t, "first")
	if p.title != "Annotate region (4, 9)" {
		t.Errorf("title = %q", p.title)
	}
	if f.count(t) != 1 {
		t.Errorf("count = %d, want 1", f.count(t))
	}
}

func TestAnnotateIgnoresEmptySelection(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)

	f.doc.SetSelections(buffer.Range{Start: 5, End: 5})
	if res := f.h.Handle(ActionAnnotate, f.doc); res.Status != StatusNoOp {
		t.Errorf("status = %v, want no-op", res.Status)
	}
	if len(f.ui.prompts) != 0 {
		t.Error("prompted for an empty selection")
	}
}

func TestAnnotateConflict(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)
	f.annotate(t, 10, 15, "colour")

	f.doc.SetSelections(buffer.Range{Start: 12, End: 19})
	res := f.h.Handle(ActionAnnotate, f.doc)
	if !res.IsError() || !errors.Is(res.Error, annotation.ErrOverlap) {
		t.Fatalf("result = %v %v, want overlap error", res.Status, res.Error)
	}
	if res.Message != DefaultConflictMessage {
		t.Errorf("Message = %q", res.Message)
	}
	if len(f.ui.errors) != 1 || f.ui.errors[0] != DefaultConflictMessage {
		t.Errorf("errors shown = %q", f.ui.errors)
	}
	if len(f.ui.prompts) != 0 {
		t.Error("prompted despite the conflict")
	}
}

func TestAnnotateConflictAtCommit(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)

	// Two prompts for overlapping ranges are open at once; the second one
	// to complete must not create an overlap.
	f.doc.SetSelections(buffer.Range{Start: 4, End: 9})
	f.h.Handle(ActionAnnotate, f.doc)
	f.doc.SetSelections(buffer.Range{Start: 6, End: 15})
	f.h.Handle(ActionAnnotate, f.doc)

	f.ui.answer(t, "first")
	f.ui.answer(t, "second")

	if f.count(t) != 1 {
		t.Errorf("count = %d, want 1", f.count(t))
	}
	if len(f.ui.errors) != 1 {
		t.Errorf("errors shown = %q", f.ui.errors)
	}
}

func TestAnnotateStaleAndCancelled(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)

	f.doc.SetSelections(buffer.Range{Start: 4, End: 9})
	f.h.Handle(ActionAnnotate, f.doc)

	other := f.mgr.Create("other.txt", "elsewhere")
	f.ui.answer(t, "late")
	if f.count(t) != 0 {
		t.Errorf("stale prompt created an annotation")
	}

	if err := f.mgr.SetActive(f.doc.ID()); err != nil {
		t.Fatal(err)
	}
	if f.mgr.ActiveID() == other.ID() {
		t.Fatal("focus did not return")
	}

	f.h.Handle(ActionAnnotate, f.doc)
	p := f.ui.prompts[0]
	f.ui.prompts = nil
	p.onCancel()
	if f.count(t) != 0 {
		t.Errorf("cancelled prompt created an annotation")
	}

	f.h.Handle(ActionAnnotate, f.doc)
	f.ui.answer(t, "")
	if f.count(t) != 0 {
		t.Errorf("empty comment created an annotation")
	}
}

func TestDeleteAndClear(t *testing.T) {
	f := newFixture(t)
	f.enterMode(t)
	f.annotate(t, 0, 3, "article")
	f.annotate(t, 4, 9, "adjective")
	f.annotate(t, 16, 19, "animal")

	f.doc.SetSelections(buffer.Range{Start: 5, End: 5})
	res := f.h.Handle(ActionDelete, f.doc)
	if !res.IsOK() || res.Data["count"] != 2 {
		t.Fatalf("delete: %+v", res)
	}

	set, err := f.store.Load(f.doc)
	if err != nil {
		t.Fatal(err)
	}
	if a, _ := set.At(1); a.Comment != "animal" {
		t.Errorf("annotation 1 = %+v, want the renumbered animal", a)
	}

	if res := f.h.Handle(ActionClear, f.doc); !res.IsOK() {
		t.Fatalf("clear: %+v", res)
	}
	if f.count(t) != 0 {
		t.Errorf("count = %d after clear", f.count(t))
	}
	if keys := f.doc.RegionKeys(); len(keys) != 0 {
		t.Errorf("regions after clear = %v", keys)
	}
}
