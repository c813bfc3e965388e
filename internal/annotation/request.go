package annotation

import (
	"fmt"

	"github.com/dshills/marginalia/internal/engine/buffer"
)

// Request captures what an annotate command decided before prompting for
// the comment. It is handed back to Commit when the prompt completes.
type Request struct {
	// DocumentID is the document the request was made for.
	DocumentID string

	// Selection is the range the comment will cover.
	Selection buffer.Range

	// Matched is true when the request edits an existing annotation.
	Matched bool

	// ID is the annotation being edited. Only meaningful when Matched.
	ID int

	// Comment is the current comment of the edited annotation, offered as
	// the prompt's default value.
	Comment string
}

// Outcome describes what Commit did.
type Outcome uint8

const (
	// OutcomeCreated indicates a new annotation was added.
	OutcomeCreated Outcome = iota
	// OutcomeUpdated indicates an existing annotation was rewritten.
	OutcomeUpdated
	// OutcomeDiscarded indicates the comment was empty and nothing changed.
	OutcomeDiscarded
	// OutcomeStale indicates the request no longer targets the active
	// document and nothing changed.
	OutcomeStale
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Changed reports whether the outcome modified the set.
func (o Outcome) Changed() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Prepare classifies sel against the document's reconciled annotations.
// The set is reconciled even when sel is empty and ErrEmptySelection is
// returned.
//
// A selection inside an existing annotation becomes an edit of that whole
// annotation. A selection that intersects an annotation without being
// inside it is rejected with ErrOverlap and nothing is written.
func (s *Store) Prepare(doc Document, sel buffer.Range) (Request, error) {
	set, err := s.Load(doc)
	if err != nil {
		return Request{}, err
	}
	if sel.IsEmpty() {
		return Request{}, ErrEmptySelection
	}

	target := set.Classify(sel)
	if target.Conflict {
		s.logger.WithField("doc", doc.ID()).Debug("rejected overlapping selection %s", sel)
		return Request{}, fmt.Errorf("%w: %s", ErrOverlap, sel)
	}

	return Request{
		DocumentID: doc.ID(),
		Selection:  target.Selection,
		Matched:    target.Matched,
		ID:         target.ID,
		Comment:    target.Comment,
	}, nil
}

// Commit writes comment for a prepared request.
//
// An empty comment, or a request for a document that is not the one given
// or no longer the active one, is discarded without touching any state.
// So is an edit whose annotation was removed while the prompt was open.
// Otherwise the matched annotation is rewritten in place, or a new
// annotation is appended, its region registered and the set persisted.
func (s *Store) Commit(doc Document, req Request, comment string) (Outcome, error) {
	log := s.logger.WithField("doc", doc.ID())

	if comment == "" {
		log.Debug("discarded empty comment")
		return OutcomeDiscarded, nil
	}
	if req.DocumentID != doc.ID() ||
		(s.workspace != nil && s.workspace.ActiveID() != req.DocumentID) {
		log.Debug("discarded comment for inactive document %s", req.DocumentID)
		return OutcomeStale, nil
	}

	set, err := s.read(doc)
	if err != nil {
		return 0, err
	}

	a := Annotation{
		ID:      req.ID,
		Range:   req.Selection,
		Hash:    Hash(doc.TextRange(req.Selection.Start, req.Selection.End)),
		Comment: comment,
	}

	outcome := OutcomeCreated
	if req.Matched {
		// Ids may have been compacted while the prompt was open; edit the
		// annotation that still spans the prepared range.
		target := set.Classify(req.Selection)
		if target.Conflict {
			return 0, fmt.Errorf("%w: %s", ErrOverlap, req.Selection)
		}
		if !target.Matched || target.Selection != req.Selection {
			log.Debug("discarded edit of annotation %d, no longer at %s", req.ID, req.Selection)
			return OutcomeStale, nil
		}
		a.ID = target.ID
		set.replace(a)
		outcome = OutcomeUpdated
	} else {
		if id, ok := set.intersecting(req.Selection); ok {
			return 0, fmt.Errorf("%w: %s and %s", ErrOverlap, req.Selection, s.Key(id))
		}
		a = set.append(a)
	}

	if err := s.write(doc, set); err != nil {
		return 0, err
	}
	doc.AddRegion(s.Key(a.ID), a.Range)

	log.Debug("%s annotation %d at %s", outcome, a.ID, a.Range)
	return outcome, nil
}
