package annotation

import (
	"fmt"

	"github.com/dshills/marginalia/internal/engine/buffer"
	"github.com/dshills/marginalia/internal/logging"
	"github.com/dshills/marginalia/internal/settings"
)

// Defaults for the persisted layout.
const (
	DefaultSettingsKey = "annotation_comments"
	DefaultKeyPrefix   = "html_annotation_"
)

// Document is the per-document state the store works on.
type Document interface {
	// ID identifies the document for the stale-callback guard.
	ID() string

	// Settings returns the document-scoped settings holding the set.
	Settings() *settings.Store

	// AddRegion registers a live range under key, replacing any previous one.
	AddRegion(key string, r buffer.Range)

	// Region returns the live range registered under key.
	Region(key string) (buffer.Range, bool)

	// EraseRegion stops tracking key.
	EraseRegion(key string)

	// TextRange returns the document text in [start, end).
	TextRange(start, end buffer.ByteOffset) string
}

// Workspace reports which document currently has focus.
type Workspace interface {
	ActiveID() string
}

// Option configures a Store.
type Option func(*Store)

// WithSettingsKey sets the settings key the set is stored under.
func WithSettingsKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.settingsKey = key
		}
	}
}

// WithKeyPrefix sets the prefix for record keys and region keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkspace sets the provider of the active document. Without one,
// Commit only checks that the request belongs to the document it is given.
func WithWorkspace(w Workspace) Option {
	return func(s *Store) {
		s.workspace = w
	}
}

// Store implements the annotation operations. It holds no per-document
// state; every method takes the document it works on.
type Store struct {
	settingsKey string
	keyPrefix   string
	workspace   Workspace
	logger      *logging.Logger
}

// NewStore creates a store with the given options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		settingsKey: DefaultSettingsKey,
		keyPrefix:   DefaultKeyPrefix,
		logger:      logging.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("annotation")
	return s
}

// Key returns the record and region key for an annotation id.
func (s *Store) Key(id int) string {
	return recordKey(s.keyPrefix, id)
}

// SettingsKey returns the settings key the set is stored under.
func (s *Store) SettingsKey() string {
	return s.settingsKey
}

// read decodes the persisted set without reconciling it.
func (s *Store) read(doc Document) (*Set, error) {
	set, err := decodeSet(doc.Settings().Get(s.settingsKey), s.keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	return set, nil
}

// write persists set to the document settings.
func (s *Store) write(doc Document, set *Set) error {
	data, err := encodeSet(set, s.keyPrefix)
	if err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	if err := doc.Settings().SetRaw(s.settingsKey, data); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

// Load returns the document's annotations after reconciling them with
// their live regions, and persists the result.
//
// Annotations whose region is missing or empty are removed. Survivors take
// their live range and are renumbered in id order so the ids stay dense;
// a renumbered annotation's region moves to its new key.
func (s *Store) Load(doc Document) (*Set, error) {
	set, err := s.read(doc)
	if err != nil {
		return nil, err
	}

	reconciled := s.reconcile(doc, set)
	if err := s.write(doc, reconciled); err != nil {
		return nil, err
	}
	return reconciled, nil
}

// survivor is an annotation that still has a live region.
type survivor struct {
	oldID int
	live  buffer.Range
}

func (s *Store) reconcile(doc Document, set *Set) *Set {
	// First pass: find surviving ids in order. A survivor's new id is its
	// index in the slice.
	survivors := make([]survivor, 0, set.Count())
	var dead []int
	for _, a := range set.annotations {
		r, ok := doc.Region(s.Key(a.ID))
		if !ok || r.IsEmpty() {
			dead = append(dead, a.ID)
			continue
		}
		survivors = append(survivors, survivor{oldID: a.ID, live: r})
	}

	// Second pass: drop dead regions, then move survivors. Dead keys are
	// erased first so a survivor moving down never has its new key erased.
	for _, id := range dead {
		doc.EraseRegion(s.Key(id))
	}

	out := &Set{annotations: make([]Annotation, 0, len(survivors))}
	rekeyed := 0
	for newID, sv := range survivors {
		a := set.annotations[sv.oldID]
		a.ID = newID
		a.Range = sv.live
		if newID != sv.oldID {
			doc.EraseRegion(s.Key(sv.oldID))
			doc.AddRegion(s.Key(newID), sv.live)
			rekeyed++
		}
		out.annotations = append(out.annotations, a)
	}

	if len(dead) > 0 || rekeyed > 0 {
		s.logger.WithField("doc", doc.ID()).
			Debug("reconciled annotations: %d removed, %d renumbered, %d remain", len(dead), rekeyed, out.Count())
	}
	return out
}

// Clear removes every annotation and its region.
func (s *Store) Clear(doc Document) error {
	// Only the count is needed, so a set with damaged records still clears.
	count := int(doc.Settings().GetPath(s.settingsKey, "count").Int())
	for id := 0; id < count; id++ {
		doc.EraseRegion(s.Key(id))
	}
	if err := doc.Settings().SetRaw(s.settingsKey, emptyState); err != nil {
		return fmt.Errorf("clear annotations: %w", err)
	}
	if count > 0 {
		s.logger.WithField("doc", doc.ID()).Debug("cleared %d annotations", count)
	}
	return nil
}

// DeleteIntersecting removes, for each selection, the lowest-id annotation
// whose stored range intersects it, then compacts the set with Load.
// At most one annotation is removed per selection.
func (s *Store) DeleteIntersecting(doc Document, selections []buffer.Range) (*Set, error) {
	set, err := s.read(doc)
	if err != nil {
		return nil, err
	}

	for _, sel := range selections {
		if id, ok := set.intersecting(sel); ok {
			doc.EraseRegion(s.Key(id))
		}
	}
	return s.Load(doc)
}
