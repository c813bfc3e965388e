package document

import (
	"fmt"
	"os"
	"path/filepath"
)

// Manager tracks open documents and which one has focus.
type Manager struct {
	documents map[string]*Document // id -> document
	order     []string
	active    *Document
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{documents: make(map[string]*Document)}
}

// Add registers a document and gives it focus.
func (m *Manager) Add(doc *Document) {
	if _, exists := m.documents[doc.ID()]; !exists {
		m.documents[doc.ID()] = doc
		m.order = append(m.order, doc.ID())
	}
	m.active = doc
}

// Create creates a document holding text and gives it focus.
func (m *Manager) Create(path, text string) *Document {
	doc := New(path, text)
	m.Add(doc)
	return doc
}

// Open reads a file into a new document and gives it focus. Opening a
// path that is already open focuses the existing document.
func (m *Manager) Open(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	for _, id := range m.order {
		if doc := m.documents[id]; doc.Path() == absPath {
			m.active = doc
			return doc, nil
		}
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return m.Create(absPath, string(content)), nil
}

// Get returns a document by id.
func (m *Manager) Get(id string) (*Document, bool) {
	doc, ok := m.documents[id]
	return doc, ok
}

// Active returns the document with focus, or nil.
func (m *Manager) Active() *Document {
	return m.active
}

// ActiveID returns the id of the document with focus, or "".
func (m *Manager) ActiveID() string {
	if m.active == nil {
		return ""
	}
	return m.active.ID()
}

// SetActive gives focus to the document with the given id.
func (m *Manager) SetActive(id string) error {
	doc, ok := m.documents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.active = doc
	return nil
}

// Close closes a document. Focus moves to the most recently opened
// remaining document.
func (m *Manager) Close(id string) error {
	doc, ok := m.documents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	delete(m.documents, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if m.active == doc {
		m.active = nil
		if len(m.order) > 0 {
			m.active = m.documents[m.order[len(m.order)-1]]
		}
	}
	return nil
}

// All returns the open documents in the order they were opened.
func (m *Manager) All() []*Document {
	docs := make([]*Document, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, m.documents[id])
	}
	return docs
}

// Count returns the number of open documents.
func (m *Manager) Count() int {
	return len(m.documents)
}
