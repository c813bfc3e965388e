package command

import (
	"errors"
	"fmt"

	"github.com/dshills/marginalia/internal/annotation"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/logging"
)

// Action names for annotation commands.
const (
	ActionToggleMode = "annotation.toggleMode"
	ActionAnnotate   = "annotation.annotate"
	ActionDelete     = "annotation.delete"
	ActionClear      = "annotation.clear"
)

// Document settings read and written by the commands.
const (
	SettingMode     = "annotation_mode"
	SettingReadMode = "annotation_read_mode"
	SettingWidget   = "is_widget"
)

// Defaults for user-facing text.
const (
	DefaultConflictMessage = "Cannot have intersecting annotation regions!"
	DefaultPromptTitle     = "Annotate region (%d, %d)"
)

// UI is the host surface the commands talk to the user through.
type UI interface {
	// Prompt asks for a line of text. Exactly one of onDone or onCancel is
	// called, possibly after Prompt has returned.
	Prompt(doc *document.Document, title, initial string, onDone func(string), onCancel func())

	// ShowError reports an error to the user.
	ShowError(msg string)
}

// Option configures a Handler.
type Option func(*Handler)

// WithConflictMessage sets the message shown for overlapping selections.
func WithConflictMessage(msg string) Option {
	return func(h *Handler) {
		if msg != "" {
			h.conflictMessage = msg
		}
	}
}

// WithPromptTitle sets the prompt title format. It receives the start and
// end offsets of the annotated range.
func WithPromptTitle(format string) Option {
	return func(h *Handler) {
		if format != "" {
			h.promptTitle = format
		}
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// Handler handles the annotation namespace.
type Handler struct {
	store           *annotation.Store
	ui              UI
	conflictMessage string
	promptTitle     string
	logger          *logging.Logger
	actions         map[string]func(doc *document.Document) Result
}

// NewHandler creates a handler for store that prompts and reports through ui.
func NewHandler(store *annotation.Store, ui UI, opts ...Option) *Handler {
	h := &Handler{
		store:           store,
		ui:              ui,
		conflictMessage: DefaultConflictMessage,
		promptTitle:     DefaultPromptTitle,
		logger:          logging.Null,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("command")
	h.actions = map[string]func(doc *document.Document) Result{
		ActionToggleMode: h.toggleMode,
		ActionAnnotate:   h.annotate,
		ActionDelete:     h.delete,
		ActionClear:      h.clear,
	}
	return h
}

// Namespace returns "annotation".
func (h *Handler) Namespace() string {
	return "annotation"
}

// CanHandle returns true if name is one of the handler's actions.
func (h *Handler) CanHandle(name string) bool {
	_, ok := h.actions[name]
	return ok
}

// Actions returns the handled action names.
func (h *Handler) Actions() []string {
	return []string{ActionToggleMode, ActionAnnotate, ActionDelete, ActionClear}
}

// IsEnabled reports whether the action may run on doc.
func (h *Handler) IsEnabled(name string, doc *document.Document) bool {
	if doc == nil || !h.CanHandle(name) {
		return false
	}
	if name == ActionToggleMode {
		return !doc.Settings().Bool(SettingWidget, false)
	}
	return InAnnotationMode(doc)
}

// InAnnotationMode reports whether doc is in annotation mode.
func InAnnotationMode(doc *document.Document) bool {
	return doc.Settings().Bool(SettingMode, false)
}

// Handle runs the named action on doc. Disabled actions are a no-op.
func (h *Handler) Handle(name string, doc *document.Document) Result {
	fn, ok := h.actions[name]
	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.Namespace(), name)
	}
	if doc == nil {
		return Error(document.ErrNoActiveDocument)
	}
	if !h.IsEnabled(name, doc) {
		return NoOpWithMessage(name + " is disabled")
	}
	return fn(doc)
}

func (h *Handler) toggleMode(doc *document.Document) Result {
	s := doc.Settings()
	mode := !s.Bool(SettingMode, false)
	if err := s.Set(SettingMode, mode); err != nil {
		return Error(err)
	}

	if mode {
		if err := s.Set(SettingReadMode, doc.ReadOnly()); err != nil {
			return Error(err)
		}
		doc.SetReadOnly(true)
	} else {
		if err := h.store.Clear(doc); err != nil {
			return Error(err)
		}
		doc.SetReadOnly(s.Bool(SettingReadMode, false))
	}

	h.logger.WithField("doc", doc.ID()).Info("annotation mode %t", mode)
	return SuccessWithData("mode", mode)
}

func (h *Handler) annotate(doc *document.Document) Result {
	req, err := h.store.Prepare(doc, doc.Selections()[0])
	if errors.Is(err, annotation.ErrEmptySelection) {
		return NoOpWithMessage("empty selection")
	}
	if err != nil {
		return h.fail(doc, err)
	}

	log := h.logger.WithField("doc", doc.ID())
	title := fmt.Sprintf(h.promptTitle, req.Selection.Start, req.Selection.End)
	h.ui.Prompt(doc, title, req.Comment,
		func(comment string) {
			outcome, err := h.store.Commit(doc, req, comment)
			if err != nil {
				h.fail(doc, err)
				return
			}
			log.Debug("annotate %s: %s", req.Selection, outcome)
		},
		func() {
			log.Debug("annotate %s: cancelled", req.Selection)
		},
	)
	return Async()
}

func (h *Handler) delete(doc *document.Document) Result {
	set, err := h.store.DeleteIntersecting(doc, doc.Selections())
	if err != nil {
		return Error(err)
	}
	return SuccessWithData("count", set.Count())
}

func (h *Handler) clear(doc *document.Document) Result {
	if err := h.store.Clear(doc); err != nil {
		return Error(err)
	}
	return Success()
}

// fail reports err to the user and returns it as a result.
func (h *Handler) fail(doc *document.Document, err error) Result {
	log := h.logger.WithField("doc", doc.ID())
	if errors.Is(err, annotation.ErrOverlap) {
		log.Info("%v", err)
		h.ui.ShowError(h.conflictMessage)
		return Error(err).WithMessage(h.conflictMessage)
	}
	log.Error("%v", err)
	h.ui.ShowError(err.Error())
	return Error(err)
}
