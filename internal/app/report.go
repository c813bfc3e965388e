package app

import (
	"fmt"
	"io"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/dshills/marginalia/internal/command"
	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

// Report formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report describes a document's annotations for display.
type Report struct {
	Document    string        `yaml:"document"`
	Path        string        `yaml:"path"`
	Revision    uint64        `yaml:"revision"`
	Mode        bool          `yaml:"annotationMode"`
	Count       int           `yaml:"count"`
	Annotations []ReportEntry `yaml:"annotations"`
}

// ReportEntry is one annotation in a report. Lines and columns are
// one-based.
type ReportEntry struct {
	ID      int    `yaml:"id"`
	Start   int64  `yaml:"start"`
	End     int64  `yaml:"end"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Text    string `yaml:"text"`
	Comment string `yaml:"comment"`
	Preview string `yaml:"preview,omitempty"`
	Hash    string `yaml:"hash"`
}

// BuildReport reconciles and describes doc's annotations.
func (app *Application) BuildReport(doc *document.Document) (*Report, error) {
	set, err := app.store.Load(doc)
	if err != nil {
		return nil, NewOperationError("report", doc.Name(), err)
	}

	width := app.config.Annotation.PreviewWidth
	r := &Report{
		Document:    doc.Name(),
		Path:        doc.Path(),
		Revision:    uint64(doc.Revision()),
		Mode:        command.InAnnotationMode(doc),
		Count:       set.Count(),
		Annotations: make([]ReportEntry, 0, set.Count()),
	}
	for _, a := range set.All() {
		entry := ReportEntry{
			ID:      a.ID,
			Start:   int64(a.Range.Start),
			End:     int64(a.Range.End),
			From:    position(doc, a.Range.Start),
			To:      position(doc, a.Range.End),
			Text:    doc.TextRange(a.Range.Start, a.Range.End),
			Comment: a.Comment,
			Hash:    a.Hash,
		}
		if preview := a.Preview(width); preview != a.Comment {
			entry.Preview = preview
		}
		r.Annotations = append(r.Annotations, entry)
	}
	return r, nil
}

func position(doc *document.Document, offset buffer.ByteOffset) string {
	p := doc.OffsetToPoint(offset)
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// WriteReport writes doc's annotations to w.
//
// FormatJSON writes the persisted annotation set exactly as stored in the
// document settings, indented. FormatYAML writes a Report.
func (app *Application) WriteReport(w io.Writer, doc *document.Document, format string) error {
	switch format {
	case FormatJSON:
		if _, err := app.store.Load(doc); err != nil {
			return NewOperationError("report", doc.Name(), err)
		}
		raw := doc.Settings().Get(app.store.SettingsKey()).Raw
		if raw == "" {
			raw = `{"count":0,"annotations":{}}`
		}
		_, err := w.Write(pretty.Pretty([]byte(raw)))
		return err

	case FormatYAML:
		report, err := app.BuildReport(doc)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
