package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/marginalia/internal/document"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    buffer.Range
		wantErr bool
	}{
		{"4:9", buffer.Range{Start: 4, End: 9}, false},
		{"0:0", buffer.Range{Start: 0, End: 0}, false},
		{"9:4", buffer.Range{}, true},
		{"-1:4", buffer.Range{}, true},
		{"4", buffer.Range{}, true},
		{"a:b", buffer.Range{}, true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStdinUI(t *testing.T) {
	doc := document.New("notes.txt", "text")
	var out bytes.Buffer
	ui := newStdinUI(strings.NewReader("  a comment \n\n"), &out)

	var answers []string
	cancelled := false
	done := func(s string) { answers = append(answers, s) }
	cancel := func() { cancelled = true }

	ui.Prompt(doc, "Annotate region (0, 4)", "", done, cancel)
	ui.Prompt(doc, "Annotate region (0, 4)", "old", done, cancel)
	ui.Prompt(doc, "Annotate region (0, 4)", "", done, cancel)

	if len(answers) != 2 || answers[0] != "a comment" || answers[1] != "old" {
		t.Errorf("answers = %q", answers)
	}
	if !cancelled {
		t.Error("end of input did not cancel")
	}
	if !strings.Contains(out.String(), "notes.txt: Annotate region (0, 4) [old]: ") {
		t.Errorf("prompt output = %q", out.String())
	}

	ui.ShowError("Cannot have intersecting annotation regions!")
	if !strings.HasSuffix(out.String(), "Error: Cannot have intersecting annotation regions!\n") {
		t.Errorf("error output = %q", out.String())
	}
}
