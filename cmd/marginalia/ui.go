package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/marginalia/internal/document"
)

// stdinUI prompts on a terminal-like pair of streams. An empty answer
// keeps the offered default; end of input cancels.
type stdinUI struct {
	in  *bufio.Scanner
	out io.Writer
}

func newStdinUI(in io.Reader, out io.Writer) *stdinUI {
	return &stdinUI{in: bufio.NewScanner(in), out: out}
}

func (u *stdinUI) Prompt(doc *document.Document, title, initial string, onDone func(string), onCancel func()) {
	fmt.Fprintf(u.out, "%s: %s", doc.Name(), title)
	if initial != "" {
		fmt.Fprintf(u.out, " [%s]", initial)
	}
	fmt.Fprint(u.out, ": ")

	if !u.in.Scan() {
		fmt.Fprintln(u.out)
		onCancel()
		return
	}
	answer := strings.TrimSpace(u.in.Text())
	if answer == "" {
		answer = initial
	}
	onDone(answer)
}

func (u *stdinUI) ShowError(msg string) {
	fmt.Fprintf(u.out, "Error: %s\n", msg)
}
