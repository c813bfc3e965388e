// Package main is the entry point for marginalia.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/marginalia/internal/app"
	"github.com/dshills/marginalia/internal/command"
	"github.com/dshills/marginalia/internal/engine/buffer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app    app.Options
	script string
	format string
	sel    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	opts.app.UI = newStdinUI(os.Stdin, os.Stderr)

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.script != "" {
		if err := application.RunScript(ctx, opts.script); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	doc := application.Documents().Active()

	if opts.sel != "" {
		r, err := parseRange(opts.sel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !command.InAnnotationMode(doc) {
			if res := application.Execute(command.ActionToggleMode); res.IsError() {
				fmt.Fprintf(os.Stderr, "Error: %v\n", res.Error)
				return 1
			}
		}
		doc.SetSelections(r)
		if res := application.Execute(command.ActionAnnotate); res.IsError() {
			return 1
		}
	}

	if err := application.WriteReport(os.Stdout, doc, opts.format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.script, "script", "", "Lua script to run against the file")
	flag.StringVar(&opts.script, "s", "", "Lua script to run against the file (shorthand)")
	flag.StringVar(&opts.format, "format", app.FormatYAML, "Output format (json, yaml)")
	flag.StringVar(&opts.format, "f", app.FormatYAML, "Output format (shorthand)")
	flag.StringVar(&opts.sel, "annotate", "", "Annotate START:END, reading the comment from stdin")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "marginalia - region annotations for text files\n\n")
		fmt.Fprintf(os.Stderr, "Usage: marginalia [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  marginalia -s review.lua notes.txt     Run a review script, print YAML\n")
		fmt.Fprintf(os.Stderr, "  marginalia -f json -s review.lua a.md  Print the stored annotation set\n")
		fmt.Fprintf(os.Stderr, "  marginalia -annotate 10:42 notes.txt   Prompt for a comment on 10..42\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("marginalia %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.format {
	case app.FormatJSON, app.FormatYAML:
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format %q (must be json or yaml)\n", opts.format)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.app.Files = flag.Args()

	return opts
}

// parseRange parses "START:END" byte offsets.
func parseRange(s string) (buffer.Range, error) {
	startText, endText, ok := strings.Cut(s, ":")
	if !ok {
		return buffer.Range{}, fmt.Errorf("invalid range %q (want START:END)", s)
	}
	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return buffer.Range{}, fmt.Errorf("invalid range start %q: %w", startText, err)
	}
	end, err := strconv.ParseInt(endText, 10, 64)
	if err != nil {
		return buffer.Range{}, fmt.Errorf("invalid range end %q: %w", endText, err)
	}
	if start < 0 || end < start {
		return buffer.Range{}, fmt.Errorf("invalid range %q", s)
	}
	return buffer.Range{Start: buffer.ByteOffset(start), End: buffer.ByteOffset(end)}, nil
}
