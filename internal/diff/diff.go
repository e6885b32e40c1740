// Package diff compares a freshly rendered document with an existing one
// and reports a unified diff.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result holds the outcome of a comparison.
type Result struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	Added          int
	Removed        int
	OldLabel       string
	NewLabel       string
}

// Options configures a comparison.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions returns the labels and context used by the diff command.
func DefaultOptions() Options {
	return Options{
		OldLabel: "existing",
		NewLabel: "converted",
		Context:  3,
	}
}

// Compare computes a unified diff from oldDoc to newDoc.
func Compare(oldDoc, newDoc []byte, opts Options) (*Result, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLines(string(oldDoc)),
		B:        splitLines(string(newDoc)),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &Result{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}

	if res.HasDifferences {
		res.Hunks = extractHunks(unified)
		res.Added, res.Removed = countChanges(unified)
	}

	return res, nil
}

// Summary returns a one-line description of the change size.
func (r *Result) Summary() string {
	if !r.HasDifferences {
		return "no differences"
	}

	return fmt.Sprintf("%d hunk(s), +%d -%d lines", len(r.Hunks), r.Added, r.Removed)
}

// extractHunks splits unified diff output into individual hunks. The file
// header travels with the first hunk.
func extractHunks(unified string) []string {
	var hunks []string

	var current strings.Builder

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		if strings.HasPrefix(line, "@@") && strings.Contains(current.String(), "@@") {
			hunks = append(hunks, current.String())
			current.Reset()
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		hunks = append(hunks, current.String())
	}

	return hunks
}

// countChanges counts changed lines. Only the lines before the first
// hunk are file headers, so a removed "--x" or an added "++y" still counts.
func countChanges(unified string) (added, removed int) {
	inHunk := false

	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk:
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return added, removed
}

// Write prints the diff to w, optionally with ANSI colors.
func Write(w io.Writer, r *Result, color bool) {
	if !r.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	inHunk := false

	for _, line := range strings.Split(strings.TrimSuffix(r.Unified, "\n"), "\n") {
		inHunk = inHunk || strings.HasPrefix(line, "@@")

		if color {
			writeColorLine(w, line, inHunk)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func writeColorLine(w io.Writer, line string, inHunk bool) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case !inHunk:
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines splits s into lines that keep their trailing newline, as
// difflib expects.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
