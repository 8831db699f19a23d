// Package diff computes content differences between an effective source
// (rendered output for templates, raw bytes otherwise) and the currently
// deployed destination. Deploy and update use it to skip unchanged files;
// the diff command only reports.
package diff

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind classifies the comparison outcome
type Kind int

const (
	// Identical means destination already holds the effective content
	Identical Kind = iota
	// Changed means the contents differ; Hunks carries the line changes
	Changed
	// DestMissing means the destination file does not exist yet
	DestMissing
	// SourceMissing means the stored source is gone
	SourceMissing
)

func (k Kind) String() string {
	switch k {
	case Identical:
		return "identical"
	case Changed:
		return "changed"
	case DestMissing:
		return "dest-missing"
	case SourceMissing:
		return "source-missing"
	}
	return "unknown"
}

// Op tags a single line within a hunk
type Op int

const (
	// OpContext is an unchanged line kept for readability
	OpContext Op = iota
	// OpAdded is present in the effective source, absent in the destination
	OpAdded
	// OpRemoved is present in the destination, absent in the effective source
	OpRemoved
)

// Line is one tagged line of a hunk
type Line struct {
	Op   Op
	Text string
}

// Hunk is one labeled block of added/removed/context lines
type Hunk struct {
	Lines []Line
}

// File is one side of a comparison
type File struct {
	Content []byte
	Exists  bool
}

// Result is the outcome of comparing source against destination
type Result struct {
	Kind Kind
	// Hunks is populated for Changed text content
	Hunks []Hunk
	// Binary is set when either side is not valid UTF-8; hunks are not
	// produced for binary content
	Binary bool
}

// contextLines is how many unchanged lines surround each hunk
const contextLines = 3

// Compute compares the effective source content against the destination
func Compute(source, dest File) Result {
	switch {
	case !source.Exists && !dest.Exists:
		return Result{Kind: SourceMissing}
	case !source.Exists:
		return Result{Kind: SourceMissing}
	case !dest.Exists:
		return Result{Kind: DestMissing}
	}

	if bytes.Equal(source.Content, dest.Content) {
		return Result{Kind: Identical}
	}

	if !utf8.Valid(source.Content) || !utf8.Valid(dest.Content) {
		return Result{Kind: Changed, Binary: true}
	}

	return Result{Kind: Changed, Hunks: hunks(string(dest.Content), string(source.Content))}
}

// hunks builds the hunk list for a dest -> source line diff: lines only in
// dest are Removed, lines only in source are Added.
func hunks(dest, source string) []Hunk {
	dmp := diffmatchpatch.New()
	destChars, sourceChars, lineArray := dmp.DiffLinesToChars(dest, source)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(destChars, sourceChars, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		op := OpContext
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpRemoved
		case diffmatchpatch.DiffInsert:
			op = OpAdded
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}

	return group(lines)
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}

// group collapses the full line sequence into hunks, keeping contextLines
// of unchanged lines around each changed region and merging regions whose
// context would overlap.
func group(lines []Line) []Hunk {
	type span struct{ start, end int }
	var spans []span
	for i, line := range lines {
		if line.Op == OpContext {
			continue
		}
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i + contextLines + 1
		if end > len(lines) {
			end = len(lines)
		}
		if n := len(spans); n > 0 && start <= spans[n-1].end {
			spans[n-1].end = end
			continue
		}
		spans = append(spans, span{start: start, end: end})
	}

	hunks := make([]Hunk, 0, len(spans))
	for _, s := range spans {
		hunk := Hunk{Lines: make([]Line, s.end-s.start)}
		copy(hunk.Lines, lines[s.start:s.end])
		hunks = append(hunks, hunk)
	}
	return hunks
}
