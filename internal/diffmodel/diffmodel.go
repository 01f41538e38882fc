// Package diffmodel is the typed representation of a parsed unified diff:
// files, hunks, and lines, plus single-hunk patch re-emission.
package diffmodel

import "strings"

// LineType discriminates the three kinds of line a unified diff can carry.
type LineType int

const (
	Context LineType = iota
	Add
	Delete
)

// Line is a single line within a hunk. Add lines never carry OldNum,
// Delete lines never carry NewNum, Context lines always carry both.
type Line struct {
	Type    LineType
	Content string
	OldNum  *int
	NewNum  *int
}

// Hunk is a contiguous run of diff lines bounded by an "@@ ... @@" header.
type Hunk struct {
	Header   string
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// ToText renders the hunk back to unified-diff text: the header line
// followed by each line prefixed with ' '/'+'/'-' per its type.
func (h *Hunk) ToText() string {
	var b strings.Builder
	b.WriteString(h.Header)
	b.WriteByte('\n')
	for _, l := range h.Lines {
		switch l.Type {
		case Add:
			b.WriteByte('+')
		case Delete:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// Status is the kind of change a file underwent between the two diff sides.
type Status int

const (
	Modified Status = iota
	Added
	Deleted
	Renamed
	Copied
)

// File is one file's worth of diff: its status, hunks, and aggregate
// counters. OldPath is populated only for Renamed and Copied.
type File struct {
	Path     string
	OldPath  string
	Status   Status
	Hunks    []Hunk
	Adds     int
	Dels     int
	Compacted     bool
	RawHunkCount  int
}

// Header is the lightweight record produced by the fast header-only scan:
// enough to identify and later lazily parse one file's section of a raw
// diff, without having allocated any Line structs for it.
type Header struct {
	Path       string
	OldPath    string
	Status     Status
	Adds       int
	Dels       int
	HunkCount  int
	ByteOffset int
	ByteLength int
}

// ToStub converts a Header into a File with no parsed hunks, suitable for
// display in a file tree before the hunks are lazily parsed.
func (h Header) ToStub() File {
	return File{
		Path:         h.Path,
		OldPath:      h.OldPath,
		Status:       h.Status,
		Adds:         h.Adds,
		Dels:         h.Dels,
		RawHunkCount: h.HunkCount,
	}
}

// EmitPatch produces a minimal unified-diff patch for one file's single
// hunk, suitable for feeding to a staging collaborator (e.g. `git apply
// --unidiff-zero`).
func EmitPatch(path string, hunk *Hunk) string {
	var b strings.Builder
	b.WriteString("diff --git a/")
	b.WriteString(path)
	b.WriteString(" b/")
	b.WriteString(path)
	b.WriteString("\n--- a/")
	b.WriteString(path)
	b.WriteString("\n+++ b/")
	b.WriteString(path)
	b.WriteString("\n")
	b.WriteString(hunk.ToText())
	return b.String()
}
