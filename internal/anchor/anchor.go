// Package anchor captures a comment's position in a diff as a stable
// reference — content plus surrounding context — so it can survive edits
// to the underlying code (see internal/relocate for the matching side).
package anchor

import "github.com/shhac/erview/internal/diffmodel"

// Anchor is the serialized identity of a comment's target within a diff.
// Hunk-level anchors (LineStart == nil) rely solely on HunkHeader for
// identity; line-level anchors carry up to three lines of context on each
// side of the target line.
type Anchor struct {
	File          string
	HunkIndex     *int
	LineStart     *int
	LineContent   string
	ContextBefore []string
	ContextAfter  []string
	OldLineStart  *int
	HunkHeader    string
}

// maxContext is the number of context lines captured on each side of the
// target line (spec.md §4.4: "up to three").
const maxContext = 3

// Capture builds an Anchor from a DiffFile at comment-authoring time: the
// target line's content, up to three context lines on each side (skipping
// Delete lines when collecting from the new side, since those don't exist
// on the post-edit side), the hunk header, and the original old-side line
// number when known.
func Capture(file diffmodel.File, hunkIndex int, lineStart *int) Anchor {
	a := Anchor{File: file.Path, HunkIndex: &hunkIndex}
	if hunkIndex < 0 || hunkIndex >= len(file.Hunks) {
		return a
	}
	hunk := file.Hunks[hunkIndex]
	a.HunkHeader = hunk.Header

	if lineStart == nil {
		return a
	}
	target := *lineStart
	a.LineStart = &target

	lineIdx := -1
	for i, l := range hunk.Lines {
		if l.Type != diffmodel.Delete && l.NewNum != nil && *l.NewNum == target {
			lineIdx = i
			break
		}
	}
	if lineIdx == -1 {
		return a
	}

	line := hunk.Lines[lineIdx]
	a.LineContent = line.Content
	if line.OldNum != nil {
		v := *line.OldNum
		a.OldLineStart = &v
	}

	// Context before: walk upward, skipping Delete lines, collecting up to 3.
	for i := lineIdx - 1; i >= 0 && len(a.ContextBefore) < maxContext; i-- {
		if hunk.Lines[i].Type == diffmodel.Delete {
			continue
		}
		a.ContextBefore = append([]string{hunk.Lines[i].Content}, a.ContextBefore...)
	}
	// Context after: walk downward, skipping Delete lines, collecting up to 3.
	for i := lineIdx + 1; i < len(hunk.Lines) && len(a.ContextAfter) < maxContext; i++ {
		if hunk.Lines[i].Type == diffmodel.Delete {
			continue
		}
		a.ContextAfter = append(a.ContextAfter, hunk.Lines[i].Content)
	}

	return a
}

// CaptureHunkLevel builds a hunk-level Anchor (no target line), used for
// comments attached to a hunk as a whole.
func CaptureHunkLevel(file diffmodel.File, hunkIndex int) Anchor {
	a := Anchor{File: file.Path, HunkIndex: &hunkIndex}
	if hunkIndex >= 0 && hunkIndex < len(file.Hunks) {
		a.HunkHeader = file.Hunks[hunkIndex].Header
	}
	return a
}
