// Package relocate re-attaches a previously recorded comment anchor to its
// new position in an updated diff: the three-pass matcher described in
// spec.md §4.5.
package relocate

import (
	"github.com/shhac/erview/internal/anchor"
	"github.com/shhac/erview/internal/diffmodel"
)

// Outcome is the exclusive result of a relocation attempt.
type Outcome int

const (
	Unchanged Outcome = iota
	Relocated
	Lost
)

// Result carries the outcome and, for Relocated, the new position.
type Result struct {
	Outcome       Outcome
	NewHunkIndex  int
	NewLineStart  int
}

// Relocate attempts to re-attach anchor a to its new position in file.
func Relocate(a anchor.Anchor, file diffmodel.File) Result {
	if a.LineStart == nil {
		return relocateHunkLevel(a, file)
	}

	if r, ok := pass1Exact(a, file); ok {
		return r
	}
	if r, ok := pass2Scored(a, file); ok {
		return r
	}
	if r, ok := pass3Fuzzy(a, file); ok {
		return r
	}
	return Result{Outcome: Lost}
}

func pass1Exact(a anchor.Anchor, file diffmodel.File) (Result, bool) {
	target := *a.LineStart
	type match struct{ hunkIdx, newNum int }
	var matches []match

	for hunkIdx, hunk := range file.Hunks {
		for _, dl := range hunk.Lines {
			if dl.Type == diffmodel.Delete {
				continue
			}
			if dl.Content != a.LineContent {
				continue
			}
			if dl.NewNum == nil {
				continue
			}
			if *dl.NewNum == target {
				return Result{Outcome: Unchanged}, true
			}
			matches = append(matches, match{hunkIdx, *dl.NewNum})
		}
	}

	if len(matches) == 1 {
		return Result{Outcome: Relocated, NewHunkIndex: matches[0].hunkIdx, NewLineStart: matches[0].newNum}, true
	}
	return Result{}, false
}

func pass2Scored(a anchor.Anchor, file diffmodel.File) (Result, bool) {
	target := *a.LineStart
	bestScore := 2 // a candidate must score above this, per spec.md §4.5
	var best *Result
	tiedAtBest := false

	for hunkIdx, hunk := range file.Hunks {
		for lineIdx, dl := range hunk.Lines {
			if dl.Type == diffmodel.Delete {
				continue
			}
			if dl.Content != a.LineContent {
				continue
			}
			if dl.NewNum == nil {
				continue
			}
			newNum := *dl.NewNum

			score := 0
			score += countContextBefore(hunk.Lines, lineIdx, a.ContextBefore)
			score += countContextAfter(hunk.Lines, lineIdx, a.ContextAfter)

			if a.OldLineStart != nil && dl.OldNum != nil && *a.OldLineStart == *dl.OldNum {
				score += 2
			}
			if a.HunkHeader != "" && hunk.Header == a.HunkHeader {
				score++
			}
			dist := newNum - target
			if dist < 0 {
				dist = -dist
			}
			if dist <= 10 {
				score++
			}

			switch {
			case score > bestScore:
				bestScore = score
				best = &Result{Outcome: Relocated, NewHunkIndex: hunkIdx, NewLineStart: newNum}
				tiedAtBest = false
			case score == bestScore && best != nil:
				tiedAtBest = true
			}
		}
	}

	if best != nil && !tiedAtBest {
		return *best, true
	}
	return Result{}, false
}

func pass3Fuzzy(a anchor.Anchor, file diffmodel.File) (Result, bool) {
	totalContext := len(a.ContextBefore) + len(a.ContextAfter)
	if totalContext == 0 {
		return Result{}, false
	}

	minRequired := (totalContext*2 + 2) / 3
	if minRequired < 1 {
		minRequired = 1
	}
	bestScore := minRequired - 1 // must exceed this to qualify
	var best *Result

	for hunkIdx, hunk := range file.Hunks {
		for lineIdx, dl := range hunk.Lines {
			if dl.Type == diffmodel.Delete {
				continue
			}
			if dl.NewNum == nil {
				continue
			}
			newNum := *dl.NewNum

			ctxMatches := countContextBefore(hunk.Lines, lineIdx, a.ContextBefore) +
				countContextAfter(hunk.Lines, lineIdx, a.ContextAfter)

			if ctxMatches > bestScore {
				bestScore = ctxMatches
				best = &Result{Outcome: Relocated, NewHunkIndex: hunkIdx, NewLineStart: newNum}
			}
		}
	}

	if best != nil {
		return *best, true
	}
	return Result{}, false
}

// countContextBefore compares the anchor's context_before lines, nearest
// first, against the lines immediately above lineIdx.
func countContextBefore(lines []diffmodel.Line, lineIdx int, contextBefore []string) int {
	count := 0
	n := len(contextBefore)
	for offset := 0; offset < n; offset++ {
		ctx := contextBefore[n-1-offset]
		if lineIdx < offset+1 {
			continue
		}
		if lines[lineIdx-offset-1].Content == ctx {
			count++
		}
	}
	return count
}

// countContextAfter compares the anchor's context_after lines, nearest
// first, against the lines immediately below lineIdx.
func countContextAfter(lines []diffmodel.Line, lineIdx int, contextAfter []string) int {
	count := 0
	for offset, ctx := range contextAfter {
		afterIdx := lineIdx + offset + 1
		if afterIdx >= len(lines) {
			continue
		}
		if lines[afterIdx].Content == ctx {
			count++
		}
	}
	return count
}

func relocateHunkLevel(a anchor.Anchor, file diffmodel.File) Result {
	if a.HunkHeader == "" {
		return Result{Outcome: Lost}
	}

	for hunkIdx, hunk := range file.Hunks {
		if hunk.Header == a.HunkHeader {
			originalIdx := -1
			if a.HunkIndex != nil {
				originalIdx = *a.HunkIndex
			}
			if hunkIdx == originalIdx {
				return Result{Outcome: Unchanged}
			}
			return Result{Outcome: Relocated, NewHunkIndex: hunkIdx, NewLineStart: hunk.NewStart}
		}
	}

	anchorCtx := hunkContextTail(a.HunkHeader)
	for hunkIdx, hunk := range file.Hunks {
		if anchorCtx != "" && anchorCtx == hunkContextTail(hunk.Header) {
			return Result{Outcome: Relocated, NewHunkIndex: hunkIdx, NewLineStart: hunk.NewStart}
		}
	}

	return Result{Outcome: Lost}
}

// hunkContextTail extracts the free-form text after the closing "@@ " in a
// hunk header, used to compare identity when exact header text diverges
// (e.g. because line counts shifted after an edit).
func hunkContextTail(header string) string {
	const marker = " @@ "
	for i := 0; i+len(marker) <= len(header); i++ {
		if header[i:i+len(marker)] == marker {
			return header[i+len(marker):]
		}
	}
	return ""
}
