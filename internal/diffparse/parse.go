// Package diffparse turns raw unified-diff text into the diffmodel types:
// a single-pass eager parser, a header-only fast scan for large diffs, and
// an on-demand parser that re-parses one file's byte range from the raw
// string produced by the fast scan.
package diffparse

import (
	"strconv"
	"strings"

	"github.com/shhac/erview/internal/diffmodel"
)

// LazyParseThreshold is the raw-diff byte length above which callers should
// prefer the header-only fast scan plus on-demand per-file parsing over a
// single eager parse of the whole diff.
const LazyParseThreshold = 5000

// Parse runs a single-pass eager parse of an entire raw unified diff.
func Parse(raw string) []diffmodel.File {
	var files []diffmodel.File
	var curFile *diffmodel.File
	var curHunk *diffmodel.Hunk
	var oldLine, newLine int

	flushHunk := func() {
		if curHunk != nil && curFile != nil {
			curFile.Hunks = append(curFile.Hunks, *curHunk)
			curHunk = nil
		}
	}
	flushFile := func() {
		flushHunk()
		if curFile != nil {
			files = append(files, *curFile)
			curFile = nil
		}
	}

	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, "diff --git") {
			flushFile()
			path := extractPath(line)
			curFile = &diffmodel.File{Path: path, Status: diffmodel.Modified}
			continue
		}

		if curFile != nil {
			if strings.HasPrefix(line, "new file") {
				curFile.Status = diffmodel.Added
				continue
			}
			if strings.HasPrefix(line, "deleted file") {
				curFile.Status = diffmodel.Deleted
				continue
			}
			if rest, ok := strip(line, "rename from "); ok {
				curFile.Status = diffmodel.Renamed
				curFile.OldPath = rest
				continue
			}
			if strings.HasPrefix(line, "copy from ") {
				curFile.Status = diffmodel.Copied
				curFile.OldPath = strings.TrimPrefix(line, "copy from ")
				continue
			}
			if strings.HasPrefix(line, "index ") ||
				strings.HasPrefix(line, "--- ") ||
				strings.HasPrefix(line, "+++ ") ||
				strings.HasPrefix(line, "similarity index") ||
				strings.HasPrefix(line, "rename to") ||
				strings.HasPrefix(line, "copy to") ||
				strings.HasPrefix(line, "old mode") ||
				strings.HasPrefix(line, "new mode") {
				continue
			}
		}

		if strings.HasPrefix(line, "@@") {
			flushHunk()
			if h, ok := parseHunkHeader(line); ok {
				oldLine = h.OldStart
				newLine = h.NewStart
				curHunk = h
			}
			continue
		}

		if curHunk == nil {
			continue
		}

		if strings.HasPrefix(line, "\\ No newline") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			n := newLine
			curHunk.Lines = append(curHunk.Lines, diffmodel.Line{
				Type: diffmodel.Add, Content: line[1:], NewNum: &n,
			})
			newLine++
			if curFile != nil {
				curFile.Adds++
			}
		case strings.HasPrefix(line, "-"):
			n := oldLine
			curHunk.Lines = append(curHunk.Lines, diffmodel.Line{
				Type: diffmodel.Delete, Content: line[1:], OldNum: &n,
			})
			oldLine++
			if curFile != nil {
				curFile.Dels++
			}
		case strings.HasPrefix(line, " ") || line == "":
			content := ""
			if line != "" {
				content = line[1:]
			}
			on, nn := oldLine, newLine
			curHunk.Lines = append(curHunk.Lines, diffmodel.Line{
				Type: diffmodel.Context, Content: content, OldNum: &on, NewNum: &nn,
			})
			oldLine++
			newLine++
		}
	}

	flushFile()
	return files
}

// extractPath implements spec.md §4.1's rename-aware path extraction:
// strip "diff --git a/" and, when the remainder splits evenly into two
// equal halves separated by " b/", take the first half (the common,
// non-rename case). Otherwise fall back to splitting on " b/" and taking
// the last segment — a known-imperfect fallback for renames whose new
// path itself contains " b/".
func extractPath(line string) string {
	const prefix = "diff --git a/"
	afterA, ok := strip(line, prefix)
	if !ok {
		return lastSplit(line, " b/")
	}
	if len(afterA) >= 3 {
		pathLen := (len(afterA) - 3) / 2
		if pathLen > 0 && len(afterA) >= pathLen+3 && afterA[:pathLen] == afterA[pathLen+3:] {
			return afterA[:pathLen]
		}
	}
	return lastSplit(afterA, " b/")
}

func lastSplit(s, sep string) string {
	idx := strings.LastIndex(s, sep)
	if idx == -1 {
		return s
	}
	return s[idx+len(sep):]
}

func strip(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

// parseHunkHeader parses a "@@ -O[,OC] +N[,NC] @@ [context]" line,
// normalizing the header on the way in (absent counts default to 1).
func parseHunkHeader(line string) (*diffmodel.Hunk, bool) {
	after, ok := strip(line, "@@ ")
	if !ok {
		return nil, false
	}
	end := strings.Index(after, " @@")
	if end == -1 {
		return nil, false
	}
	rangeStr := after[:end]
	context := strings.TrimSpace(after[end+3:])

	fields := strings.Fields(rangeStr)
	if len(fields) < 2 {
		return nil, false
	}
	oldStart, oldCount, ok1 := parseRange(strings.TrimPrefix(fields[0], "-"))
	newStart, newCount, ok2 := parseRange(strings.TrimPrefix(fields[1], "+"))
	if !ok1 || !ok2 {
		return nil, false
	}

	header := normalizeHeader(oldStart, oldCount, newStart, newCount, context)
	return &diffmodel.Hunk{
		Header:   header,
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}, true
}

func normalizeHeader(oldStart, oldCount, newStart, newCount int, context string) string {
	base := "@@ -" + strconv.Itoa(oldStart) + "," + strconv.Itoa(oldCount) +
		" +" + strconv.Itoa(newStart) + "," + strconv.Itoa(newCount) + " @@"
	if context == "" {
		return base
	}
	return base + " " + context
}

func parseRange(s string) (start, count int, ok bool) {
	if idx := strings.Index(s, ","); idx != -1 {
		start, err1 := strconv.Atoi(s[:idx])
		count, err2 := strconv.Atoi(s[idx+1:])
		return start, count, err1 == nil && err2 == nil
	}
	start, err := strconv.Atoi(s)
	return start, 1, err == nil
}

// splitLines splits on "\n" without the trailing newline, matching Rust's
// str::lines() semantics (no final empty element for a trailing newline).
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
