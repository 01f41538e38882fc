package diffparse

import (
	"strings"

	"github.com/shhac/erview/internal/diffmodel"
)

// ScanHeaders walks the raw diff once and produces only Headers: no Line
// structs are allocated. Used above LazyParseThreshold so the initial
// render of a very large diff doesn't require parsing every hunk up
// front.
func ScanHeaders(raw string) []diffmodel.Header {
	var headers []diffmodel.Header
	var cur *diffmodel.Header
	bytePos := 0

	flush := func(end int) {
		if cur != nil {
			cur.ByteLength = end - cur.ByteOffset
			headers = append(headers, *cur)
			cur = nil
		}
	}

	for _, line := range splitLines(raw) {
		lineEnd := bytePos + len(line) + 1 // +1 for the '\n' the scan assumes

		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush(bytePos)
			path := extractPath(line)
			cur = &diffmodel.Header{Path: path, Status: diffmodel.Modified, ByteOffset: bytePos}
		case cur != nil && strings.HasPrefix(line, "new file"):
			cur.Status = diffmodel.Added
		case cur != nil && strings.HasPrefix(line, "deleted file"):
			cur.Status = diffmodel.Deleted
		case cur != nil && strings.HasPrefix(line, "rename from "):
			cur.Status = diffmodel.Renamed
			cur.OldPath = strings.TrimPrefix(line, "rename from ")
		case cur != nil && strings.HasPrefix(line, "@@"):
			cur.HunkCount++
		case cur != nil && strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			cur.Adds++
		case cur != nil && strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			cur.Dels++
		}

		bytePos = lineEnd
	}
	flush(len(raw))

	return headers
}

// ParseAtOffset re-parses a single file's section of raw, bounded by
// header's byte range, snapping both endpoints forward to the nearest
// valid UTF-8 character boundary so a multi-byte codepoint straddling the
// recorded offset never causes a slice panic.
func ParseAtOffset(raw string, header diffmodel.Header) diffmodel.File {
	start := snapToBoundary(raw, header.ByteOffset)
	end := snapToBoundary(raw, header.ByteOffset+header.ByteLength)
	if end > len(raw) {
		end = len(raw)
	}
	if start > end {
		start = end
	}
	section := raw[start:end]

	files := Parse(section)
	if len(files) == 0 {
		return header.ToStub()
	}
	file := files[len(files)-1]
	file.Path = header.Path
	file.OldPath = header.OldPath
	file.Status = header.Status
	return file
}

// snapToBoundary advances offset forward until it lands on a UTF-8
// character boundary (or the end of the string).
func snapToBoundary(s string, offset int) int {
	if offset >= len(s) {
		return len(s)
	}
	if offset < 0 {
		return 0
	}
	pos := offset
	for pos < len(s) && isUTF8Continuation(s[pos]) {
		pos++
	}
	return pos
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}
