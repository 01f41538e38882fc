// Package compact implements the auto-compaction policy: classifying
// low-value files (lockfiles, minified/generated assets, oversized diffs)
// so their hunks can be dropped from memory, reversibly, until the user
// asks to expand them.
package compact

import (
	"strings"

	"github.com/shhac/erview/internal/diffmodel"
)

// Config controls which files get compacted and at what size.
type Config struct {
	Enabled            bool
	Patterns           []string
	MaxLinesBeforeCompact int
}

// DefaultPatterns mirrors original_source's DEFAULT_COMPACTION_PATTERNS.
var DefaultPatterns = []string{
	"*.lock",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"Cargo.lock",
	"Gemfile.lock",
	"poetry.lock",
	"composer.lock",
	"go.sum",
	"*.min.js",
	"*.min.css",
	"*.generated.*",
	"*.snap",
	"*.pb.go",
	"*.g.dart",
}

// DefaultConfig returns the built-in compaction policy.
func DefaultConfig() Config {
	return Config{
		Enabled:               true,
		Patterns:              append([]string(nil), DefaultPatterns...),
		MaxLinesBeforeCompact: 1000,
	}
}

// Apply marks files matching the glob patterns or exceeding the line-count
// threshold as compacted, recording their pre-compaction hunk count and
// dropping the hunk slice.
func Apply(files []diffmodel.File, cfg Config) {
	if !cfg.Enabled {
		return
	}
	for i := range files {
		f := &files[i]
		totalLines := 0
		for _, h := range f.Hunks {
			totalLines += len(h.Lines)
		}

		shouldCompact := totalLines > cfg.MaxLinesBeforeCompact
		if !shouldCompact {
			for _, p := range cfg.Patterns {
				if Match(p, f.Path) {
					shouldCompact = true
					break
				}
			}
		}

		if shouldCompact {
			f.Compacted = true
			f.RawHunkCount = len(f.Hunks)
			f.Hunks = nil
		}
	}
}

// Expand restores a compacted file's hunks from a freshly parsed single-file
// DiffFile (obtained by re-invoking the diffing collaborator against just
// that path). Reversible: the resulting file is equivalent to one that was
// never compacted.
func Expand(f *diffmodel.File, fresh diffmodel.File) {
	f.Hunks = fresh.Hunks
	f.Adds = fresh.Adds
	f.Dels = fresh.Dels
	f.Compacted = false
	f.RawHunkCount = 0
}

// Match supports the three glob shapes named in spec.md §4.2: "*.ext"
// (including the recursive-extension form "*.a.*"), an exact filename
// match against either the basename or the full path, and a "dir/**"
// prefix match. This is a small, fixed, hand-rolled matcher rather than a
// general glob library — see DESIGN.md for why it is intentionally
// distinct from the filter language's gobwas/glob-backed matcher in
// internal/filter: compaction patterns are a fixed built-in set of three
// known shapes, not user-authored expressions.
func Match(pattern, path string) bool {
	filename := path
	if idx := strings.LastIndexByte(path, '/'); idx != -1 {
		filename = path[idx+1:]
	}

	switch {
	case strings.HasPrefix(pattern, "*."):
		suffix := pattern[2:]
		if strings.HasSuffix(suffix, ".*") && len(suffix) > 2 {
			middle := suffix[:len(suffix)-2] // strip trailing ".*"
			return strings.Contains(filename, "."+middle+".") || strings.HasSuffix(filename, "."+middle)
		}
		return strings.HasSuffix(filename, "."+suffix)
	case strings.HasSuffix(pattern, "/**"):
		dir := pattern[:len(pattern)-3]
		return strings.HasPrefix(path, dir+"/")
	default:
		return filename == pattern || path == pattern
	}
}
