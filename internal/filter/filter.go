// Package filter implements erview's file-visibility filter language: a
// comma-separated list of +/- prefixed rules (glob patterns, size
// comparisons, status keywords) evaluated as an include-OR followed by an
// exclude-AND-NOT pass, per spec.md §4.8.
package filter

import (
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/shhac/erview/internal/diffmodel"
)

// StatusKind is the filter language's status keyword vocabulary.
type StatusKind int

const (
	StatusAdded StatusKind = iota
	StatusModified
	StatusDeleted
	StatusRenamed
)

// SizeOp is the comparison operator for a size rule.
type SizeOp int

const (
	GreaterThan SizeOp = iota
	LessThan
)

// RuleKind discriminates the three shapes a Rule can take.
type RuleKind int

const (
	KindGlob RuleKind = iota
	KindStatus
	KindSize
)

// Rule is a single parsed filter segment.
type Rule struct {
	Include bool
	Kind    RuleKind

	Glob      glob.Glob
	GlobText  string // retained for debugging/round-tripping, not matched against
	Status    StatusKind
	Op        SizeOp
	Threshold int
}

func (r Rule) isInclude() bool { return r.Include }

// Preset is a named, built-in filter expression.
type Preset struct {
	Name string
	Expr string
}

// Presets mirrors the original's built-in FILTER_PRESETS, including its
// deliberate overlap: "*.ts" appears in both frontend and backend since
// TypeScript shows up on either side of a full-stack change.
var Presets = []Preset{
	{Name: "frontend", Expr: "*.ts,*.tsx,*.js,*.jsx,*.html,*.css,*.scss,*.svelte,*.vue"},
	{Name: "backend", Expr: "*.rs,*.py,*.go,*.java,*.sql,*.ts"},
	{Name: "config", Expr: "*.toml,*.yaml,*.yml,*.json,*.env"},
	{Name: "docs", Expr: "*.md,*.txt,*.rst"},
}

// Parse parses a comma-separated filter expression into rules. Segments
// that parse as neither a size comparison nor a status keyword are
// treated as glob patterns; invalid globs are silently skipped, matching
// the original's tolerant parsing.
func Parse(expr string) []Rule {
	var rules []Rule
	for _, segment := range strings.Split(expr, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		include := true
		body := segment
		switch {
		case strings.HasPrefix(segment, "-"):
			include = false
			body = strings.TrimSpace(segment[1:])
		case strings.HasPrefix(segment, "+"):
			include = true
			body = strings.TrimSpace(segment[1:])
		}
		if body == "" {
			continue
		}

		if r, ok := parseSize(include, body); ok {
			rules = append(rules, r)
			continue
		}
		if r, ok := parseStatus(include, body); ok {
			rules = append(rules, r)
			continue
		}
		if g, err := glob.Compile(body, '/'); err == nil {
			rules = append(rules, Rule{Include: include, Kind: KindGlob, Glob: g, GlobText: body})
		}
	}
	return rules
}

func parseSize(include bool, body string) (Rule, bool) {
	switch {
	case strings.HasPrefix(body, ">"):
		if n, err := strconv.Atoi(strings.TrimSpace(body[1:])); err == nil {
			return Rule{Include: include, Kind: KindSize, Op: GreaterThan, Threshold: n}, true
		}
	case strings.HasPrefix(body, "<"):
		if n, err := strconv.Atoi(strings.TrimSpace(body[1:])); err == nil {
			return Rule{Include: include, Kind: KindSize, Op: LessThan, Threshold: n}, true
		}
	}
	return Rule{}, false
}

func parseStatus(include bool, body string) (Rule, bool) {
	var status StatusKind
	switch strings.ToLower(body) {
	case "added":
		status = StatusAdded
	case "modified":
		status = StatusModified
	case "deleted":
		status = StatusDeleted
	case "renamed":
		status = StatusRenamed
	default:
		return Rule{}, false
	}
	return Rule{Include: include, Kind: KindStatus, Status: status}, true
}

// Apply reports whether file should be visible under rules: an empty rule
// set admits everything; otherwise a file must satisfy at least one
// include rule (or there must be no include rules at all) and must not
// match any exclude rule.
func Apply(rules []Rule, file diffmodel.File) bool {
	if len(rules) == 0 {
		return true
	}

	hasIncludes := false
	for _, r := range rules {
		if r.isInclude() {
			hasIncludes = true
			break
		}
	}

	included := true
	if hasIncludes {
		included = false
		for _, r := range rules {
			if r.isInclude() && matches(r, file) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, r := range rules {
		if !r.isInclude() && matches(r, file) {
			return false
		}
	}
	return true
}

func matches(r Rule, file diffmodel.File) bool {
	switch r.Kind {
	case KindGlob:
		return r.Glob != nil && r.Glob.Match(file.Path)
	case KindStatus:
		return matchesStatus(r.Status, file.Status)
	case KindSize:
		changed := file.Adds + file.Dels
		if r.Op == GreaterThan {
			return changed > r.Threshold
		}
		return changed < r.Threshold
	default:
		return false
	}
}

func matchesStatus(kind StatusKind, status diffmodel.Status) bool {
	switch {
	case kind == StatusAdded && status == diffmodel.Added:
		return true
	case kind == StatusModified && status == diffmodel.Modified:
		return true
	case kind == StatusDeleted && status == diffmodel.Deleted:
		return true
	case kind == StatusRenamed && status == diffmodel.Renamed:
		return true
	default:
		return false
	}
}
