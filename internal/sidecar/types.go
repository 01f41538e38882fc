package sidecar

import (
	"fmt"
	"strings"
	"time"

	"github.com/shhac/erview/internal/anchor"
)

// Source identifies which sidecar document a Comment was loaded from.
type Source int

const (
	SourceQuestion Source = iota
	SourcePlatform
	SourceLegacy
)

// RiskLevel is a file or finding's severity tier, ordered worst-first.
type RiskLevel int

const (
	RiskHigh RiskLevel = iota
	RiskMedium
	RiskLow
	RiskInfo
)

// Symbol returns the glyph used to render a risk level in the file list:
// a filled dot for anything actionable, a hollow one for informational-only.
func (r RiskLevel) Symbol() string {
	if r == RiskInfo {
		return "○"
	}
	return "●"
}

func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	case RiskLow:
		return "low"
	default:
		return "info"
	}
}

func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch strings.ToLower(s) {
	case "high":
		*r = RiskHigh
	case "medium":
		*r = RiskMedium
	case "low":
		*r = RiskLow
	case "info":
		*r = RiskInfo
	default:
		return fmt.Errorf("sidecar: unknown risk level %q", s)
	}
	return nil
}

// Comment is the polymorphic view over every comment-shaped thing erview
// can display: locally authored questions, synced platform (GitHub) review
// comments, and read-only legacy feedback carried over from older sidecar
// formats. Aggregate queries operate over this interface rather than
// branching on concrete type.
type Comment interface {
	ID() string
	FilePath() string
	Anchor() anchor.Anchor
	Body() string
	Author() string
	CreatedAt() time.Time
	Source() Source

	// InReplyTo returns the ID of the comment this one replies to, or ""
	// for a top-level comment. Questions never reply to anything.
	InReplyTo() string
	// CanReply reports whether the UI should offer a reply affordance.
	// A comment that is itself a reply cannot be replied to.
	CanReply() bool
	// CanDelete reports whether the UI should offer a delete affordance:
	// true for anything authored locally, false for a comment that really
	// lives on the remote code forge and was authored by someone else.
	CanDelete() bool
	// Synced reports whether this comment has a live counterpart on the
	// remote code-forge.
	Synced() bool
	// Stale reports whether this comment's anchor was lost or relocated
	// unreliably against the live diff (a runtime-only flag set by
	// reconciliation, never persisted).
	Stale() bool
	Resolved() bool
}

// Question is a locally authored review note. Questions never thread as
// replies to each other or to anything else; "You" is always the author.
type Question struct {
	QuestionID  string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	File        string        `json:"file"`
	Pos         anchor.Anchor `json:"-"`
	LineContent string        `json:"line_content,omitempty"`
	Text        string        `json:"text"`
	ResolvedTag bool          `json:"resolved"`
	StaleTag    bool          `json:"-"` // set by reconciliation, not persisted
}

func (q *Question) ID() string            { return q.QuestionID }
func (q *Question) FilePath() string      { return q.File }
func (q *Question) Anchor() anchor.Anchor { return q.Pos }
func (q *Question) Body() string          { return q.Text }
func (q *Question) Author() string        { return "You" }
func (q *Question) CreatedAt() time.Time  { return q.Timestamp }
func (q *Question) Source() Source        { return SourceQuestion }
func (q *Question) InReplyTo() string     { return "" }
func (q *Question) CanReply() bool        { return false }
func (q *Question) CanDelete() bool       { return true }
func (q *Question) Synced() bool          { return false }
func (q *Question) Stale() bool           { return q.StaleTag }
func (q *Question) Resolved() bool        { return q.ResolvedTag }

// PlatformComment mirrors a review comment on the remote code forge
// (GitHub), relocated locally against the live diff so it tracks edits
// made since it was fetched. Its "local"/"github" origin plus author
// decide whether it can be deleted: a GitHub-authored comment belongs to
// the forge, not to erview.
type PlatformComment struct {
	CommentID   string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	File        string        `json:"file"`
	Pos         anchor.Anchor `json:"-"`
	LineContent string        `json:"line_content,omitempty"`
	Text        string        `json:"comment"`
	InReplyToID string        `json:"in_reply_to,omitempty"`
	ResolvedTag bool          `json:"resolved"`
	Origin      string        `json:"source"` // "local" or "github"
	RemoteID    *uint64       `json:"github_id,omitempty"`
	By          string        `json:"author"`
	SyncedTag   bool          `json:"synced"`
	StaleTag    bool          `json:"-"`
}

func (p *PlatformComment) ID() string            { return p.CommentID }
func (p *PlatformComment) FilePath() string      { return p.File }
func (p *PlatformComment) Anchor() anchor.Anchor { return p.Pos }
func (p *PlatformComment) Body() string          { return p.Text }
func (p *PlatformComment) Author() string {
	if p.By == "" {
		return "You"
	}
	return p.By
}
func (p *PlatformComment) CreatedAt() time.Time { return p.Timestamp }
func (p *PlatformComment) Source() Source       { return SourcePlatform }
func (p *PlatformComment) InReplyTo() string     { return p.InReplyToID }
func (p *PlatformComment) CanReply() bool        { return p.InReplyToID == "" }
func (p *PlatformComment) CanDelete() bool       { return p.Origin != "github" || p.Author() == "You" }
func (p *PlatformComment) Synced() bool          { return p.SyncedTag }
func (p *PlatformComment) Stale() bool           { return p.StaleTag }
func (p *PlatformComment) Resolved() bool        { return p.ResolvedTag }

// LegacyComment is a record carried over from the older ".er-feedback.json"
// format, same shape as PlatformComment. It is never written back to its
// own file — erview migrates new activity on it into ".er-platform-comments.json"
// instead — but its reply/delete/sync semantics are otherwise identical.
type LegacyComment struct {
	CommentID   string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	File        string        `json:"file"`
	Pos         anchor.Anchor `json:"-"`
	LineContent string        `json:"line_content,omitempty"`
	Text        string        `json:"comment"`
	InReplyToID string        `json:"in_reply_to,omitempty"`
	ResolvedTag bool          `json:"resolved"`
	Origin      string        `json:"source"`
	RemoteID    *uint64       `json:"github_id,omitempty"`
	By          string        `json:"author"`
	SyncedTag   bool          `json:"synced"`
}

func (l *LegacyComment) ID() string            { return l.CommentID }
func (l *LegacyComment) FilePath() string      { return l.File }
func (l *LegacyComment) Anchor() anchor.Anchor { return l.Pos }
func (l *LegacyComment) Body() string          { return l.Text }
func (l *LegacyComment) Author() string {
	if l.By == "" {
		return "You"
	}
	return l.By
}
func (l *LegacyComment) CreatedAt() time.Time { return l.Timestamp }
func (l *LegacyComment) Source() Source       { return SourceLegacy }
func (l *LegacyComment) InReplyTo() string    { return l.InReplyToID }
func (l *LegacyComment) CanReply() bool       { return l.InReplyToID == "" }
func (l *LegacyComment) CanDelete() bool      { return l.Origin != "github" || l.Author() == "You" }
func (l *LegacyComment) Synced() bool         { return l.SyncedTag }
func (l *LegacyComment) Stale() bool          { return false } // legacy anchors are never re-relocated
func (l *LegacyComment) Resolved() bool       { return l.ResolvedTag }
