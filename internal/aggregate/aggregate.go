// Package aggregate wraps a tab's parsed diff together with its loaded
// sidecar documents and exposes the three query surfaces a reviewer's UI
// drives from: file-level risk, unified comment lookups across question,
// platform, and legacy sources, and the view/focus state machine that
// gates AI overlay rendering on review data actually being present.
package aggregate

import (
	"sort"
	"strings"

	"github.com/shhac/erview/internal/diffmodel"
	"github.com/shhac/erview/internal/sidecar"
)

// DiffMode selects which set of changes a tab is viewing.
type DiffMode int

const (
	Branch DiffMode = iota
	Unstaged
	Staged
)

func (m DiffMode) Label() string {
	switch m {
	case Branch:
		return "BRANCH DIFF"
	case Unstaged:
		return "UNSTAGED"
	case Staged:
		return "STAGED"
	default:
		return ""
	}
}

// GitMode is the value passed to the diffing collaborator's mode flag.
func (m DiffMode) GitMode() string {
	switch m {
	case Branch:
		return "branch"
	case Unstaged:
		return "unstaged"
	case Staged:
		return "staged"
	default:
		return ""
	}
}

// ViewMode is which AI-review rendering is active.
type ViewMode int

const (
	ModeDefault ViewMode = iota
	ModeOverlay
	ModeSidePanel
	ModeAiReview
)

func (m ViewMode) Label() string {
	switch m {
	case ModeDefault:
		return "DEFAULT"
	case ModeOverlay:
		return "AI OVERLAY"
	case ModeSidePanel:
		return "SIDE PANEL"
	case ModeAiReview:
		return "AI REVIEW"
	default:
		return ""
	}
}

func (m ViewMode) next() ViewMode {
	switch m {
	case ModeDefault:
		return ModeOverlay
	case ModeOverlay:
		return ModeSidePanel
	case ModeSidePanel:
		return ModeAiReview
	default:
		return ModeDefault
	}
}

func (m ViewMode) prev() ViewMode {
	switch m {
	case ModeDefault:
		return ModeAiReview
	case ModeOverlay:
		return ModeDefault
	case ModeSidePanel:
		return ModeOverlay
	default:
		return ModeSidePanel
	}
}

// ReviewFocus is which column has focus while ModeAiReview is active.
type ReviewFocus int

const (
	FocusFiles ReviewFocus = iota
	FocusChecklist
)

// VisibleFile pairs a file with its index in State.Files, preserving
// positional identity through search/reviewed-only filtering.
type VisibleFile struct {
	Index int
	File  *diffmodel.File
}

// RiskRow is one row of the file-risk overview, sorted worst-first.
type RiskRow struct {
	Path   string
	Review sidecar.FileReview
}

// State is a single tab's diff plus every sidecar document loaded
// against it. Callers populate the fields after parsing the diff and
// loading documents; State itself only queries and mutates in memory —
// persisting changes back to disk is the caller's job via internal/sidecar.
type State struct {
	Mode   DiffMode
	Files  []diffmodel.File

	SelectedFile int
	CurrentHunk  int
	DiffScroll   int
	HScroll      int

	SearchQuery        string
	Reviewed           map[string]bool
	ShowUnreviewedOnly bool

	Review     *sidecar.ReviewDocument
	Order      *sidecar.OrderDocument
	Checklist  *sidecar.ChecklistDocument
	Questions  *sidecar.QuestionsDocument
	Platform   *sidecar.PlatformCommentsDocument
	Legacy     *sidecar.FeedbackDocument
	Summary    string
	HasSummary bool

	// IsStale is true once any loaded document's diff hash no longer
	// matches the live diff; staleness is sticky across the whole load.
	IsStale bool
	// StaleFiles is the subset of Review.Files whose per-file hash has
	// moved on even though the whole document might still be fresh.
	StaleFiles map[string]bool

	ViewMode     ViewMode
	ReviewFocus  ReviewFocus
	ReviewCursor int
}

// NewState returns a State with its maps initialized, ready to accept a
// freshly parsed diff and loaded sidecar documents.
func NewState() *State {
	return &State{
		Reviewed:   make(map[string]bool),
		StaleFiles: make(map[string]bool),
	}
}

// IsFileStale reports whether path's findings are stale against the live diff.
func (s *State) IsFileStale(path string) bool {
	return s.StaleFiles[path]
}

// HasData reports whether any AI-generated data is loaded — review,
// order, checklist, or summary. Questions/platform/legacy comments are
// user data, not AI data, and don't count.
func (s *State) HasData() bool {
	return s.Review != nil || s.Order != nil || s.Checklist != nil || s.HasSummary
}

// OverlayAvailable reports whether a non-Default ViewMode may be entered.
func (s *State) OverlayAvailable() bool {
	return s.Review != nil
}

// CycleViewMode advances ViewMode, collapsing back to Default when review
// data isn't loaded rather than entering a mode with nothing to show.
func (s *State) CycleViewMode() {
	next := s.ViewMode.next()
	if !s.OverlayAvailable() && next != ModeDefault {
		s.ViewMode = ModeDefault
		return
	}
	s.ViewMode = next
}

// CycleViewModePrev is CycleViewMode's reverse.
func (s *State) CycleViewModePrev() {
	prev := s.ViewMode.prev()
	if !s.OverlayAvailable() && prev != ModeDefault {
		s.ViewMode = ModeDefault
		return
	}
	s.ViewMode = prev
}

// ── File-level risk ──

// FileReview returns the review findings stored for path, if any.
func (s *State) FileReview(path string) (sidecar.FileReview, bool) {
	if s.Review == nil {
		return sidecar.FileReview{}, false
	}
	fr, ok := s.Review.Files[path]
	return fr, ok
}

// FindingsForHunk returns path's findings positioned by hunk_index — the
// stable identity in branch-mode diffs, where hunk indices don't shift
// between the review run and the live diff.
func (s *State) FindingsForHunk(path string, hunkIndex int) []sidecar.Finding {
	fr, ok := s.FileReview(path)
	if !ok {
		return nil
	}
	var out []sidecar.Finding
	for _, f := range fr.Findings {
		if f.HunkIndex != nil && *f.HunkIndex == hunkIndex {
			out = append(out, f)
		}
	}
	return out
}

// FindingsForHunkByLineRange returns path's findings whose line_start
// falls within [newStart, newStart+newCount) — used in non-branch diff
// modes, where hunk_index from the review run no longer lines up.
func (s *State) FindingsForHunkByLineRange(path string, newStart, newCount int) []sidecar.Finding {
	fr, ok := s.FileReview(path)
	if !ok {
		return nil
	}
	var out []sidecar.Finding
	for _, f := range fr.Findings {
		if f.LineStart != nil && *f.LineStart >= newStart && *f.LineStart < newStart+newCount {
			out = append(out, f)
		}
	}
	return out
}

// SortedRiskFiles returns every reviewed file ordered High < Medium < Low
// < Info, path as tiebreaker — the order the file-risk overview renders in.
func (s *State) SortedRiskFiles() []RiskRow {
	if s.Review == nil {
		return nil
	}
	rows := make([]RiskRow, 0, len(s.Review.Files))
	for path, fr := range s.Review.Files {
		rows = append(rows, RiskRow{Path: path, Review: fr})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Review.Risk != rows[j].Review.Risk {
			return rows[i].Review.Risk < rows[j].Review.Risk
		}
		return rows[i].Path < rows[j].Path
	})
	return rows
}

// ── Unified comment queries ──

func hunkIndexMatches(p *int, want int) bool {
	return p != nil && *p == want
}

// CommentsForHunk returns every comment (including replies) anchored to
// path's hunk hunkIndex, drawn from questions and platform comments, and
// falling back to legacy comments only when neither source covers the hunk.
func (s *State) CommentsForHunk(path string, hunkIndex int) []sidecar.Comment {
	var result []sidecar.Comment
	if s.Questions != nil {
		for _, q := range s.Questions.Questions {
			if q.File == path && hunkIndexMatches(q.Pos.HunkIndex, hunkIndex) {
				result = append(result, q)
			}
		}
	}
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			if c.File == path && hunkIndexMatches(c.Pos.HunkIndex, hunkIndex) {
				result = append(result, c)
			}
		}
	}
	if len(result) == 0 && s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			if c.File == path && hunkIndexMatches(c.Pos.HunkIndex, hunkIndex) {
				result = append(result, c)
			}
		}
	}
	return result
}

// CommentsForLine returns top-level (non-reply) comments targeting a
// specific line within a hunk.
func (s *State) CommentsForLine(path string, hunkIndex, lineNum int) []sidecar.Comment {
	matches := func(filePath string, anchorHunk *int, anchorLine *int, inReplyTo string) bool {
		return filePath == path &&
			hunkIndexMatches(anchorHunk, hunkIndex) &&
			anchorLine != nil && *anchorLine == lineNum &&
			inReplyTo == ""
	}

	var result []sidecar.Comment
	if s.Questions != nil {
		for _, q := range s.Questions.Questions {
			if matches(q.File, q.Pos.HunkIndex, q.Pos.LineStart, q.InReplyTo()) {
				result = append(result, q)
			}
		}
	}
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			if matches(c.File, c.Pos.HunkIndex, c.Pos.LineStart, c.InReplyTo()) {
				result = append(result, c)
			}
		}
	}
	if len(result) == 0 && s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			if matches(c.File, c.Pos.HunkIndex, c.Pos.LineStart, c.InReplyTo()) {
				result = append(result, c)
			}
		}
	}
	return result
}

// CommentsForHunkOnly returns top-level comments attached to the hunk as
// a whole (no target line).
func (s *State) CommentsForHunkOnly(path string, hunkIndex int) []sidecar.Comment {
	matches := func(filePath string, anchorHunk *int, anchorLine *int, inReplyTo string) bool {
		return filePath == path &&
			hunkIndexMatches(anchorHunk, hunkIndex) &&
			anchorLine == nil &&
			inReplyTo == ""
	}

	var result []sidecar.Comment
	if s.Questions != nil {
		for _, q := range s.Questions.Questions {
			if matches(q.File, q.Pos.HunkIndex, q.Pos.LineStart, q.InReplyTo()) {
				result = append(result, q)
			}
		}
	}
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			if matches(c.File, c.Pos.HunkIndex, c.Pos.LineStart, c.InReplyTo()) {
				result = append(result, c)
			}
		}
	}
	if len(result) == 0 && s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			if matches(c.File, c.Pos.HunkIndex, c.Pos.LineStart, c.InReplyTo()) {
				result = append(result, c)
			}
		}
	}
	return result
}

// RepliesTo returns comments whose InReplyTo equals id. Questions never
// reply to anything, so only platform and legacy comments are searched.
func (s *State) RepliesTo(id string) []sidecar.Comment {
	var result []sidecar.Comment
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			if c.InReplyTo() == id {
				result = append(result, c)
			}
		}
	}
	if len(result) == 0 && s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			if c.InReplyTo() == id {
				result = append(result, c)
			}
		}
	}
	return result
}

// OrphanedReplies returns every reply-type comment (platform or legacy)
// whose InReplyTo id resolves to no known top-level comment — the hunk
// it replied to was deleted out from under it. These surface in a
// dedicated bucket rather than silently vanishing.
func (s *State) OrphanedReplies() []sidecar.Comment {
	known := make(map[string]bool)
	if s.Questions != nil {
		for _, q := range s.Questions.Questions {
			known[q.ID()] = true
		}
	}
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			known[c.ID()] = true
		}
	}
	if s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			known[c.ID()] = true
		}
	}

	var orphans []sidecar.Comment
	if s.Platform != nil {
		for _, c := range s.Platform.Comments {
			if c.InReplyTo() != "" && !known[c.InReplyTo()] {
				orphans = append(orphans, c)
			}
		}
	}
	if s.Legacy != nil {
		for _, c := range s.Legacy.Comments {
			if c.InReplyTo() != "" && !known[c.InReplyTo()] {
				orphans = append(orphans, c)
			}
		}
	}
	return orphans
}

// OrderedRow is one entry of the review file order, with its group label
// resolved if it belongs to one.
type OrderedRow struct {
	Path      string
	Reason    string
	GroupName string
	Group     sidecar.OrderGroup
	HasGroup  bool
}

// ReviewOrder returns the sidecar order document's file order with each
// entry's group resolved, in authored order (not sorted — order is the
// whole point of this document).
func (s *State) ReviewOrder() []OrderedRow {
	if s.Order == nil {
		return nil
	}
	rows := make([]OrderedRow, len(s.Order.Order))
	for i, e := range s.Order.Order {
		row := OrderedRow{Path: e.Path, Reason: e.Reason, GroupName: e.Group}
		if e.Group != "" {
			if g, ok := s.Order.Groups[e.Group]; ok {
				row.Group = g
				row.HasGroup = true
			}
		}
		rows[i] = row
	}
	return rows
}

// ── AI review navigation ──

// ReviewFileCount is the number of rows in the file-risk overview.
func (s *State) ReviewFileCount() int {
	if s.Review == nil {
		return 0
	}
	return len(s.Review.Files)
}

// ReviewChecklistCount is the number of checklist items.
func (s *State) ReviewChecklistCount() int {
	if s.Checklist == nil {
		return 0
	}
	return len(s.Checklist.Items)
}

func (s *State) reviewItemCount() int {
	if s.ReviewFocus == FocusChecklist {
		return s.ReviewChecklistCount()
	}
	return s.ReviewFileCount()
}

// ToggleReviewFocus swaps which column has focus and resets the cursor.
func (s *State) ToggleReviewFocus() {
	if s.ReviewFocus == FocusFiles {
		s.ReviewFocus = FocusChecklist
	} else {
		s.ReviewFocus = FocusFiles
	}
	s.ReviewCursor = 0
}

// ReviewNext moves the cursor down, saturating at item_count - 1.
func (s *State) ReviewNext() {
	count := s.reviewItemCount()
	if count > 0 && s.ReviewCursor+1 < count {
		s.ReviewCursor++
	}
}

// ReviewPrev moves the cursor up, saturating at 0.
func (s *State) ReviewPrev() {
	if s.ReviewCursor > 0 {
		s.ReviewCursor--
	}
}

// ToggleChecklistItem flips the Checked field of the item with the given
// ID in place, reporting whether it was found.
func (s *State) ToggleChecklistItem(id string) bool {
	if s.Checklist == nil {
		return false
	}
	for i := range s.Checklist.Items {
		if s.Checklist.Items[i].ID == id {
			s.Checklist.Items[i].Checked = !s.Checklist.Items[i].Checked
			return true
		}
	}
	return false
}

// ── File/hunk navigation ──

// VisibleFiles returns the files that survive the search query and the
// show-unreviewed-only toggle, preserving each file's original index.
func (s *State) VisibleFiles() []VisibleFile {
	q := strings.ToLower(s.SearchQuery)
	var visible []VisibleFile
	for i := range s.Files {
		f := &s.Files[i]
		if q != "" && !strings.Contains(strings.ToLower(f.Path), q) {
			continue
		}
		if s.ShowUnreviewedOnly && s.Reviewed[f.Path] {
			continue
		}
		visible = append(visible, VisibleFile{Index: i, File: f})
	}
	return visible
}

// SelectedDiffFile returns the file currently selected, if any.
func (s *State) SelectedDiffFile() *diffmodel.File {
	if s.SelectedFile < 0 || s.SelectedFile >= len(s.Files) {
		return nil
	}
	return &s.Files[s.SelectedFile]
}

// TotalHunks is the hunk count of the currently selected file.
func (s *State) TotalHunks() int {
	f := s.SelectedDiffFile()
	if f == nil {
		return 0
	}
	return len(f.Hunks)
}

func (s *State) resetCursor() {
	s.CurrentHunk = 0
	s.DiffScroll = 0
	s.HScroll = 0
}

// SnapToVisible moves the selection to the first visible file when the
// current selection has been filtered out.
func (s *State) SnapToVisible() {
	visible := s.VisibleFiles()
	if len(visible) == 0 {
		return
	}
	for _, v := range visible {
		if v.Index == s.SelectedFile {
			return
		}
	}
	s.SelectedFile = visible[0].Index
	s.resetCursor()
}

// NextFile moves the selection to the next visible file.
func (s *State) NextFile() {
	visible := s.VisibleFiles()
	if len(visible) == 0 {
		return
	}
	pos := -1
	for i, v := range visible {
		if v.Index == s.SelectedFile {
			pos = i
			break
		}
	}
	if pos == -1 {
		s.SelectedFile = visible[0].Index
		s.resetCursor()
		return
	}
	if pos+1 < len(visible) {
		s.SelectedFile = visible[pos+1].Index
		s.resetCursor()
	}
}

// PrevFile moves the selection to the previous visible file.
func (s *State) PrevFile() {
	visible := s.VisibleFiles()
	if len(visible) == 0 {
		return
	}
	pos := -1
	for i, v := range visible {
		if v.Index == s.SelectedFile {
			pos = i
			break
		}
	}
	if pos == -1 {
		s.SelectedFile = visible[0].Index
		s.resetCursor()
		return
	}
	if pos > 0 {
		s.SelectedFile = visible[pos-1].Index
		s.resetCursor()
	}
}

// NextHunk advances the current hunk within the selected file.
func (s *State) NextHunk() {
	total := s.TotalHunks()
	if total > 0 && s.CurrentHunk < total-1 {
		s.CurrentHunk++
	}
}

// PrevHunk retreats the current hunk within the selected file.
func (s *State) PrevHunk() {
	if s.CurrentHunk > 0 {
		s.CurrentHunk--
	}
}
