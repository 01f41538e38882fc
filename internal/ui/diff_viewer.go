package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/shhac/erview/internal/claude"
	"github.com/shhac/erview/internal/github"
)

// DiffViewerModel manages the diff panel: a scrollable, cursor-addressable
// rendering of the current review target's hunks, with inline comment
// boxes, multi-line selection for range comments, and incremental search.
type DiffViewerModel struct {
	viewport  viewport.Model
	spinner   spinner.Model
	activeTab DiffViewerTab
	width     int
	height    int
	focused   bool
	ready     bool

	// Diff data
	files       []github.PRFile
	fileOffsets []int // viewport line index where each file header starts
	loading     bool
	err         error

	// PR metadata — populated only when the diff source is a hosted PR
	// rather than a local branch/worktree diff.
	prNumber      int
	prTitle       string
	prBody        string
	prAuthor      string
	prURL         string
	prInfoErr     string
	ciStatus      *github.CIStatus
	ciError       string
	reviewSummary *github.ReviewSummary
	reviewError   string

	// Hunk navigation and selection
	hunks          []DiffHunk   // all parsed hunks across all files
	hunkOffsets    []int        // viewport line offset where each hunk starts
	focusedHunkIdx int          // explicitly tracked focused hunk
	selectedHunks  map[int]bool // hunk index → selected

	// Cached rendering — avoids re-parsing and re-styling on every scroll.
	// On scroll, only the old and new focused hunks are re-rendered (O(hunk_size)
	// lipgloss calls instead of O(total_lines)).
	cachedLines       []string     // per-line styled output (nil = needs full rebuild)
	cachedLineInfo    []lineInfo   // parallel to cachedLines — what each viewport line represents
	hunkLineRanges    [][2]int     // [start, end) line indices in cachedLines per hunk
	lastRenderedFocus int          // focusedHunkIdx at last cache update
	dirtyHunks        map[int]bool // hunk indices needing re-render in cache

	// Line-level cursor for precise inline comment targeting.
	// cursorLine indexes into cachedLines and cachedLineInfo.
	cursorLine int

	// Multi-line selection (visual mode) for range comments.
	// selectionAnchor is the cachedLineInfo index where selection started.
	// -1 means no active selection.
	selectionAnchor int

	// AI inline comment state
	aiInlineComments     []claude.InlineReviewComment
	aiCommentsByFileLine map[string][]claude.InlineReviewComment // "path:line" → comments

	// GitHub inline comment state
	ghCommentThreads map[string][]ghCommentThread // "path:line" → threaded comments

	// Pending inline comment state (user + AI drafts)
	pendingCommentsByFileLine map[string][]PendingInlineComment // "path:line" → comments

	// Comment input mode
	commentMode            bool
	commentInput           textinput.Model
	commentTargetFile      string
	commentTargetLine      int
	commentTargetStartLine int // non-zero for multi-line range comments

	// Search state
	searchMode          bool
	searchInput         textinput.Model
	searchTerm          string
	searchMatches       []searchMatch
	searchMatchIdx      int
	searchMatchesByHunk map[int]map[int][]matchPos // hunkIdx → lineInHunk → match positions

	// Glamour markdown renderer (cached per width), shared by comment boxes.
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

func NewDiffViewerModel() DiffViewerModel {
	si := textinput.New()
	si.Prompt = ""
	si.CharLimit = 100

	ci := textinput.New()
	ci.Prompt = ""
	ci.CharLimit = 500

	return DiffViewerModel{
		spinner:         newLoadingSpinner(),
		searchInput:     si,
		commentInput:    ci,
		selectionAnchor: -1,
	}
}

func (m DiffViewerModel) Update(msg tea.Msg) (DiffViewerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}

		if m.commentMode {
			return m.handleCommentModeKey(msg)
		}

		if m.searchMode {
			return m.handleSearchModeKey(msg)
		}

		// Active search (not typing): n/N navigate matches, Esc clears
		if m.searchTerm != "" {
			switch {
			case key.Matches(msg, DiffViewerKeys.NextHunk):
				if len(m.searchMatches) > 0 {
					m.searchMatchIdx = (m.searchMatchIdx + 1) % len(m.searchMatches)
					m.scrollToCurrentMatch()
					m.cachedLines = nil
					m.refreshContent()
				}
				return m, nil
			case key.Matches(msg, DiffViewerKeys.PrevHunk):
				if len(m.searchMatches) > 0 {
					m.searchMatchIdx = (m.searchMatchIdx - 1 + len(m.searchMatches)) % len(m.searchMatches)
					m.scrollToCurrentMatch()
					m.cachedLines = nil
					m.refreshContent()
				}
				return m, nil
			}
			if msg.String() == "esc" {
				m.clearSearch()
				m.cachedLines = nil
				m.refreshContent()
				return m, nil
			}
		}

		// "/" enters search mode
		if key.Matches(msg, DiffViewerKeys.Search) {
			m.searchMode = true
			m.searchInput.SetValue(m.searchTerm)
			m.searchInput.CursorEnd()
			cmd := m.searchInput.Focus()
			m.refreshContent()
			return m, cmd
		}

		switch {
		case key.Matches(msg, DiffViewerKeys.NextHunk):
			if len(m.hunks) > 0 {
				m.cancelSelection()
				if m.focusedHunkIdx < len(m.hunks)-1 {
					m.focusedHunkIdx++
				}
				m.scrollToFocusedHunk()
				m.syncCursorToFocusedHunk()
				m.refreshContent()
			}
			return m, nil
		case key.Matches(msg, DiffViewerKeys.PrevHunk):
			if len(m.hunks) > 0 {
				m.cancelSelection()
				if m.focusedHunkIdx > 0 {
					m.focusedHunkIdx--
				}
				m.scrollToFocusedHunk()
				m.syncCursorToFocusedHunk()
				m.refreshContent()
			}
			return m, nil
		case key.Matches(msg, DiffViewerKeys.HalfDown):
			m.cancelSelection()
			m.viewport.HalfViewDown()
			m.syncFocusToScroll()
			m.syncCursorToScroll()
			m.refreshContent()
			return m, nil
		case key.Matches(msg, DiffViewerKeys.HalfUp):
			m.cancelSelection()
			m.viewport.HalfViewUp()
			m.syncFocusToScroll()
			m.syncCursorToScroll()
			m.refreshContent()
			return m, nil
		case key.Matches(msg, DiffViewerKeys.Top):
			m.cancelSelection()
			m.viewport.GotoTop()
			m.syncFocusToScroll()
			m.syncCursorToScroll()
			m.refreshContent()
			return m, nil
		case key.Matches(msg, DiffViewerKeys.Bottom):
			m.cancelSelection()
			m.viewport.GotoBottom()
			m.syncFocusToScroll()
			m.syncCursorToScroll()
			m.refreshContent()
			return m, nil
		case key.Matches(msg, DiffViewerKeys.SelectDown):
			if len(m.cachedLineInfo) > 0 {
				m.extendSelection(1)
				m.refreshContent()
			}
			return m, nil
		case key.Matches(msg, DiffViewerKeys.SelectUp):
			if len(m.cachedLineInfo) > 0 {
				m.extendSelection(-1)
				m.refreshContent()
			}
			return m, nil
		case key.Matches(msg, DiffViewerKeys.Down):
			if len(m.cachedLineInfo) > 0 {
				m.cancelSelection()
				m.moveCursor(1)
				m.refreshContent()
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.refreshContent()
			return m, cmd
		case key.Matches(msg, DiffViewerKeys.Up):
			if len(m.cachedLineInfo) > 0 {
				m.cancelSelection()
				m.moveCursor(-1)
				m.refreshContent()
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			m.refreshContent()
			return m, cmd
		case key.Matches(msg, DiffViewerKeys.SelectHunkAndAdvance):
			if len(m.hunks) > 0 {
				m.toggleFocusedHunk()
				return m, func() tea.Msg { return HunkSelectedAndAdvanceMsg{} }
			}
		case key.Matches(msg, DiffViewerKeys.SelectHunk):
			if len(m.hunks) > 0 {
				m.toggleFocusedHunk()
				return m, nil
			}
		case key.Matches(msg, DiffViewerKeys.SelectFileHunks):
			if len(m.hunks) > 0 {
				m.toggleFileHunks()
			}
			return m, nil
		case key.Matches(msg, DiffViewerKeys.ClearSelection):
			if len(m.selectedHunks) > 0 {
				for idx := range m.selectedHunks {
					m.markHunkDirty(idx)
				}
				m.selectedHunks = nil
				m.refreshContent()
			}
			return m, nil
		}

		// "c" opens comment overlay
		if len(m.hunks) > 0 && msg.String() == "c" {
			overlayMsg := m.buildCommentOverlayMsg()
			if overlayMsg != nil {
				return m, func() tea.Msg { return *overlayMsg }
			}
		}

		if key.Matches(msg, DiffViewerKeys.RerunCI) {
			return m, func() tea.Msg { return CIRerunRequestMsg{} }
		}
	}

	var cmd tea.Cmd
	oldFocus := m.focusedHunkIdx
	m.viewport, cmd = m.viewport.Update(msg)
	m.syncFocusToScroll()
	if m.focusedHunkIdx != oldFocus {
		m.syncCursorToScroll()
		m.refreshContent()
	}
	return m, cmd
}

// toggleFocusedHunk flips selection on the currently focused hunk.
func (m *DiffViewerModel) toggleFocusedHunk() {
	idx := m.focusedHunkIdx
	if idx < 0 || idx >= len(m.hunks) {
		return
	}
	if m.selectedHunks == nil {
		m.selectedHunks = make(map[int]bool)
	}
	if m.selectedHunks[idx] {
		delete(m.selectedHunks, idx)
	} else {
		m.selectedHunks[idx] = true
	}
	m.markHunkDirty(idx)
	m.refreshContent()
}

// toggleFileHunks selects or deselects every hunk belonging to the focused
// hunk's file, matching the current all-selected state of that file.
func (m *DiffViewerModel) toggleFileHunks() {
	idx := m.focusedHunkIdx
	if idx < 0 || idx >= len(m.hunks) {
		return
	}
	if m.selectedHunks == nil {
		m.selectedHunks = make(map[int]bool)
	}
	fileIdx := m.hunks[idx].FileIndex
	allSelected := true
	for j, h := range m.hunks {
		if h.FileIndex == fileIdx && !m.selectedHunks[j] {
			allSelected = false
			break
		}
	}
	for j, h := range m.hunks {
		if h.FileIndex == fileIdx {
			if allSelected {
				delete(m.selectedHunks, j)
			} else {
				m.selectedHunks[j] = true
			}
			m.markHunkDirty(j)
		}
	}
	m.refreshContent()
}

func (m *DiffViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Account for borders (2), padding (2), and scrollbar gutter (1)
	innerWidth := width - 5
	innerHeight := height - 5
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(innerWidth, innerHeight)
		m.ready = true
	} else {
		m.viewport.Width = innerWidth
		m.viewport.Height = innerHeight
	}
	m.cachedLines = nil // width change invalidates styled cache
	m.cachedLineInfo = nil
	m.refreshContent()
}

func (m *DiffViewerModel) SetFocused(focused bool) {
	m.focused = focused
}

// SetLoading puts the viewer into a loading state for the given PR. The
// PR number is retained so that late-arriving async results for a
// previously selected PR (DiffLoadedMsg, PRDetailLoadedMsg, ...) can be
// detected and dropped.
func (m *DiffViewerModel) SetLoading(prNumber int) {
	m.loading = true
	m.prNumber = prNumber
	m.prTitle = ""
	m.prBody = ""
	m.prAuthor = ""
	m.prURL = ""
	m.prInfoErr = ""
	m.ciStatus = nil
	m.ciError = ""
	m.reviewSummary = nil
	m.reviewError = ""
	m.files = nil
	m.fileOffsets = nil
	m.hunks = nil
	m.hunkOffsets = nil
	m.focusedHunkIdx = 0
	m.cursorLine = 0
	m.selectionAnchor = -1
	m.selectedHunks = nil
	m.cachedLines = nil
	m.cachedLineInfo = nil
	m.hunkLineRanges = nil
	m.lastRenderedFocus = 0
	m.dirtyHunks = nil
	m.clearSearch()
	m.commentMode = false
	m.commentInput.SetValue("")
	m.commentInput.Blur()
	m.aiInlineComments = nil
	m.aiCommentsByFileLine = nil
	m.ghCommentThreads = nil
	m.pendingCommentsByFileLine = nil
	m.err = nil
	m.refreshContent()
}

// SetDiff displays the parsed diff files.
func (m *DiffViewerModel) SetDiff(files []github.PRFile) {
	m.loading = false
	m.files = files
	m.err = nil
	m.focusedHunkIdx = 0
	m.cursorLine = 0
	m.selectionAnchor = -1
	m.selectedHunks = nil
	m.clearSearch()
	m.parseAllHunks()
	m.cachedLines = nil
	m.cachedLineInfo = nil
	m.refreshContent()
	m.viewport.GotoTop()
}

// SetError displays an error message in place of diff content.
func (m *DiffViewerModel) SetError(err error) {
	m.loading = false
	m.err = err
	m.files = nil
	m.fileOffsets = nil
	m.cachedLines = nil
	m.cachedLineInfo = nil
	m.refreshContent()
}

func (m *DiffViewerModel) refreshContent() {
	if !m.ready {
		return
	}

	// Adjust viewport height for search bar / comment bar
	innerHeight := m.height - 5
	if m.searchBarVisible() {
		innerHeight--
	}
	if m.commentMode {
		innerHeight--
	}
	if innerHeight < 1 {
		innerHeight = 1
	}
	m.viewport.Height = innerHeight

	if m.loading {
		m.viewport.SetContent(
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Padding(1, 2).
				Render(m.spinner.View() + " Loading diff..."),
		)
		return
	}
	if m.err != nil {
		m.viewport.SetContent(renderErrorWithHint(
			formatUserError(fmt.Sprintf("%v", m.err)),
			"Press r to refresh",
		))
		return
	}
	if m.files != nil {
		if m.cachedLines == nil {
			// Full rebuild needed (new diff, resize, etc.)
			m.buildCachedLines()
		} else {
			// Incremental update: only re-render hunks whose visual state changed
			if m.focusedHunkIdx != m.lastRenderedFocus {
				m.markHunkDirty(m.lastRenderedFocus)
				m.markHunkDirty(m.focusedHunkIdx)
				m.lastRenderedFocus = m.focusedHunkIdx
			}
			for idx := range m.dirtyHunks {
				m.rerenderHunkInCache(idx)
			}
			m.dirtyHunks = nil
			// If a rerender invalidated the cache (e.g. inline comments changed
			// line counts), do the full rebuild now.
			if m.cachedLines == nil {
				m.buildCachedLines()
			}
		}
		m.viewport.SetContent(strings.Join(m.cachedLines, "\n"))
		return
	}
	m.viewport.SetContent(renderEmptyState("No diff loaded", "Press r to refresh"))
}

func (m DiffViewerModel) View() string {
	header := m.renderTabs()

	var content string
	if m.ready {
		content = m.viewport.View()
		// Attach vertical scrollbar column to the right edge of viewport content
		if m.viewport.TotalLineCount() > m.viewport.Height {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.renderScrollbar())
		} else {
			// Reserve the scrollbar column space even when not scrollable
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, strings.Repeat(" \n", m.viewport.Height-1)+" ")
		}
	} else {
		content = "Loading..."
	}

	innerWidth := m.width - 4 // viewport + scrollbar column
	parts := []string{header, content}
	if indicator := scrollIndicator(m.viewport, innerWidth); indicator != "" {
		parts = append(parts, indicator)
	}

	if m.searchMode {
		parts = append(parts, m.renderSearchBar())
	} else if m.searchTerm != "" {
		parts = append(parts, m.renderSearchInfo())
	}

	if m.commentMode {
		parts = append(parts, m.renderCommentBar())
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, parts...)
	style := panelStyle(m.focused, false, m.width-2, m.height-2)
	return style.Render(inner)
}

// renderScrollbar builds a 1-char-wide vertical scrollbar column with comment markers.
// Each row maps proportionally to the total content; the thumb shows the visible portion
// and colored markers indicate where inline comments live.
func (m DiffViewerModel) renderScrollbar() string {
	height := m.viewport.Height
	totalLines := m.viewport.TotalLineCount()
	if totalLines <= 0 || height <= 0 {
		return strings.Repeat(" \n", height-1) + " "
	}

	// Thumb position and size
	thumbSize := max(1, height*height/totalLines)
	thumbStart := m.viewport.YOffset * height / totalLines
	if thumbStart+thumbSize > height {
		thumbStart = height - thumbSize
	}

	// Collect comment marker positions in scrollbar space.
	// Track the highest-priority comment kind per scrollbar row.
	commentMarkers := make([]commentKind, height)
	if m.cachedLineInfo != nil {
		for i, info := range m.cachedLineInfo {
			if info.comment == commentNone {
				continue
			}
			row := i * height / totalLines
			if row >= height {
				row = height - 1
			}
			// Priority: pending > GitHub > AI (higher commentKind value wins)
			if info.comment > commentMarkers[row] {
				commentMarkers[row] = info.comment
			}
		}
	}

	// Render each scrollbar row
	rows := make([]string, height)
	for i := 0; i < height; i++ {
		inThumb := i >= thumbStart && i < thumbStart+thumbSize
		marker := commentMarkers[i]

		switch {
		case inThumb && marker != commentNone:
			rows[i] = scrollbarCommentStyle(marker).Render("┃")
		case inThumb:
			rows[i] = scrollbarThumbStyle.Render("┃")
		case marker != commentNone:
			rows[i] = scrollbarCommentStyle(marker).Render("●")
		default:
			rows[i] = scrollbarTrackStyle.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}

func (m DiffViewerModel) renderTabs() string {
	label := "Diff"
	if m.files != nil {
		label = fmt.Sprintf("Diff (%d files)", len(m.files))
	}
	if len(m.selectedHunks) > 0 {
		label += fmt.Sprintf(" [%d/%d hunks]", len(m.selectedHunks), len(m.hunks))
	}
	header := activeTabStyle().Render(label)
	if banner := m.renderPRBanner(); banner != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, banner)
	}
	return header
}

// renderPRBanner summarizes PR title, CI status, and review decision above
// the diff content when the diff source is a hosted PR. Returns "" for a
// plain local-branch diff.
func (m DiffViewerModel) renderPRBanner() string {
	if m.prNumber == 0 {
		return ""
	}
	var parts []string
	switch {
	case m.prInfoErr != "":
		parts = append(parts, formatUserError(m.prInfoErr))
	case m.prTitle != "":
		parts = append(parts, fmt.Sprintf("#%d %s (@%s)", m.prNumber, m.prTitle, m.prAuthor))
	}
	if m.ciError != "" {
		parts = append(parts, "CI: "+formatUserError(m.ciError))
	} else if m.ciStatus != nil {
		parts = append(parts, fmt.Sprintf("CI: %s (%s)", ciStatusLabel(m.ciStatus.OverallStatus), ciPassingCount(m.ciStatus)))
	}
	if m.reviewError != "" {
		parts = append(parts, "Review: "+formatUserError(m.reviewError))
	} else if m.reviewSummary != nil && m.reviewSummary.ReviewDecision != "" {
		parts = append(parts, "Review: "+reviewDecisionLabel(m.reviewSummary.ReviewDecision))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(strings.Join(parts, " · "))
}

// SetPRInfo records hosted-PR metadata (title, body, author, URL) fetched
// alongside the diff.
func (m *DiffViewerModel) SetPRInfo(title, body, author, url string) {
	m.prTitle = title
	m.prBody = body
	m.prAuthor = author
	m.prURL = url
	m.prInfoErr = ""
}

// SetPRInfoError records a failure to fetch hosted-PR metadata.
func (m *DiffViewerModel) SetPRInfoError(err string) {
	m.prInfoErr = err
}

// SetCIStatus records the latest CI check status for the selected PR.
func (m *DiffViewerModel) SetCIStatus(status *github.CIStatus) {
	m.ciStatus = status
	m.ciError = ""
}

// SetCIError records a failure to fetch CI status.
func (m *DiffViewerModel) SetCIError(err string) {
	m.ciError = err
}

// SetReviewSummary records the latest review decision summary for the selected PR.
func (m *DiffViewerModel) SetReviewSummary(summary *github.ReviewSummary) {
	m.reviewSummary = summary
	m.reviewError = ""
}

// SetReviewError records a failure to fetch the review summary.
func (m *DiffViewerModel) SetReviewError(err string) {
	m.reviewError = err
}

// ciStatusLabel renders a human label for a CI overall status string.
func ciStatusLabel(status string) string {
	switch status {
	case "passing":
		return "passing"
	case "failing":
		return "failing"
	case "pending":
		return "running"
	case "mixed":
		return "mixed"
	default:
		return "none"
	}
}

// ciPassingCount summarizes N/M passing checks for the banner.
func ciPassingCount(status *github.CIStatus) string {
	passing := 0
	for _, c := range status.Checks {
		if c.Conclusion == "success" {
			passing++
		}
	}
	return fmt.Sprintf("%d/%d", passing, len(status.Checks))
}

// reviewDecisionLabel renders a human label for a GitHub review decision.
func reviewDecisionLabel(decision string) string {
	switch decision {
	case "APPROVED":
		return "approved"
	case "CHANGES_REQUESTED":
		return "changes requested"
	case "REVIEW_REQUIRED":
		return "review required"
	default:
		return strings.ToLower(decision)
	}
}

// getOrCreateRenderer returns a cached glamour renderer for the given width,
// creating a new one only when the width changes.
func (m *DiffViewerModel) getOrCreateRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

// renderMarkdown renders markdown text with glamour for terminal display.
// Falls back to plain wordWrap if glamour fails.
func (m *DiffViewerModel) renderMarkdown(markdown string, width int) string {
	if width < 10 {
		width = 10
	}
	r := m.getOrCreateRenderer(width)
	if r == nil {
		return wordWrap(markdown, width)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return wordWrap(markdown, width)
	}
	return strings.TrimSpace(out)
}

// GetSelectedHunkContent returns formatted diff content for only the selected hunks.
// Returns empty string if no hunks are selected.
func (m DiffViewerModel) GetSelectedHunkContent() string {
	if len(m.selectedHunks) == 0 {
		return ""
	}

	var b strings.Builder
	lastFileIdx := -1

	for i, hunk := range m.hunks {
		if !m.selectedHunks[i] {
			continue
		}

		if hunk.FileIndex != lastFileIdx {
			if lastFileIdx >= 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("--- a/%s\n", hunk.Filename))
			b.WriteString(fmt.Sprintf("+++ b/%s\n", hunk.Filename))
			lastFileIdx = hunk.FileIndex
		}

		for _, line := range hunk.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}
