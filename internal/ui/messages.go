package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shhac/erview/internal/claude"
	"github.com/shhac/erview/internal/github"
)

// -- GitHub client lifecycle --

// GHClientReadyMsg is sent when the GitHub client has been created successfully.
type GHClientReadyMsg struct {
	Client GitHubService
}

// GHClientErrorMsg is sent when the GitHub client fails to initialize.
type GHClientErrorMsg struct {
	Err error
}

// -- PR list data --

// PRsLoadedMsg is sent when PR data has been fetched successfully.
type PRsLoadedMsg struct {
	ToReview []github.PRItem
	MyPRs    []github.PRItem
}

// PRsErrorMsg is sent when PR fetching fails.
type PRsErrorMsg struct {
	Err error
}

// -- PR selection --

// PRSelectedMsg is sent when the user selects a PR.
type PRSelectedMsg struct {
	Owner   string
	Repo    string
	Number  int
	HTMLURL string
}

// PRSelectedAndAdvanceMsg is sent when ENTER selects a PR and should advance focus to the diff viewer.
type PRSelectedAndAdvanceMsg struct {
	Owner   string
	Repo    string
	Number  int
	HTMLURL string
}

// Session tracks the currently selected PR's metadata and in-flight
// AI/chat state for global actions. A nil *Session means no PR is selected.
type Session struct {
	Owner   string
	Repo    string
	Number  int
	Title   string
	HTMLURL string

	DiffFiles             []github.PRFile
	PendingInlineComments []PendingInlineComment

	StreamChan   chatStreamChan
	StreamCancel context.CancelFunc

	Analyzing        bool
	AnalysisStreamCh analysisStreamChan
}

// MatchesPR reports whether this session is currently displaying the given
// PR number. A nil session never matches, guarding against stale async
// results arriving after the user has switched PRs.
func (s *Session) MatchesPR(prNumber int) bool {
	return s != nil && s.Number == prNumber
}

// -- Diff / PR detail --

// DiffLoadedMsg is sent when PR diff data has been fetched.
type DiffLoadedMsg struct {
	PRNumber int
	Files    []github.PRFile
	Err      error
}

// PRDetailLoadedMsg is sent when PR detail data has been fetched.
type PRDetailLoadedMsg struct {
	PRNumber int
	Detail   *github.PRDetail
	Err      error
}

// -- Comments --

// CommentsLoadedMsg is sent when PR comments have been fetched.
type CommentsLoadedMsg struct {
	PRNumber       int
	Comments       []github.Comment
	InlineComments []github.InlineComment
	Err            error
}

// -- CI & reviews --

// CIStatusLoadedMsg is sent when CI check status has been fetched.
type CIStatusLoadedMsg struct {
	PRNumber int
	Status   *github.CIStatus
	Err      error
}

// ReviewsLoadedMsg is sent when review status has been fetched.
type ReviewsLoadedMsg struct {
	PRNumber int
	Summary  *github.ReviewSummary
	Err      error
}

// -- Claude analysis --

// AnalysisCompleteMsg is sent when Claude analysis finishes successfully.
type AnalysisCompleteMsg struct {
	PRNumber int
	DiffHash string
	Result   *claude.AnalysisResult
}

// AnalysisErrorMsg is sent when Claude analysis fails.
type AnalysisErrorMsg struct {
	Err error
}

// -- PR actions --

// PRApproveDoneMsg is sent when PR approval succeeds.
type PRApproveDoneMsg struct {
	PRNumber int
}

// PRApproveErrMsg is sent when PR approval fails.
type PRApproveErrMsg struct {
	PRNumber int
	Err      error
}

// PRCloseDoneMsg is sent when PR close succeeds.
type PRCloseDoneMsg struct {
	PRNumber int
}

// PRCloseErrMsg is sent when PR close fails.
type PRCloseErrMsg struct {
	PRNumber int
	Err      error
}

// -- Review submission --

// ReviewAction represents the type of PR review to submit.
type ReviewAction int

const (
	ReviewApprove        ReviewAction = iota
	ReviewComment
	ReviewRequestChanges
)

// ReviewSubmitMsg is emitted by the chat panel when the user submits a review.
type ReviewSubmitMsg struct {
	Action ReviewAction
	Body   string
}

// ReviewSubmitDoneMsg is sent when review submission succeeds.
type ReviewSubmitDoneMsg struct {
	PRNumber int
	Action   ReviewAction
}

// ReviewSubmitErrMsg is sent when review submission fails.
type ReviewSubmitErrMsg struct {
	PRNumber int
	Err      error
}

// -- Chat panel --

// ModeChangedMsg is sent when the chat panel changes modes.
type ModeChangedMsg struct {
	Mode ChatMode
}

// ChatClearMsg is emitted when the user wants to start a new chat.
type ChatClearMsg struct{}

// ChatSendMsg is emitted when the user sends a chat message.
type ChatSendMsg struct {
	Message string
}

// ChatResponseMsg is sent when Claude responds to a chat message.
type ChatResponseMsg struct {
	Content string
	Err     error
}

// ChatStreamChunkMsg carries a streaming text chunk from Claude.
type ChatStreamChunkMsg struct {
	Content string
}

// CommentPostMsg is emitted when the user wants to post a PR comment.
type CommentPostMsg struct {
	Body string
}

// CommentPostedMsg is sent after a comment has been posted (or failed).
type CommentPostedMsg struct {
	Err error
}

// -- Navigation --

// HunkSelectedAndAdvanceMsg is sent when ENTER selects a hunk and should advance focus to the chat panel.
type HunkSelectedAndAdvanceMsg struct{}

// HelpClosedMsg is sent when the help overlay is dismissed.
type HelpClosedMsg struct{}

// -- Internal streaming --

// chatStreamChan carries streaming chunks and the final response from Claude chat.
type chatStreamChan chan tea.Msg

// analysisStreamChan carries streaming chunks from a full AI analysis run.
type analysisStreamChan chan tea.Msg

// -- Background polling --

// pollTickMsg fires on the background PR-polling interval.
type pollTickMsg struct{}

// pollErrorMsg is sent when a background poll fails. Errors are otherwise
// silent — the next tick retries — except this one is surfaced to the
// status bar.
type pollErrorMsg struct {
	Err error
}

// pollPRsLoadedMsg is sent when a background poll successfully refreshes
// PR data; unlike PRsLoadedMsg it merges into the existing list rather
// than replacing it, so cursor position and scroll are preserved.
type pollPRsLoadedMsg struct {
	ToReview []github.PRItem
	MyPRs    []github.PRItem
}

// PRReviewDecisionsMsg carries review decisions keyed by prKey(owner, repo, number).
type PRReviewDecisionsMsg struct {
	Decisions map[string]string
}

// watchChangedMsg fires when the local filesystem watcher observes a
// debounced change under the repo root (e.g. a checkout switching branches
// or a rebase landing mid-review).
type watchChangedMsg struct{}

// PRRefreshMsg is emitted when the user requests a manual PR list refresh.
type PRRefreshMsg struct{}

// -- CI re-run --

// CIRerunRequestMsg is emitted when the user requests re-running failed CI checks.
type CIRerunRequestMsg struct{}

// CIRerunDoneMsg is sent when failed workflows have been re-triggered.
type CIRerunDoneMsg struct {
	PRNumber int
	Count    int
}

// CIRerunErrMsg is sent when re-triggering failed workflows fails.
type CIRerunErrMsg struct {
	PRNumber int
	Err      error
}

// -- AI review generation --

// AIReviewCompleteMsg is sent when Claude finishes generating an AI review with inline comments.
type AIReviewCompleteMsg struct {
	PRNumber int
	Result   *claude.ReviewAnalysis
}

// AIReviewErrorMsg is sent when AI review generation fails.
type AIReviewErrorMsg struct {
	PRNumber int
	Err      error
}

// AnalysisStreamChunkMsg carries a streaming text chunk from a full AI analysis run.
type AnalysisStreamChunkMsg struct {
	Content string
}

// -- Inline comment lifecycle --

// InlineCommentAddMsg is emitted when the user adds a pending inline comment
// (from the comment overlay or the diff viewer's inline comment prompt).
type InlineCommentAddMsg struct {
	Path      string
	Line      int
	StartLine int
	Body      string
	Source    string
}

// InlineCommentReplyMsg is emitted when the user replies to an existing GitHub comment thread.
type InlineCommentReplyMsg struct {
	CommentID int64
	Body      string
}

// InlineCommentReplyDoneMsg is sent when a reply has been posted (or failed).
type InlineCommentReplyDoneMsg struct {
	Err error
}

// -- Review flow validation --

// ReviewValidationMsg surfaces a validation message (e.g. "no comments to submit") to the status bar.
type ReviewValidationMsg struct {
	Message string
}

// -- Overlay / mode lifecycle --

// SettingsClosedMsg is sent when the settings overlay is dismissed.
type SettingsClosedMsg struct{}

// ShowCommentOverlayMsg opens the comment overlay for a given diff location.
type ShowCommentOverlayMsg struct {
	Path            string
	Line            int
	StartLine       int
	GHThreads       []ghCommentThread
	AIComments      []claude.InlineReviewComment
	PendingComments []PendingInlineComment
	DiffLines       []string
	TargetLineInCtx int
}

// CommentOverlayClosedMsg is sent when the comment overlay is dismissed.
type CommentOverlayClosedMsg struct{}

// ConfigChangedMsg is emitted when the settings overlay is closed with dirty changes to apply.
type ConfigChangedMsg struct{}

// CommandExecuteMsg is emitted when the user submits a recognized command in command mode.
type CommandExecuteMsg struct {
	Name string
}

// CommandModeExitMsg is sent when command mode is cancelled without executing anything.
type CommandModeExitMsg struct{}

// CommandNotFoundMsg is sent when the user submits an unrecognized command.
type CommandNotFoundMsg struct {
	Input string
}
