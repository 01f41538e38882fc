package ui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shhac/erview/internal/claude"
	"github.com/shhac/erview/internal/config"
	"github.com/shhac/erview/internal/demo"
	"github.com/shhac/erview/internal/github"
	"github.com/shhac/erview/internal/watch"
)

// App is the root Bubbletea model for the PR dashboard.
type App struct {
	// Panel models
	prList     PRListModel
	diffViewer DiffViewerModel
	chatPanel  ChatPanelModel
	statusBar  StatusBarModel

	// Overlays
	helpOverlay    HelpOverlayModel
	settingsPanel  SettingsModel
	commentOverlay CommentOverlayModel
	commandMode    CommandModeModel

	// GitHub client (nil until GHClientReadyMsg)
	ghClient GitHubService

	// Currently selected PR and its in-flight AI/chat state (nil until a PR is selected)
	session *Session

	// Claude integration
	claudePath    string
	appConfig     *config.Config
	analyzer      *claude.Analyzer
	chatService   *claude.ChatService
	analysisStore *claude.AnalysisStore

	// Layout state
	focused           Panel
	width             int
	height            int
	panelVisible      [3]bool // which panels are currently visible
	zoomed            bool    // zoom mode: only focused panel shown
	preZoomVisible    [3]bool // saved visibility before zoom
	initialized       bool    // whether first WindowSizeMsg has been processed
	collapseThreshold int     // terminal width below which the right panel auto-hides

	// Mode
	mode AppMode

	// PR list lifecycle
	initialLoadDone bool
	knownPRs        map[string]bool // prKey -> seen, for detecting newly-opened PRs

	// Background polling / notifications
	pollEnabled   bool
	pollInterval  time.Duration
	notifyEnabled bool

	// watcher observes the repo root for external changes (branch switches,
	// rebases landing mid-review) and nudges a PR-list refresh. Nil if the
	// filesystem watch could not be established.
	watcher *watch.Watcher

	demoMode bool
}

// AppOption configures App construction.
type AppOption func(*App)

// WithDemo runs the UI against the bundled demo data set instead of a real
// GitHub client, for screenshots and offline exploration.
func WithDemo() AppOption {
	return func(a *App) {
		a.demoMode = true
	}
}

// NewApp creates a new App model with default state, loading configuration
// from the current working directory's repo overlay if present.
func NewApp(opts ...AppOption) App {
	repoRoot, err := os.Getwd()
	if err != nil {
		repoRoot = "."
	}
	cfg, err := config.Load(repoRoot)
	if err != nil {
		cfg = config.Default()
	}

	claudePath, _ := claude.FindClaude()

	var analyzer *claude.Analyzer
	var chatSvc *claude.ChatService
	if claudePath != "" {
		chatStore := claude.NewChatStore(config.ChatCacheDir())
		analyzer = claude.NewAnalyzer(claudePath, cfg.ClaudeTimeoutDuration(), config.PromptsDir(), cfg.AnalysisMaxTurns)
		chatSvc = claude.NewChatService(claudePath, cfg.ClaudeTimeoutDuration(), chatStore, cfg.MaxPromptTokens, cfg.MaxChatHistory, cfg.ChatMaxTurns)
	}

	store := claude.NewAnalysisStore(config.AnalysesCacheDir())

	watcher, _ := watch.New(repoRoot)

	a := App{
		prList:         NewPRListModel(),
		diffViewer:     NewDiffViewerModel(),
		chatPanel:      NewChatPanelModel(),
		statusBar:      NewStatusBarModel(),
		helpOverlay:    NewHelpOverlayModel(),
		settingsPanel:  NewSettingsModel(),
		commentOverlay: NewCommentOverlayModel(),
		commandMode:    NewCommandModeModel(),

		focused:      PanelLeft,
		panelVisible: [3]bool{true, true, true},
		mode:         ModeNavigation,

		claudePath:    claudePath,
		appConfig:     &cfg,
		analyzer:      analyzer,
		chatService:   chatSvc,
		analysisStore: store,

		collapseThreshold: cfg.CollapseThreshold,
		pollEnabled:       cfg.PollEnabled,
		pollInterval:      cfg.PollIntervalDuration(),
		notifyEnabled:     cfg.NotificationsEnabled,
		knownPRs:          make(map[string]bool),
		watcher:           watcher,
	}
	a.chatPanel.SetDefaultReviewAction(cfg.DefaultReviewAction)
	a.chatPanel.SetStreamCheckpoint(time.Duration(cfg.StreamCheckpointMs) * time.Millisecond)

	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (m App) Init() tea.Cmd {
	var startCmd tea.Cmd
	if m.demoMode {
		startCmd = func() tea.Msg { return GHClientReadyMsg{Client: demo.NewService()} }
	} else {
		startCmd = initGHClientCmd
	}
	if m.watcher == nil {
		return startCmd
	}
	return tea.Batch(startCmd, watchForChangesCmd(m.watcher))
}

// Update dispatches tea.Msg by domain. Message sets handled by the various
// handle*Msg methods in app_handlers.go are disjoint, so each message
// routes to exactly one handler.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpOverlay.SetSize(m.width, m.height)
		m.settingsPanel.SetSize(m.width, m.height)
		m.commentOverlay.SetSize(m.width, m.height)
		m.commandMode.SetSize(m.width, m.height)
		if !m.initialized {
			m.initialized = true
			if m.width < m.collapseThreshold {
				m.panelVisible[PanelRight] = false
				if m.focused == PanelRight {
					m.focusPanel(nextVisiblePanel(m.focused, m.panelVisible))
				}
			}
		}
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)

	case GHClientReadyMsg, GHClientErrorMsg, PRsLoadedMsg, PRReviewDecisionsMsg, PRsErrorMsg,
		pollTickMsg, pollErrorMsg, pollPRsLoadedMsg, PRSelectedMsg, PRSelectedAndAdvanceMsg,
		list.FilterMatchesMsg:
		return m.handlePRListMsg(msg)

	case HunkSelectedAndAdvanceMsg, DiffLoadedMsg, PRDetailLoadedMsg, CommentsLoadedMsg,
		CIStatusLoadedMsg, CIRerunRequestMsg, CIRerunDoneMsg, CIRerunErrMsg, ReviewsLoadedMsg:
		return m.handleDiffMsg(msg)

	case AnalysisStreamChunkMsg, AnalysisCompleteMsg, AnalysisErrorMsg, AIReviewCompleteMsg, AIReviewErrorMsg:
		return m.handleAnalysisMsg(msg)

	case ChatClearMsg, ChatSendMsg, ChatStreamChunkMsg, ChatResponseMsg, CommentPostMsg,
		CommentPostedMsg, InlineCommentAddMsg, InlineCommentReplyMsg, InlineCommentReplyDoneMsg:
		return m.handleChatMsg(msg)

	case ReviewValidationMsg, ReviewSubmitMsg, ReviewSubmitDoneMsg, ReviewSubmitErrMsg,
		PRApproveDoneMsg, PRApproveErrMsg, PRCloseDoneMsg, PRCloseErrMsg:
		return m.handleReviewMsg(msg)

	case ConfigChangedMsg, HelpClosedMsg, SettingsClosedMsg, ShowCommentOverlayMsg,
		CommentOverlayClosedMsg, CommandExecuteMsg, CommandModeExitMsg, CommandNotFoundMsg, ModeChangedMsg:
		return m.handleConfigMsg(msg)

	case PRRefreshMsg:
		return m.refreshPRList()

	case watchChangedMsg:
		model, cmd := m.refreshPRList()
		if m.watcher == nil {
			return model, cmd
		}
		return model, tea.Batch(cmd, watchForChangesCmd(m.watcher))
	}
	return m, nil
}

// View renders the full-screen layout: three panels, status bar, and
// whichever overlay (if any) is currently active. The overlay models
// already render themselves centered over the full terminal area.
func (m App) View() string {
	if !m.initialized {
		return "Loading erview..."
	}

	sizes := CalculatePanelSizes(m.width, m.height, m.panelVisible)
	if sizes.TooSmall {
		return "Terminal too small — resize to continue."
	}

	var panels []string
	if m.panelVisible[PanelLeft] {
		panels = append(panels, m.prList.View())
	}
	if m.panelVisible[PanelCenter] {
		panels = append(panels, m.diffViewer.View())
	}
	if m.panelVisible[PanelRight] {
		panels = append(panels, m.chatPanel.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	view := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())

	switch {
	case m.commentOverlay.IsVisible():
		return m.commentOverlay.View()
	case m.settingsPanel.IsVisible():
		return m.settingsPanel.View()
	case m.helpOverlay.IsVisible():
		return m.helpOverlay.View()
	case m.commandMode.IsActive():
		return view + "\n" + m.commandMode.View()
	}
	return view
}

// -- Mode / layout --

func (m *App) setMode(mode AppMode) {
	m.mode = mode
	m.statusBar.SetState(m.focused, m.mode)
}

func (m *App) focusPanel(p Panel) {
	m.focused = p
	m.prList.SetFocused(p == PanelLeft)
	m.diffViewer.SetFocused(p == PanelCenter)
	m.chatPanel.SetFocused(p == PanelRight)
	m.statusBar.SetState(m.focused, m.mode)
}

func (m *App) showAndFocusPanel(p Panel) {
	if !m.panelVisible[p] {
		if m.zoomed {
			m.exitZoom()
		}
		m.panelVisible[p] = true
		m.recalcLayout()
	}
	m.focusPanel(p)
}

func (m *App) togglePanel(p Panel) {
	m.panelVisible[p] = !m.panelVisible[p]
	if !m.panelVisible[p] && m.focused == p {
		m.focusPanel(nextVisiblePanel(p, m.panelVisible))
	}
	m.recalcLayout()
}

func (m *App) toggleZoom() {
	if m.zoomed {
		m.exitZoom()
		return
	}
	m.preZoomVisible = m.panelVisible
	m.panelVisible = [3]bool{false, false, false}
	m.panelVisible[m.focused] = true
	m.zoomed = true
	m.recalcLayout()
}

func (m *App) exitZoom() {
	if !m.zoomed {
		return
	}
	m.panelVisible = m.preZoomVisible
	m.zoomed = false
	m.recalcLayout()
}

func (m *App) recalcLayout() {
	sizes := CalculatePanelSizes(m.width, m.height, m.panelVisible)
	if sizes.TooSmall {
		return
	}
	m.prList.SetSize(sizes.LeftWidth, sizes.PanelHeight)
	m.diffViewer.SetSize(sizes.CenterWidth, sizes.PanelHeight)
	m.chatPanel.SetSize(sizes.RightWidth, sizes.PanelHeight)
	m.statusBar.SetWidth(m.width)
}

func (m App) updateFocusedPanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focused {
	case PanelLeft:
		m.prList, cmd = m.prList.Update(msg)
	case PanelCenter:
		m.diffViewer, cmd = m.diffViewer.Update(msg)
	case PanelRight:
		return m.updateChatPanel(msg)
	}
	return m, cmd
}

func (m App) updateChatPanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.chatPanel, cmd = m.chatPanel.Update(msg)
	return m, cmd
}

// -- PR selection --

func (m App) selectPR(owner, repo string, number int, htmlURL string, advance bool) (tea.Model, tea.Cmd) {
	if m.session != nil && m.session.StreamCancel != nil {
		m.session.StreamCancel()
	}

	title := ""
	if item, ok := m.prList.list.SelectedItem().(PRItem); ok && item.number == number {
		title = item.title
	}

	m.session = &Session{
		Owner:   owner,
		Repo:    repo,
		Number:  number,
		Title:   title,
		HTMLURL: htmlURL,
	}

	m.prList.SetSelectedPR(number)
	m.statusBar.SetSelectedPR(number)
	m.diffViewer.SetLoading(number)
	m.chatPanel.SetCommentsLoading()
	m.chatPanel.ClearAIReview()
	m.chatPanel.ClearChat()

	if m.chatService != nil {
		if msgs := m.chatService.GetSessionMessages(prKey(owner, repo, number)); len(msgs) > 0 {
			m.chatPanel.RestoreMessages(msgs)
		}
	}

	cmds := []tea.Cmd{
		fetchDiffCmd(m.ghClient, owner, repo, number),
		fetchPRDetailCmd(m.ghClient, owner, repo, number),
		fetchCommentsCmd(m.ghClient, owner, repo, number),
		fetchCIStatusCmd(m.ghClient, owner, repo, number),
		fetchReviewsCmd(m.ghClient, owner, repo, number),
	}

	if advance {
		m.showAndFocusPanel(PanelCenter)
	}

	return m, tea.Batch(cmds...)
}

// refreshFetchDone is a hook point for per-fetch completion bookkeeping.
// Nothing to coordinate today beyond each handler's own state update, but
// the call sites stay in place so a future loading-indicator needs a
// single spot to hang off.
func (m App) refreshFetchDone(prNumber int) tea.Cmd {
	return nil
}

func (m App) refreshPRList() (tea.Model, tea.Cmd) {
	m.prList.SetLoading()
	if m.ghClient == nil {
		return m, initGHClientCmd
	}
	return m, fetchPRsCmd(m.ghClient)
}

func (m App) refreshSelectedPR() (tea.Model, tea.Cmd) {
	if m.session == nil || m.ghClient == nil {
		return m, nil
	}
	owner, repo, number := m.session.Owner, m.session.Repo, m.session.Number
	m.diffViewer.SetLoading(number)
	return m, tea.Batch(
		fetchDiffCmd(m.ghClient, owner, repo, number),
		fetchPRDetailCmd(m.ghClient, owner, repo, number),
		fetchCommentsCmd(m.ghClient, owner, repo, number),
		fetchCIStatusCmd(m.ghClient, owner, repo, number),
		fetchReviewsCmd(m.ghClient, owner, repo, number),
	)
}

// snapshotKnownPRs records the current PR set so a later poll can diff
// against it to find newly-opened PRs worth notifying about.
func (m *App) snapshotKnownPRs(toReview, myPRs []github.PRItem) {
	known := make(map[string]bool, len(toReview)+len(myPRs))
	for _, pr := range toReview {
		known[prKey(pr.Repo.Owner, pr.Repo.Name, pr.Number)] = true
	}
	for _, pr := range myPRs {
		known[prKey(pr.Repo.Owner, pr.Repo.Name, pr.Number)] = true
	}
	m.knownPRs = known
}

// detectNewPRs returns the subset of toReview not present in the last
// snapshot taken by snapshotKnownPRs.
func (m App) detectNewPRs(toReview []github.PRItem) []github.PRItem {
	var fresh []github.PRItem
	for _, pr := range toReview {
		if !m.knownPRs[prKey(pr.Repo.Owner, pr.Repo.Name, pr.Number)] {
			fresh = append(fresh, pr)
		}
	}
	return fresh
}

// mergeAIComments appends AI-suggested inline comments from a generated
// review into the session's pending comment queue, deduplicating by
// path+line so re-running the review doesn't stack duplicates.
func (m *App) mergeAIComments(comments []claude.InlineReviewComment) {
	if m.session == nil {
		return
	}
	seen := make(map[string]bool, len(m.session.PendingInlineComments))
	for _, c := range m.session.PendingInlineComments {
		seen[commentKey(c.Path, c.Line)] = true
	}
	for _, c := range comments {
		key := commentKey(c.Path, c.Line)
		if seen[key] {
			continue
		}
		seen[key] = true
		m.session.PendingInlineComments = append(m.session.PendingInlineComments, PendingInlineComment{
			Path:      c.Path,
			Line:      c.Line,
			StartLine: c.StartLine,
			Body:      c.Body,
			Source:    "ai",
		})
	}
}

// -- Analysis / chat actions --

func (m App) startAnalysis() (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.Analyzing || m.analyzer == nil {
		return m, nil
	}

	diffContent := buildDiffContent(m.session.DiffFiles)
	hash := diffContentHash(m.session.DiffFiles)
	repoKey := prKey(m.session.Owner, m.session.Repo, m.session.Number)

	if cached, err := m.analysisStore.Get(repoKey); err == nil && !m.analysisStore.IsStale(cached, hash) {
		m.chatPanel.SetAnalysisResult(cached.Result)
		return m, nil
	}

	m.session.Analyzing = true
	ch := make(analysisStreamChan, 16)
	m.session.AnalysisStreamCh = ch
	m.chatPanel.SetAnalysisLoading()

	prNumber := m.session.Number
	input := claude.AnalyzeDiffInput{
		RepoKey:     repoKey,
		Description: m.session.Title,
		DiffContent: diffContent,
	}
	analyzer := m.analyzer

	analyzeCmd := func() tea.Msg {
		result, err := analyzer.AnalyzeDiffStream(context.Background(), input, func(chunk string) {
			ch <- AnalysisStreamChunkMsg{Content: chunk}
		})
		if err != nil {
			ch <- AnalysisErrorMsg{Err: err}
		} else {
			ch <- AnalysisCompleteMsg{PRNumber: prNumber, DiffHash: hash, Result: result}
		}
		close(ch)
		return nil
	}

	return m, tea.Batch(analyzeCmd, listenForStream(ch))
}

func (m App) handleChatSend(message string) (tea.Model, tea.Cmd) {
	if m.session == nil || m.chatService == nil {
		return m, nil
	}

	selectedDiff := m.diffViewer.GetSelectedHunkContent()
	hunksSelected := selectedDiff != ""
	var diffContext string
	if hunksSelected {
		diffContext = buildSelectedHunkContext(m.session, m.session.DiffFiles, selectedDiff)
	} else {
		diffContext = buildChatContext(m.session, m.session.DiffFiles)
	}

	repoKey := prKey(m.session.Owner, m.session.Repo, m.session.Number)
	ch := make(chatStreamChan, 16)
	m.session.StreamChan = ch

	ctx, cancel := context.WithCancel(context.Background())
	m.session.StreamCancel = cancel

	input := claude.ChatInput{
		RepoKey:       repoKey,
		DiffContext:   diffContext,
		HunksSelected: hunksSelected,
		Message:       message,
	}
	chatService := m.chatService

	sendCmd := func() tea.Msg {
		defer cancel()
		response, err := chatService.ChatStream(ctx, input, func(chunk string) {
			ch <- ChatStreamChunkMsg{Content: chunk}
		})
		ch <- ChatResponseMsg{Content: response, Err: err}
		chatService.SaveSession(repoKey)
		close(ch)
		return nil
	}

	return m, tea.Batch(sendCmd, listenForStream(ch))
}

func (m App) handleCommentPost(body string) (tea.Model, tea.Cmd) {
	if m.session == nil || m.ghClient == nil {
		return m, nil
	}
	client := m.ghClient
	owner, repo, number := m.session.Owner, m.session.Repo, m.session.Number
	postCmd := func() tea.Msg {
		err := client.PostComment(context.Background(), owner, repo, number, body)
		return CommentPostedMsg{Err: err}
	}
	return m, postCmd
}

func (m App) handleInlineCommentAdd(msg InlineCommentAddMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	m.session.PendingInlineComments = append(m.session.PendingInlineComments, PendingInlineComment{
		Path:      msg.Path,
		Line:      msg.Line,
		StartLine: msg.StartLine,
		Body:      msg.Body,
		Source:    msg.Source,
	})
	m.diffViewer.SetPendingInlineComments(m.session.PendingInlineComments)
	m.chatPanel.SetPendingCommentCount(len(m.session.PendingInlineComments))
	clearCmd := m.statusBar.SetTemporaryMessage("Comment added to pending review", 2*time.Second)
	return m, clearCmd
}

func (m App) handleReviewSubmit(msg ReviewSubmitMsg) (tea.Model, tea.Cmd) {
	if m.session == nil || m.ghClient == nil {
		return m, nil
	}
	if len(m.session.PendingInlineComments) == 0 && msg.Body == "" && msg.Action != ReviewApprove {
		return m, func() tea.Msg {
			return ReviewValidationMsg{Message: "Nothing to submit — add a comment or select Approve"}
		}
	}

	inline := make([]claude.InlineReviewComment, len(m.session.PendingInlineComments))
	for i, c := range m.session.PendingInlineComments {
		inline[i] = claude.InlineReviewComment{
			Path:      c.Path,
			Line:      c.Line,
			StartLine: c.StartLine,
			Body:      c.Body,
		}
	}

	return m, submitReviewCmd(m.ghClient, m.session.Owner, m.session.Repo, m.session.Number, msg.Action, msg.Body, inline)
}

// -- Command palette dispatch --

// executeCommand runs the action bound to a resolved command-palette name.
// Unrecognized names (including raw unresolved user input) fall through to
// CommandNotFoundMsg.
func (m App) executeCommand(name string) (tea.Model, tea.Cmd) {
	switch name {
	case "analyze":
		return m.startAnalysis()
	case "open":
		if m.session != nil && m.session.HTMLURL != "" {
			return m, openBrowserCmd(m.session.HTMLURL)
		}
		return m, nil
	case "new":
		return m.handleChatMsg(ChatClearMsg{})
	case "quit":
		return m, tea.Quit
	case "help":
		m.setMode(ModeOverlay)
		m.helpOverlay.SetSize(m.width, m.height)
		m.helpOverlay.Show(m.focused)
		return m, nil
	case "zoom":
		m.toggleZoom()
		return m, nil
	case "comment":
		m.showAndFocusPanel(PanelCenter)
		return m, nil
	case "toggle left":
		m.togglePanel(PanelLeft)
		return m, nil
	case "toggle center":
		m.togglePanel(PanelCenter)
		return m, nil
	case "toggle right":
		m.togglePanel(PanelRight)
		return m, nil
	case "config":
		m.setMode(ModeOverlay)
		m.settingsPanel.SetSize(m.width, m.height)
		m.settingsPanel.Show(m.appConfig)
		return m, nil
	case "clear selection":
		if m.session != nil {
			m.session.PendingInlineComments = nil
			m.diffViewer.SetPendingInlineComments(nil)
			m.chatPanel.SetPendingCommentCount(0)
		}
		return m, nil
	case "review":
		if m.session != nil && m.analyzer != nil {
			return m, aiReviewCmd(m.analyzer, m.session, m.session.DiffFiles)
		}
		return m, nil
	case "approve":
		if m.session != nil && m.ghClient != nil {
			return m, approvePRCmd(m.ghClient, m.session.Owner, m.session.Repo, m.session.Number)
		}
		return m, nil
	case "rerun ci":
		return m.handleDiffMsg(CIRerunRequestMsg{})
	case "refresh":
		if m.focused == PanelLeft {
			return m.refreshPRList()
		}
		return m.refreshSelectedPR()
	case "diff":
		m.showAndFocusPanel(PanelCenter)
		return m, nil
	case "chat":
		m.showAndFocusPanel(PanelRight)
		return m, nil
	case "prs":
		m.showAndFocusPanel(PanelLeft)
		return m, nil
	default:
		return m, func() tea.Msg { return CommandNotFoundMsg{Input: name} }
	}
}
