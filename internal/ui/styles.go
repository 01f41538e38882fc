package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Panel border colors
var (
	focusedBorderColor   = lipgloss.Color("62")  // bright purple/blue
	unfocusedBorderColor = lipgloss.Color("240") // dim gray
	insertModeBorderColor = lipgloss.Color("42") // green
)

// Diff colors
var (
	diffAddedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	diffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffHunkHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	diffFileHeaderStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true)
)

// Status bar
var (
	statusBarStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("252"))
	statusBarAccentStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("62")).
		Bold(true)
)

// Chat styles
var (
	chatUserStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("33")).
		Bold(true)
	chatAssistantStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)
)

// Selected hunk highlight
var diffSelectedBg = lipgloss.Color("236")

// Focused hunk indicator
var diffFocusedHunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)

// PR list styles
var (
	prTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	prMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Panel style builders
func panelStyle(focused bool, insertMode bool, width, height int) lipgloss.Style {
	borderColor := unfocusedBorderColor
	if focused {
		borderColor = focusedBorderColor
		if insertMode {
			borderColor = insertModeBorderColor
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Height(height)
}

func panelHeaderStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
}

// Tab styles
func activeTabStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
}

func inactiveTabStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(0, 1)
}

// Mode badge styles
func normalModeBadge() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Background(lipgloss.Color("238")).
		Padding(0, 1).
		Render("NORMAL")
}

func insertModeBadge() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("42")).
		Padding(0, 1).
		Render("INSERT")
}

// Command palette styles
var (
	cmdPaletteTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("62"))
	cmdPaletteDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cmdPalettePromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	cmdPaletteInputTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cmdPaletteHintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	cmdPaletteKeyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	cmdPaletteDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cmdPaletteMarkerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	cmdPaletteSelectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	cmdPaletteAliasStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	cmdPaletteErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// newLoadingSpinner builds the dot spinner used by panels while they wait
// on an async fetch (PR list, chat response, analysis run).
func newLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	return s
}

var (
	errorTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	errorHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	emptyTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emptyHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// renderErrorWithHint renders an error message with an optional dim hint
// line beneath it (e.g. "retry with r").
func renderErrorWithHint(errorText, hint string) string {
	if hint == "" {
		return errorTextStyle.Render(errorText)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		errorTextStyle.Render(errorText),
		errorHintStyle.Render(hint),
	)
}

// renderEmptyState renders a dim placeholder message with an optional hint
// line, used by tabs/panels that have nothing to show yet.
func renderEmptyState(message, hint string) string {
	if hint == "" {
		return emptyTextStyle.Render(message)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		emptyTextStyle.Render(message),
		emptyHintStyle.Render(hint),
	)
}

// formatUserError rewrites a raw error string into a short, actionable
// message for the status bar and panel error views. Unrecognized errors
// pass through unchanged.
func formatUserError(err string) string {
	lower := strings.ToLower(err)

	switch {
	case strings.Contains(lower, "gh cli not found"):
		return "GitHub CLI (gh) not found — install it and make sure it's in your PATH"
	case strings.Contains(lower, "not authenticated"), strings.Contains(lower, "gh auth login"):
		return "Not authenticated with GitHub — run `gh auth login` first"
	case strings.Contains(lower, "rate limit"):
		return "GitHub API rate limit reached — try again later"
	case strings.Contains(lower, "deadline exceeded"), strings.Contains(lower, "timeout"):
		return "Request timed out — check your connection and try again"
	case strings.Contains(lower, "no such host"), strings.Contains(lower, "connection refused"):
		return "Network error — unable to reach GitHub"
	default:
		return err
	}
}
