// Package config loads erview's layered TOML configuration: built-in
// defaults, overridden by the user's global config file, overridden again
// by a per-repository ".er-config.toml". Merging is deep — individual
// fields within a section override independently of their siblings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root of erview's TOML configuration tree.
type Config struct {
	Features FeatureFlags  `toml:"features"`
	Agent    AgentConfig   `toml:"agent"`
	Display  DisplayConfig `toml:"display"`
	Watched  WatchedConfig `toml:"watched"`
	Hints    HintConfig    `toml:"hints"`

	// GitHub collaborator settings — used when the diff source is a hosted
	// PR rather than a local branch/worktree diff.
	DefaultPRTab          string   `toml:"default_pr_tab"`
	StartCollapsed        []string `toml:"start_collapsed"`
	CollapseThreshold     int      `toml:"collapse_threshold"`
	PollEnabled           bool     `toml:"poll_enabled"`
	PollInterval          int      `toml:"poll_interval_sec"`
	NotificationsEnabled  bool     `toml:"notifications_enabled"`
	NotificationThreshold int      `toml:"notification_threshold"`
	PRFetchLimit          int      `toml:"pr_fetch_limit"`
	DefaultReviewAction   string   `toml:"default_review_action"`

	// AI collaborator settings.
	ClaudeTimeout      int `toml:"claude_timeout_sec"`
	MaxChatHistory     int `toml:"max_chat_history"`
	MaxPromptTokens    int `toml:"max_prompt_tokens"`
	ChatMaxTurns       int `toml:"chat_max_turns"`
	AnalysisMaxTurns   int `toml:"analysis_max_turns"`
	StreamCheckpointMs int `toml:"stream_checkpoint_ms"`
}

// FeatureFlags toggles which review modes are available.
type FeatureFlags struct {
	ViewBranch    bool `toml:"view_branch"`
	ViewUnstaged  bool `toml:"view_unstaged"`
	ViewStaged    bool `toml:"view_staged"`
	ViewHistory   bool `toml:"view_history"`
	ViewConflicts bool `toml:"view_conflicts"`
}

// AgentConfig configures the external AI-review collaborator command.
type AgentConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// DisplayConfig configures diff rendering.
type DisplayConfig struct {
	TabWidth    int  `toml:"tab_width"`
	LineNumbers bool `toml:"line_numbers"`
	WrapLines   bool `toml:"wrap_lines"`
	SplitDiff   bool `toml:"split_diff"`
}

// WatchedConfig configures non-Git-tracked paths surfaced alongside the diff.
type WatchedConfig struct {
	Paths    []string `toml:"paths"`
	DiffMode string   `toml:"diff_mode"` // "content" or "snapshot"
}

// HintConfig toggles visibility of key-hint groups in the bottom bar.
type HintConfig struct {
	Navigation bool `toml:"navigation"`
	Comments   bool `toml:"comments"`
	GitHub     bool `toml:"github"`
	Staging    bool `toml:"staging"`
	AI         bool `toml:"ai"`
	Filter     bool `toml:"filter"`
	Sort       bool `toml:"sort"`
	Settings   bool `toml:"settings"`
}

// Defaults mirrors the original's #[serde(default = ...)] constants.
const (
	DefaultTabWidth  = 4
	DefaultAgentCmd  = "claude"
	DefaultDiffMode  = "content"
	DefaultPollMs    = 60000
)

// DefaultAgentArgs must keep the "{prompt}" placeholder: the agent command
// receives the review prompt by substituting this token. A user override
// that drops it silently loses the prompt (kept as a documented risk, not
// validated).
func DefaultAgentArgs() []string {
	return []string{"--print", "-p", "{prompt}"}
}

// Default returns the built-in configuration tree.
func Default() Config {
	return Config{
		Features: FeatureFlags{ViewBranch: true, ViewUnstaged: true, ViewStaged: true, ViewHistory: true, ViewConflicts: true},
		Agent:    AgentConfig{Command: DefaultAgentCmd, Args: DefaultAgentArgs()},
		Display:  DisplayConfig{TabWidth: DefaultTabWidth, LineNumbers: true},
		Watched:  WatchedConfig{DiffMode: DefaultDiffMode},
		Hints: HintConfig{
			Navigation: true, Comments: true, GitHub: true, Staging: true,
			AI: true, Filter: true, Sort: true, Settings: true,
		},
		DefaultPRTab:          "review",
		CollapseThreshold:     120,
		PollEnabled:           true,
		PollInterval:          60,
		NotificationsEnabled:  true,
		NotificationThreshold: 5,
		PRFetchLimit:          50,
		DefaultReviewAction:   "comment",
		ClaudeTimeout:         120,
		MaxChatHistory:        20,
		MaxPromptTokens:       100000,
		ChatMaxTurns:          3,
		AnalysisMaxTurns:      20,
		StreamCheckpointMs:    200,
	}
}

// ClaudeTimeoutDuration returns the Claude CLI timeout as a time.Duration.
func (c Config) ClaudeTimeoutDuration() time.Duration {
	return time.Duration(c.ClaudeTimeout) * time.Second
}

// PollIntervalDuration returns the background PR-polling interval as a time.Duration.
func (c Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// DefaultConfigDir returns the platform-appropriate config directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "erview")
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".config", "erview")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "erview")
		}
		return filepath.Join(home, ".config", "erview")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "erview")
		}
		return filepath.Join(home, ".config", "erview")
	}
}

func globalConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

func localConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".er-config.toml")
}

// Load merges built-in defaults, the global config file, and the
// per-repo ".er-config.toml" in that priority order (later wins). A
// missing or malformed file at either layer is treated as empty rather
// than failing the whole load, matching the original's tolerant fallback.
func Load(repoRoot string) (Config, error) {
	base := tomlToMap(Default())

	if globalMap, ok := readTable(globalConfigPath()); ok {
		deepMerge(base, globalMap)
	}
	if localMap, ok := readTable(localConfigPath(repoRoot)); ok {
		deepMerge(base, localMap)
	}

	merged, err := toml.Marshal(base)
	if err != nil {
		return Default(), fmt.Errorf("config: remarshal merged tree: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(merged, &cfg); err != nil {
		// A field of the wrong type anywhere in the merged tree falls back
		// to built-in defaults rather than failing the whole session.
		return Default(), nil
	}
	return cfg, nil
}

func tomlToMap(cfg Config) map[string]interface{} {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return map[string]interface{}{}
	}
	var m map[string]interface{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return map[string]interface{}{}
	}
	return m
}

func readTable(path string) (map[string]interface{}, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var m map[string]interface{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

// deepMerge recursively merges overlay into base: overlay values win, and
// a section present as a table in both operands is merged field by field
// rather than replaced wholesale.
func deepMerge(base, overlay map[string]interface{}) {
	for key, value := range overlay {
		baseValue, exists := base[key]
		baseTable, baseIsTable := baseValue.(map[string]interface{})
		overlayTable, overlayIsTable := value.(map[string]interface{})

		if exists && baseIsTable && overlayIsTable {
			deepMerge(baseTable, overlayTable)
			continue
		}
		base[key] = value
	}
}

// Save writes cfg to the global config file atomically (temp file plus
// rename), so a process killed mid-write never leaves a corrupt config
// behind.
func Save(cfg Config) error {
	dir := DefaultConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	path := globalConfigPath()
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config: rename: %w", err)
	}
	return nil
}

// SaveLocal writes cfg to the per-repo ".er-config.toml" atomically.
func SaveLocal(repoRoot string, cfg Config) error {
	path := localConfigPath(repoRoot)
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("config: rename: %w", err)
	}
	return nil
}

// AnalysesCacheDir returns the path to the AI-review analysis cache directory.
func AnalysesCacheDir() string {
	return filepath.Join(DefaultConfigDir(), "analyses")
}

// ChatCacheDir returns the path to the chat session cache directory.
func ChatCacheDir() string {
	return filepath.Join(DefaultConfigDir(), "chats")
}

// PromptsDir returns the path to the custom prompts directory.
func PromptsDir() string {
	return filepath.Join(DefaultConfigDir(), "prompts")
}

// GetRepoPrompt loads a custom prompt file for a repository, if it exists.
// repoKey is the value produced by claude.RepoKey for the repo's working path.
func GetRepoPrompt(repoKey string) (string, error) {
	path := filepath.Join(PromptsDir(), repoKey+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("config: read repo prompt: %w", err)
	}
	return string(data), nil
}

// PollInterval returns the polling interval used by watch-mode collaborators.
func PollInterval() time.Duration {
	return time.Duration(DefaultPollMs) * time.Millisecond
}
