// Package config provides git-suggest configuration with a defined load order:
// CLI flags > environment variables > project file > global file > defaults.
//
// Paths:
//   - Global: XDG config dir, e.g. ~/.config/git-suggest/config.toml (see os.UserConfigDir)
//   - Project: .gitcommit.yml in the repository root, else in the home directory.
//     An explicit --config path replaces this lookup; it may be TOML (.toml) or YAML.
//
// Environment variables (override config files when set):
//   - GIT_SUGGEST_PROVIDER (gemini or ollama), GIT_SUGGEST_MODEL, GIT_SUGGEST_API_KEY_ENV,
//   - GIT_SUGGEST_GEMINI_BASE_URL, GIT_SUGGEST_OLLAMA_BASE_URL,
//   - GIT_SUGGEST_TIMEOUT (Go duration string or integer seconds), GIT_SUGGEST_TEMPERATURE,
//   - GIT_SUGGEST_CONTEXT_LIMIT, GIT_SUGGEST_MAX_PROMPT_CHARS, GIT_SUGGEST_MAX_DIFF_LINES.
//
// The API key itself is never stored in a file; it is read from the variable
// named by api_key_env (default "api_key").
package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gitsuggest/cli/internal/erruser"
	"gitsuggest/cli/internal/summarize"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// ProjectFileName is the per-project (or per-user, in $HOME) settings file.
const ProjectFileName = ".gitcommit.yml"

// Config holds all git-suggest configuration.
type Config struct {
	Provider      string        `toml:"provider"`
	Model         string        `toml:"model"`
	APIKeyEnv     string        `toml:"api_key_env"`
	GeminiBaseURL string        `toml:"gemini_base_url"`
	OllamaBaseURL string        `toml:"ollama_base_url"`
	Timeout       time.Duration `toml:"timeout"`
	Temperature   float64       `toml:"temperature"`
	// ContextLimit and WarnThreshold drive the prompt size warning.
	ContextLimit  int     `toml:"context_limit"`
	WarnThreshold float64 `toml:"warn_threshold"`
	// MaxPromptChars caps the summary bytes sent to the model (0 = no cap).
	// The other size fields treat 0 in a file or the environment as "keep
	// the default".
	MaxPromptChars int `toml:"max_prompt_chars"`
	// MaxDiffLines is the largest diff sent verbatim; larger diffs are summarized.
	MaxDiffLines int `toml:"max_diff_lines"`
	// MaxKeyLines caps the key-changes section of a summarized diff.
	MaxKeyLines int `toml:"max_key_lines"`
	// SampleAfter and SampleEvery control how added/removed lines are sampled
	// once SampleAfter lines are kept.
	SampleAfter int `toml:"sample_after"`
	SampleEvery int `toml:"sample_every"`

	// modelSet records that Model was chosen explicitly, so switching the
	// provider does not keep the other provider's default model.
	modelSet bool
}

// Overrides represents optional CLI flag overrides. Non-nil pointer means
// "override with this value".
type Overrides struct {
	Provider     *string
	Model        *string
	Timeout      *time.Duration
	Temperature  *float64
	MaxDiffLines *int
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// WorkDir is the directory git-suggest runs in, searched first for .gitcommit.yml.
	WorkDir string
	// RepoRoot is the repository root, searched for .gitcommit.yml after WorkDir.
	RepoRoot string
	// HomeDir is searched last; if empty, os.UserHomeDir is used.
	HomeDir string
	// ConfigPath replaces the project file lookup when set (the --config flag).
	ConfigPath string
	// GlobalConfigPath is the global config file path; if empty, XDG path is used.
	GlobalConfigPath string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultProvider       = ProviderGemini
	_defaultGeminiModel    = "gemini-2.5-flash"
	_defaultOllamaModel    = "qwen2.5-coder:7b"
	_defaultAPIKeyEnv      = "api_key"
	_defaultGeminiBaseURL  = "https://generativelanguage.googleapis.com"
	_defaultOllamaBaseURL  = "http://localhost:11434"
	_defaultTimeout        = 60 * time.Second
	_defaultTemperature    = 0.2
	_defaultContextLimit   = 32768
	_defaultWarnThreshold  = 0.9
	_defaultMaxPromptChars = 32 * 1024
)

// errIntOverflow is returned when an int64 value does not fit in int.
var errIntOverflow = errors.New("value out of range for int")

func int64ToInt(n int64) (int, error) {
	if n < int64(math.MinInt) || n > int64(math.MaxInt) {
		return 0, errIntOverflow
	}
	return int(n), nil
}

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	sum := summarize.DefaultOptions()
	return Config{
		Provider:       _defaultProvider,
		Model:          _defaultGeminiModel,
		APIKeyEnv:      _defaultAPIKeyEnv,
		GeminiBaseURL:  _defaultGeminiBaseURL,
		OllamaBaseURL:  _defaultOllamaBaseURL,
		Timeout:        _defaultTimeout,
		Temperature:    _defaultTemperature,
		ContextLimit:   _defaultContextLimit,
		WarnThreshold:  _defaultWarnThreshold,
		MaxPromptChars: _defaultMaxPromptChars,
		MaxDiffLines:   sum.FullDiffMaxLines,
		MaxKeyLines:    sum.MaxKeyLines,
		SampleAfter:    sum.SampleAfter,
		SampleEvery:    sum.SampleEvery,
	}
}

// SummarizeOptions returns the summarizer thresholds of c.
func (c Config) SummarizeOptions() summarize.Options {
	o := summarize.DefaultOptions()
	o.FullDiffMaxLines = c.MaxDiffLines
	o.MaxKeyLines = c.MaxKeyLines
	o.SampleAfter = c.SampleAfter
	o.SampleEvery = c.SampleEvery
	return o
}

// APIKey returns the value of the environment variable named by APIKeyEnv,
// looked up in env (key=value pairs; nil means os.Environ()).
func (c Config) APIKey(env []string) string {
	if env == nil {
		env = os.Environ()
	}
	return envMap(env)[c.APIKeyEnv]
}

// Load loads configuration with precedence: defaults < global file < project file < env < overrides.
// Missing config files are ignored, except an explicit ConfigPath. Invalid
// files or env values return an error.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, erruser.New("Could not determine config directory.", err)
		}
		globalPath = filepath.Join(dir, "git-suggest", "config.toml")
	}
	if err := mergeFile(&cfg, globalPath); err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err != nil {
			return nil, erruser.New("Configuration file not found: "+opts.ConfigPath, err)
		}
		if err := mergeFile(&cfg, opts.ConfigPath); err != nil {
			return nil, err
		}
	} else if path := findProjectFile(opts.WorkDir, opts.RepoRoot, opts.HomeDir); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, opts.Env); err != nil {
		return nil, err
	}

	applyOverrides(&cfg, opts.Overrides)
	if !cfg.modelSet && cfg.Provider == ProviderOllama {
		cfg.Model = _defaultOllamaModel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Provider != ProviderGemini && c.Provider != ProviderOllama {
		return erruser.New(fmt.Sprintf("Unknown provider %q; use gemini or ollama.", c.Provider), nil)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return erruser.New("Temperature must be between 0 and 2.", nil)
	}
	if c.Timeout <= 0 {
		return erruser.New("Timeout must be positive.", nil)
	}
	if strings.TrimSpace(c.APIKeyEnv) == "" {
		return erruser.New("api_key_env must name an environment variable.", nil)
	}
	return nil
}

// findProjectFile returns the first existing .gitcommit.yml in workDir,
// repoRoot, then homeDir.
func findProjectFile(workDir, repoRoot, homeDir string) string {
	if homeDir == "" {
		homeDir, _ = os.UserHomeDir()
	}
	for _, dir := range []string{workDir, repoRoot, homeDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// fileConfig is the on-disk shape shared by the TOML and YAML files. Pointer
// fields distinguish "absent" from zero.
type fileConfig struct {
	Provider       *string  `toml:"provider" yaml:"provider"`
	Model          *string  `toml:"model" yaml:"model"`
	APIKeyEnv      *string  `toml:"api_key_env" yaml:"api_key_env"`
	GeminiBaseURL  *string  `toml:"gemini_base_url" yaml:"gemini_base_url"`
	OllamaBaseURL  *string  `toml:"ollama_base_url" yaml:"ollama_base_url"`
	Timeout        *string  `toml:"timeout" yaml:"timeout"`
	Temperature    *float64 `toml:"temperature" yaml:"temperature"`
	ContextLimit   *int64   `toml:"context_limit" yaml:"context_limit"`
	WarnThreshold  *float64 `toml:"warn_threshold" yaml:"warn_threshold"`
	MaxPromptChars *int64   `toml:"max_prompt_chars" yaml:"max_prompt_chars"`
	MaxDiffLines   *int64   `toml:"max_diff_lines" yaml:"max_diff_lines"`
	MaxKeyLines    *int64   `toml:"max_key_lines" yaml:"max_key_lines"`
	SampleAfter    *int64   `toml:"sample_after" yaml:"sample_after"`
	SampleEvery    *int64   `toml:"sample_every" yaml:"sample_every"`
}

// mergeFile reads path and merges into cfg. Files ending in .toml are TOML,
// anything else is YAML. Only fields present (and non-empty) in the file
// overwrite cfg. A missing file is skipped.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return erruser.New("Could not read configuration file.", err)
	}
	var file fileConfig
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &file); err != nil {
			return erruser.New("Invalid configuration in "+name+".", err)
		}
	} else if err := yaml.Unmarshal(data, &file); err != nil {
		return erruser.New("Invalid configuration in "+name+".", err)
	}

	if file.Provider != nil && *file.Provider != "" {
		cfg.Provider = normalizeProvider(*file.Provider)
	}
	if file.Model != nil && *file.Model != "" {
		cfg.Model = *file.Model
		cfg.modelSet = true
	}
	if file.APIKeyEnv != nil && *file.APIKeyEnv != "" {
		cfg.APIKeyEnv = *file.APIKeyEnv
	}
	if file.GeminiBaseURL != nil && *file.GeminiBaseURL != "" {
		cfg.GeminiBaseURL = *file.GeminiBaseURL
	}
	if file.OllamaBaseURL != nil && *file.OllamaBaseURL != "" {
		cfg.OllamaBaseURL = *file.OllamaBaseURL
	}
	if file.Timeout != nil && *file.Timeout != "" {
		d, err := parseDuration(*file.Timeout)
		if err != nil {
			return erruser.New("Configuration timeout is invalid.", err)
		}
		cfg.Timeout = d
	}
	if file.Temperature != nil {
		if *file.Temperature < 0 || *file.Temperature > 2 {
			return erruser.New("Configuration temperature must be between 0 and 2.", nil)
		}
		cfg.Temperature = *file.Temperature
	}
	if file.WarnThreshold != nil && *file.WarnThreshold >= 0 {
		cfg.WarnThreshold = *file.WarnThreshold
	}
	ints := []struct {
		key    string
		src    *int64
		dst    *int
		zeroOK bool
	}{
		{"context_limit", file.ContextLimit, &cfg.ContextLimit, false},
		{"max_prompt_chars", file.MaxPromptChars, &cfg.MaxPromptChars, true},
		{"max_diff_lines", file.MaxDiffLines, &cfg.MaxDiffLines, false},
		{"max_key_lines", file.MaxKeyLines, &cfg.MaxKeyLines, false},
		{"sample_after", file.SampleAfter, &cfg.SampleAfter, false},
		{"sample_every", file.SampleEvery, &cfg.SampleEvery, false},
	}
	for _, f := range ints {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return erruser.New("Configuration "+f.key+" must be non-negative.", nil)
		}
		if *f.src == 0 && !f.zeroOK {
			continue
		}
		v, err := int64ToInt(*f.src)
		if err != nil {
			return erruser.New("Configuration "+f.key+" value out of range.", err)
		}
		*f.dst = v
	}
	return nil
}

func normalizeProvider(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Try Go duration first (e.g. "5m", "30s")
	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}
	// Try integer seconds
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(n) * time.Second, nil
}

// env key names for config
const (
	envProvider       = "GIT_SUGGEST_PROVIDER"
	envModel          = "GIT_SUGGEST_MODEL"
	envAPIKeyEnv      = "GIT_SUGGEST_API_KEY_ENV"
	envGeminiBaseURL  = "GIT_SUGGEST_GEMINI_BASE_URL"
	envOllamaBaseURL  = "GIT_SUGGEST_OLLAMA_BASE_URL"
	envTimeout        = "GIT_SUGGEST_TIMEOUT"
	envTemperature    = "GIT_SUGGEST_TEMPERATURE"
	envContextLimit   = "GIT_SUGGEST_CONTEXT_LIMIT"
	envMaxPromptChars = "GIT_SUGGEST_MAX_PROMPT_CHARS"
	envMaxDiffLines   = "GIT_SUGGEST_MAX_DIFF_LINES"
)

func envMap(env []string) map[string]string {
	vals := make(map[string]string, len(env))
	for _, e := range env {
		idx := strings.Index(e, "=")
		if idx <= 0 {
			continue
		}
		vals[strings.TrimSpace(e[:idx])] = strings.TrimSpace(e[idx+1:])
	}
	return vals
}

func applyEnv(cfg *Config, env []string) error {
	vals := envMap(env)
	if v, ok := vals[envProvider]; ok && v != "" {
		cfg.Provider = normalizeProvider(v)
	}
	if v, ok := vals[envModel]; ok && v != "" {
		cfg.Model = v
		cfg.modelSet = true
	}
	if v, ok := vals[envAPIKeyEnv]; ok && v != "" {
		cfg.APIKeyEnv = v
	}
	if v, ok := vals[envGeminiBaseURL]; ok && v != "" {
		cfg.GeminiBaseURL = v
	}
	if v, ok := vals[envOllamaBaseURL]; ok && v != "" {
		cfg.OllamaBaseURL = v
	}
	if v, ok := vals[envTimeout]; ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return erruser.New(envTimeout+" must be a valid duration.", err)
		}
		cfg.Timeout = d
	}
	if v, ok := vals[envTemperature]; ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return erruser.New(envTemperature+" must be a valid number.", err)
		}
		if f < 0 || f > 2 {
			return erruser.New(envTemperature+" must be between 0 and 2.", nil)
		}
		cfg.Temperature = f
	}
	for _, e := range []struct {
		key    string
		dst    *int
		zeroOK bool
	}{
		{envContextLimit, &cfg.ContextLimit, false},
		{envMaxPromptChars, &cfg.MaxPromptChars, true},
		{envMaxDiffLines, &cfg.MaxDiffLines, false},
	} {
		v, ok := vals[e.key]
		if !ok || v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return erruser.New(e.key+" must be a valid number.", err)
		}
		if n < 0 {
			return erruser.New(e.key+" must be non-negative.", nil)
		}
		if n == 0 && !e.zeroOK {
			continue
		}
		*e.dst, err = int64ToInt(n)
		if err != nil {
			return erruser.New(e.key+" value out of range.", err)
		}
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.Provider != nil && *o.Provider != "" {
		cfg.Provider = normalizeProvider(*o.Provider)
	}
	if o.Model != nil && *o.Model != "" {
		cfg.Model = *o.Model
		cfg.modelSet = true
	}
	if o.Timeout != nil && *o.Timeout > 0 {
		cfg.Timeout = *o.Timeout
	}
	if o.Temperature != nil {
		cfg.Temperature = *o.Temperature
	}
	if o.MaxDiffLines != nil && *o.MaxDiffLines > 0 {
		cfg.MaxDiffLines = *o.MaxDiffLines
	}
}
