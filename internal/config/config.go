package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything Stockwell needs to reach the catalog service and
// keep its local files.
type Config struct {
	APIBase  string
	APIToken string

	PageSize           int
	SearchDebounceMS   int
	AutosaveDebounceMS int

	DraftDir string
	LogFile  string
	LogLevel string
}

const (
	defaultConfigPath = "~/.config/stockwell/config.toml"
	defaultAPIBase    = "http://127.0.0.1:8700"
	defaultDraftDir   = "~/.local/share/stockwell/drafts"
	defaultLogFile    = "~/.local/share/stockwell/stockwell.log"
	defaultLogLevel   = "info"

	defaultPageSize           = 10
	defaultSearchDebounceMS   = 500
	defaultAutosaveDebounceMS = 1500
)

// envOverlay is the subset of fields that may be set from the environment.
// Environment values win over the file, so a token never has to live on
// disk.
type envOverlay struct {
	APIBase  string `envconfig:"API_BASE"`
	APIToken string `envconfig:"API_TOKEN"`
	LogLevel string `envconfig:"LOG_LEVEL"`
}

// Load locates and parses the config file, falling back to defaults when
// missing, then applies STOCKWELL_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			APIBase            string `toml:"api_base"`
			APIToken           string `toml:"api_token"`
			PageSize           int    `toml:"page_size"`
			SearchDebounceMS   int    `toml:"search_debounce_ms"`
			AutosaveDebounceMS int    `toml:"autosave_debounce_ms"`
			DraftDir           string `toml:"draft_dir"`
			LogFile            string `toml:"log_file"`
			LogLevel           string `toml:"log_level"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}

		overlay(&cfg.APIBase, raw.APIBase)
		overlay(&cfg.APIToken, raw.APIToken)
		overlay(&cfg.DraftDir, raw.DraftDir)
		overlay(&cfg.LogFile, raw.LogFile)
		overlay(&cfg.LogLevel, raw.LogLevel)
		if raw.PageSize > 0 {
			cfg.PageSize = raw.PageSize
		}
		if raw.SearchDebounceMS > 0 {
			cfg.SearchDebounceMS = raw.SearchDebounceMS
		}
		if raw.AutosaveDebounceMS > 0 {
			cfg.AutosaveDebounceMS = raw.AutosaveDebounceMS
		}
	}

	var env envOverlay
	if err := envconfig.Process("stockwell", &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	overlay(&cfg.APIBase, env.APIBase)
	overlay(&cfg.APIToken, env.APIToken)
	overlay(&cfg.LogLevel, env.LogLevel)

	cfg.DraftDir = mustExpand(cfg.DraftDir)
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

// SearchDebounce is the quiet window applied to search input.
func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// AutosaveDebounce is the quiet window applied to form edits before the
// draft is written.
func (c Config) AutosaveDebounce() time.Duration {
	return time.Duration(c.AutosaveDebounceMS) * time.Millisecond
}

func defaults() Config {
	return Config{
		APIBase:            defaultAPIBase,
		PageSize:           defaultPageSize,
		SearchDebounceMS:   defaultSearchDebounceMS,
		AutosaveDebounceMS: defaultAutosaveDebounceMS,
		DraftDir:           defaultDraftDir,
		LogFile:            defaultLogFile,
		LogLevel:           defaultLogLevel,
	}
}

func overlay(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
