package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// and YAML friendly.
type FileConfig struct {
	MaxChunkMB    int    `toml:"max_chunk_mb" yaml:"max_chunk_mb"`
	Overflow      string `toml:"overflow" yaml:"overflow"`
	Prefix        string `toml:"prefix" yaml:"prefix"`
	OutputURL     string `toml:"output_url" yaml:"output_url"`
	Save          *bool  `toml:"save_files" yaml:"save_files"`
	Unpack        *bool  `toml:"unpack" yaml:"unpack"`
	HTTPTimeout   string `toml:"http_timeout" yaml:"http_timeout"`
	RetryAttempts *int   `toml:"retry_attempts" yaml:"retry_attempts"`
	RetryBackoff  string `toml:"retry_backoff" yaml:"retry_backoff"`
	UserAgent     string `toml:"user_agent" yaml:"user_agent"`
	KeepFailed    *bool  `toml:"keep_failed" yaml:"keep_failed"`
	JournalPath   string `toml:"journal_path" yaml:"journal_path"`
	FedCatalogURL string `toml:"fedcatalog_url" yaml:"fedcatalog_url"`
	EventURL      string `toml:"event_url" yaml:"event_url"`
	StationURL    string `toml:"station_url" yaml:"station_url"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.fern/config.toml if the user home directory
// is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fern", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("max-chunk", fc.MaxChunkMB, &cfg.MaxChunkMB)
	s.setString("overflow", fc.Overflow, &cfg.Overflow)
	s.setString("prefix", fc.Prefix, &cfg.Prefix)
	s.setString("output-url", fc.OutputURL, &cfg.OutputURL)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)
	s.setString("journal", fc.JournalPath, &cfg.JournalPath)
	s.setString("fedcatalog-url", fc.FedCatalogURL, &cfg.FedCatalogURL)
	s.setString("event-url", fc.EventURL, &cfg.EventURL)
	s.setString("station-url", fc.StationURL, &cfg.StationURL)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-backoff", fc.RetryBackoff, &cfg.RetryBackoff); err != nil {
		return err
	}
	s.setIntPtr("retries", fc.RetryAttempts, &cfg.RetryAttempts)

	s.setBool("save", fc.Save, &cfg.Save)
	s.setBool("unpack", fc.Unpack, &cfg.Unpack)
	s.setBool("keep-failed", fc.KeepFailed, &cfg.KeepFailed)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
