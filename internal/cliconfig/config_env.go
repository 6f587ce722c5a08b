package cliconfig

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnvConfig applies configuration from environment variables (FERN_*).
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("max-chunk", os.Getenv("FERN_MAX_CHUNK_MB"), &cfg.MaxChunkMB); err != nil {
		return err
	}
	s.setString("overflow", os.Getenv("FERN_OVERFLOW"), &cfg.Overflow)
	s.setString("prefix", os.Getenv("FERN_PREFIX"), &cfg.Prefix)
	s.setString("output-url", os.Getenv("FERN_OUTPUT_URL"), &cfg.OutputURL)
	s.setString("user-agent", os.Getenv("FERN_USER_AGENT"), &cfg.UserAgent)
	s.setString("journal", os.Getenv("FERN_JOURNAL_PATH"), &cfg.JournalPath)
	s.setString("fedcatalog-url", os.Getenv("FERN_FEDCATALOG_URL"), &cfg.FedCatalogURL)
	s.setString("event-url", os.Getenv("FERN_EVENT_URL"), &cfg.EventURL)
	s.setString("station-url", os.Getenv("FERN_STATION_URL"), &cfg.StationURL)

	if err := s.setDuration("timeout", os.Getenv("FERN_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-backoff", os.Getenv("FERN_RETRY_BACKOFF"), &cfg.RetryBackoff); err != nil {
		return err
	}
	if err := s.setIntFromString("retries", os.Getenv("FERN_RETRY_ATTEMPTS"), &cfg.RetryAttempts); err != nil {
		return err
	}

	s.setBoolFromString("save", os.Getenv("FERN_SAVE_FILES"), &cfg.Save)
	s.setBoolFromString("unpack", os.Getenv("FERN_UNPACK"), &cfg.Unpack)
	s.setBoolFromString("keep-failed", os.Getenv("FERN_KEEP_FAILED"), &cfg.KeepFailed)
	s.setBoolFromString("verbose", os.Getenv("FERN_VERBOSE"), &cfg.Verbose)

	return nil
}
