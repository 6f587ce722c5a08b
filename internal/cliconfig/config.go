package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/savage13/fern/internal/chunk"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
)

// Defaults used when nothing else is configured.
const (
	DefaultMaxChunkMB    = 200
	DefaultPrefix        = "fdsnws"
	DefaultHTTPTimeout   = 10 * time.Minute
	DefaultRetryAttempts = 2
	DefaultRetryBackoff  = time.Second
	DefaultUserAgent     = "fern/1.0"
)

// Config holds CLI configuration for fern.
type Config struct {
	// MaxChunkMB is the estimated size budget per data center request, in MiB.
	MaxChunkMB int
	Overflow   string

	Prefix    string
	OutputURL string
	Save      bool
	Unpack    bool

	HTTPTimeout   time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	UserAgent     string

	KeepFailed    bool
	JournalPath   string
	FedCatalogURL string

	// EventURL is the event service searched by "fern events".
	EventURL string
	// StationURL is the station service searched by "fern stations".
	StationURL string

	Verbose bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxChunkMB:    DefaultMaxChunkMB,
		Overflow:      chunk.OverflowBefore.String(),
		Prefix:        DefaultPrefix,
		OutputURL:     ".",
		HTTPTimeout:   DefaultHTTPTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryBackoff:  DefaultRetryBackoff,
		UserAgent:     DefaultUserAgent,
		FedCatalogURL: fdsn.FedCatalogURL,
		EventURL:      fdsn.EventUSGSURL,
		StationURL:    fdsn.StationIRISURL,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.MaxChunkMB <= 0 {
		return fmt.Errorf("%w: max-chunk %d MiB", domain.ErrInvalidBudget, c.MaxChunkMB)
	}
	if _, err := chunk.ParseOverflow(c.Overflow); err != nil {
		return err
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.OutputURL == "" {
		c.OutputURL = "."
	}
	if c.FedCatalogURL == "" {
		c.FedCatalogURL = fdsn.FedCatalogURL
	}
	if c.EventURL == "" {
		c.EventURL = fdsn.EventUSGSURL
	}
	if c.StationURL == "" {
		c.StationURL = fdsn.StationIRISURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must not be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff must not be negative")
	}
	return nil
}

// MaxChunkBytes returns the chunk budget in bytes.
func (c *Config) MaxChunkBytes() int64 {
	return int64(c.MaxChunkMB) << 20
}

// ChunkOptions returns chunker options for the configured budget and policy.
func (c *Config) ChunkOptions() (chunk.Options, error) {
	policy, err := chunk.ParseOverflow(c.Overflow)
	if err != nil {
		return chunk.Options{}, err
	}
	return chunk.Options{MaxBytes: c.MaxChunkBytes(), Overflow: policy}, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value, zero included, if present and flag not changed.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero is accepted so retries can be disabled from the environment.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
