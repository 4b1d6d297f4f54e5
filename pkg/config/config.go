package config

import (
	"time"

	"github.com/xyproto/env/v2"
)

// Environment variables understood by the CLI.
const (
	EnvRevision      = "MINIPL_REVISION"
	EnvDumpTokens    = "MINIPL_DUMP_TOKENS"
	EnvWatchDebounce = "MINIPL_WATCH_DEBOUNCE_MS"
	EnvScenarioDir   = "MINIPL_SCENARIO_DIR"
)

const (
	DefaultWatchDebounceMS = 100
	DefaultScenarioDir     = "testdata/scenarios"
)

// Config holds settings that command-line flags may override.
type Config struct {
	// Revision selects the git revision sources are read from; empty reads
	// the working tree.
	Revision      string
	DumpTokens    bool
	WatchDebounce time.Duration
	ScenarioDir   string
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Revision:      env.Str(EnvRevision),
		DumpTokens:    env.Bool(EnvDumpTokens),
		WatchDebounce: Debounce(env.Int(EnvWatchDebounce, DefaultWatchDebounceMS)),
		ScenarioDir:   env.Str(EnvScenarioDir, DefaultScenarioDir),
	}
}

// Debounce converts a millisecond setting, falling back to the default for
// negative values.
func Debounce(ms int) time.Duration {
	if ms < 0 {
		ms = DefaultWatchDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}
