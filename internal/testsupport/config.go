package testsupport

import (
	"path/filepath"
	"testing"

	"pilesort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scan.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMatching overrides the pair match tunables on the test config.
func WithMatching(threshold, windowMinutes int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.HashThreshold = threshold
		b.cfg.Matching.TimeWindowMinutes = windowMinutes
	}
}

// WithFingerprintCache toggles the on-disk fingerprint cache.
func WithFingerprintCache(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Fingerprints = enabled
	}
}

// WithHandleCapacity overrides the preview handle cache capacity.
func WithHandleCapacity(capacity int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.HandleCapacity = capacity
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
