package testsupport

import (
	"testing"

	"pilesort/internal/config"
	"pilesort/internal/hashcache"
)

// MustOpenStore opens a hashcache.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *hashcache.Store {
	t.Helper()

	store, err := hashcache.Open(cfg.Paths.CacheDir)
	if err != nil {
		t.Fatalf("hashcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
