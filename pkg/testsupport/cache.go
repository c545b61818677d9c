package testsupport

import (
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"
)

// NewCache returns a fresh in-process read cache and the default key
// serializer, as the container wires them.
func NewCache(t testing.TB) (repocache.CacheService, repocache.KeySerializer) {
	t.Helper()
	service, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	return service, repocache.NewDefaultKeySerializer()
}
