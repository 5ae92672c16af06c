package providers

import (
	"github.com/coocood/freecache"
	"steamdash/internal/structures"
	"time"
	"unsafe"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider holds rendered dashboard responses. Keys carry the view
// revision, so an entry never outlives the refresh cycle that produced it.
type CacheProvider struct {
	cache  *freecache.Cache
	prefix string
	ttl    int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := cacheTTL(conf.Cache.TTL, conf.Refresh.Interval)

	prefix := ""
	if conf.Settings.Namespace != "" {
		prefix = conf.Settings.Namespace + ":"
	}

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds, prefix=%q", conf.Cache.Size, ttl, prefix)

	return &CacheProvider{
		cache:  freecache.NewCache(sizeBytes),
		prefix: prefix,
		ttl:    ttl,
	}
}

// cacheTTL bounds the configured TTL by the refresh interval. Responses for
// an older revision are unreachable once a new cycle publishes.
func cacheTTL(ttl, refresh time.Duration) int {
	if refresh > 0 && (ttl <= 0 || refresh < ttl) {
		ttl = refresh
	}
	return max(int(ttl.Seconds()), 1)
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys, so the result is never written to.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(c.prefix + key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.cache.Set(unsafeStringToBytes(c.prefix+key), value, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
