package providers

import (
	"steamdash/internal/structures"
	"strings"
)

// MetricsCacheProvider counts hits and misses of the response cache.
// Keys look like "profile:<rev>" or "games:<sort>:<rev>"; only the leading
// segment is logged so the debug output stays readable.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
	logger  Logger
}

func (c *MetricsCacheProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
		if c.logger != nil {
			c.logger.Debugf(TypeApp, "Cache miss for %s view", cacheKind(key))
		}
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(key string, value []byte) {
	c.inner.Set(key, value)
}

func cacheKind(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

// NewInstrumentedCacheProvider returns the plain noop cache when caching is
// off, so disabled deployments report no phantom misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	inner := NewCacheProvider(conf, logger)
	if _, ok := inner.(*noopCache); ok {
		return inner
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
		logger:  logger,
	}
}
