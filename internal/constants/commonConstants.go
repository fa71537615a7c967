package constants

import "time"

type CachePrefix string

const (
	CachePrefixProduct CachePrefix = "PRODUCT_"
	CachePrefixStats   CachePrefix = "PRODUCT_STATS"

	ProductCacheTTL = 5 * time.Minute
	StatsCacheTTL   = 30 * time.Second

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Key builds a cache key under this prefix.
func (p CachePrefix) Key(id string) string { return string(p) + id }
