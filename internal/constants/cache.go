package constants

const (
	CacheKeyCatalog         = "catalog:snapshot"
	CacheKeyCartPrefix      = "cart:"
	CacheKeyRateLimitPrefix = "order:ratelimit:"
)
