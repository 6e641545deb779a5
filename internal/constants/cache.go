package constants

import "time"

const (
	UserCachePrefix = "user_id" // Single cache by user ID (CacheBuilder adds colon)
	UserCacheExpiry = 24 * time.Hour
)
