// File: utils/constants.go
package utils

// Redis key prefixes.
const (
	MonthCachePrefix   = "schedule:month:"
	CacheGenerationKey = "schedule:generation"
	ImportLockKey      = "roster:import:lock"
)
