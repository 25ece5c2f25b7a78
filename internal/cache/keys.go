package cache

import (
	"crypto/sha1"
	"fmt"
	"time"
)

const (
	SearchTTL   = 90 * time.Second
	LocationTTL = 5 * time.Minute
	BoroughTTL  = 5 * time.Minute
	MentionTTL  = 10 * time.Minute
)

// SearchKey generates the Redis key for free-text search results.
func SearchKey(query string, limit int) string {
	hash := sha1.Sum([]byte(fmt.Sprintf("%s|%d", query, limit)))
	return fmt.Sprintf("art:v1:search:%x", hash)
}

// LocationKey generates the Redis key for location-text search results.
func LocationKey(location string, limit int) string {
	hash := sha1.Sum([]byte(fmt.Sprintf("%s|%d", location, limit)))
	return fmt.Sprintf("art:v1:location:%x", hash)
}

// BoroughKey generates the Redis key for borough query results.
func BoroughKey(borough string, limit int) string {
	hash := sha1.Sum([]byte(fmt.Sprintf("%s|%d", borough, limit)))
	return fmt.Sprintf("art:v1:borough:%x", hash)
}

// MentionKey generates the Redis key for location-mention probes. The
// extractor's sliding-window stage can issue several of these per
// message, which makes them the hottest cacheable lookup.
func MentionKey(phrase string) string {
	hash := sha1.Sum([]byte(phrase))
	return fmt.Sprintf("art:v1:mention:%x", hash)
}

// RateLimitKey generates the Redis key for per-client rate limiting.
func RateLimitKey(clientIP string, window time.Time) string {
	return fmt.Sprintf("ratelimit:ip:%s:%d", clientIP, window.Unix())
}
