package service

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// PageKey returns the cache key for a list page. The canonical query string
// is used so equal filter states share one entry.
func PageKey(f domain.FilterState) string {
	return location.Encode(f)
}
