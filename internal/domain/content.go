package domain

import (
	"errors"
	"time"
)

// Category identifies one generated-content feed.
type Category string

const (
	CategoryLuck   Category = "luck"
	CategoryJokes  Category = "jokes"
	CategoryStocks Category = "stocks"
	CategoryNews   Category = "news"
	CategoryMotor  Category = "motor"
)

// CachedCategories lists the categories served by the refresh cache,
// in no particular order.
func CachedCategories() []Category {
	return []Category{CategoryLuck, CategoryJokes, CategoryStocks, CategoryNews}
}

// ParseCategory validates a request path segment against the cached set.
// Parameters:
//   - s: raw category string from the request.
// Returns:
//   - Category: parsed category.
//   - bool: false if s is not a cached category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range CachedCategories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// ContentItem is one generated entry inside a category snapshot.
// Items are immutable once produced and have no identity beyond
// their position in the snapshot.
type ContentItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CategorySnapshot is the ordered result of one successful refresh.
// Snapshots are replaced wholesale; partial merges never occur.
type CategorySnapshot struct {
	Items       []ContentItem `json:"items"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

// MotorCommand is the interpreted result of a motor utterance.
type MotorCommand struct {
	Title string `json:"title"`
	Angle int    `json:"angle"`
}

// Sentinel errors shared across services and handlers.
var (
	// ErrGenerationFailed covers network errors, non-2xx upstream responses,
	// and malformed generation payloads.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNotFound marks lookups that reference a missing record.
	ErrNotFound = errors.New("not found")
)
