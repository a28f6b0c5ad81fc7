package models

import "time"

// CacheEntry is one cached response body keyed by request URL. WrittenAt
// comes from the metadata row written in the same transaction.
type CacheEntry struct {
	URL       string
	Body      []byte
	WrittenAt time.Time
}
