// Package responsecache stores raw API response bodies keyed by request URL
// together with a metadata row recording when each body was written.
//
// Bodies and metadata rows are always written and pruned in the same
// transaction, so every cached body has exactly one metadata row.
package responsecache
