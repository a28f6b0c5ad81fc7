// Package stories is the saved-stories partition of the local store.
//
// Stories are keyed by id (offline or server-assigned). A synced story stays
// in the partition with is_synced set; nothing here deletes on sync.
package stories
