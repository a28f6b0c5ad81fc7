// Package common defines shared constants and sentinel errors used across
// the Journify client, relay and dev API. Callers should use errors.Is /
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when a keyed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")
)

// Partition names of the local durable store.
const (
	PartitionStories       = "saved-stories"
	PartitionFavorites     = "favorites"
	PartitionPendingSync   = "pending-sync"
	PartitionNotifications = "offline-notifications"
	PartitionMetadata      = "metadata"
	PartitionResponseCache = "response-cache"
)

// StorageError reports a failed durable-storage operation on one partition.
// Nothing written by the failed operation should be assumed to have persisted.
type StorageError struct {
	Partition string
	Op        string
	Err       error
}

// NewStorageError wraps err, returning nil when err is nil.
func NewStorageError(partition, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Partition: partition, Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s/%s: %v", e.Partition, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
