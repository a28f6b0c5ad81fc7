package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SyncType tags the write a PendingSync replays.
type SyncType string

const (
	SyncTypeAddStory SyncType = "add-story"
)

type SyncStatus string

const (
	SyncStatusPending    SyncStatus = "pending"
	SyncStatusAttempting SyncStatus = "attempting"
	SyncStatusCompleted  SyncStatus = "completed"
	SyncStatusFailed     SyncStatus = "failed"
)

var ErrUnknownSyncType = errors.New("unknown sync type")

// PendingSync is one queued write waiting for a drain.
type PendingSync struct {
	ID        int64           `json:"id"`
	Type      SyncType        `json:"type"`
	OfflineID string          `json:"offlineId"`
	Payload   json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Status    SyncStatus      `json:"status"`
}

// AddStoryPayload is everything needed to replay an add-story write.
type AddStoryPayload struct {
	Description string   `json:"description"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	PhotoPath   string   `json:"photoPath,omitempty"`
}

// NewPendingSync builds an entry whose payload is v encoded as JSON.
func NewPendingSync[T any](t SyncType, offlineID string, v T) (PendingSync, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return PendingSync{}, err
	}
	return PendingSync{Type: t, OfflineID: offlineID, Payload: b}, nil
}

// Decode unmarshals the payload into the type registered for e.Type.
func (e PendingSync) Decode() (any, error) {
	switch e.Type {
	case SyncTypeAddStory:
		var v AddStoryPayload
		if err := json.Unmarshal(e.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", e.Type, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyncType, e.Type)
	}
}
