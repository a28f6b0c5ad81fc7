// Package models defines the client-side data model shared by the local
// store, the remote gateway and the services.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/journify/internal/common"
)

// Story is a user-submitted item: text, optional photo and optional location.
//
// Stories created on this device carry an offline id until the server
// assigns one; the local copy is never deleted on sync, only flagged.
type Story struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PhotoURL    string     `json:"photoUrl,omitempty"`
	PhotoPath   string     `json:"photoPath,omitempty"`
	Lat         *float64   `json:"lat"`
	Lon         *float64   `json:"lon"`
	CreatedAt   time.Time  `json:"createdAt"`
	IsManual    bool       `json:"isManual,omitempty"`
	IsSynced    bool       `json:"isSynced"`
	SyncedAt    *time.Time `json:"syncedAt,omitempty"`
}

// NewOfflineID returns an id of the form offline-<unixMillis>-<9 base36 chars>.
func NewOfflineID(now time.Time) string {
	return fmt.Sprintf("%s%d-%s", common.OfflineIDPrefix, now.UnixMilli(), common.RandBase36(9))
}

// IsOfflineID reports whether id was generated on this device.
func IsOfflineID(id string) bool {
	return strings.HasPrefix(id, common.OfflineIDPrefix)
}

func (s Story) IsOffline() bool { return IsOfflineID(s.ID) }

// HasLocation reports whether both coordinates are set.
func (s Story) HasLocation() bool { return s.Lat != nil && s.Lon != nil }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
