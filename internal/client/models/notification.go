package models

import (
	"encoding/json"
	"time"
)

// DefaultVibrate is the vibration pattern used when a push omits one.
var DefaultVibrate = []int{100, 50, 100}

type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// NotificationData is the free-form data object of a notification. URL is
// the click target; any other keys are preserved in Extra.
type NotificationData struct {
	URL   string
	Extra map[string]any
}

func (d NotificationData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		m[k] = v
	}
	if d.URL != "" {
		m["url"] = d.URL
	}
	return json.Marshal(m)
}

func (d *NotificationData) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*d = NotificationData{}
	if u, ok := m["url"].(string); ok {
		d.URL = u
		delete(m, "url")
	}
	if len(m) > 0 {
		d.Extra = m
	}
	return nil
}

// NotificationPayload is a parsed push message.
type NotificationPayload struct {
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon,omitempty"`
	Badge   string               `json:"badge,omitempty"`
	Image   string               `json:"image,omitempty"`
	Data    NotificationData     `json:"data"`
	Actions []NotificationAction `json:"actions,omitempty"`
	Vibrate []int                `json:"vibrate,omitempty"`
	Tag     string               `json:"tag,omitempty"`
}

// TargetURL is the url a click on the notification should open.
func (p NotificationPayload) TargetURL() string {
	if p.Data.URL == "" {
		return "/"
	}
	return p.Data.URL
}

// DeferredNotification is a push payload kept for in-app display once a
// client becomes active.
type DeferredNotification struct {
	ID int64 `json:"id"`
	NotificationPayload
	Timestamp time.Time `json:"timestamp"`
	Shown     bool      `json:"shown"`
}
