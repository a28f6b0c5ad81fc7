// Package messaging defines the messages exchanged between the relay daemon
// and foreground clients. The set of kinds is closed: Decode rejects any
// kind not listed here.
package messaging

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/journify/internal/client/models"
)

type Kind string

const (
	KindSyncStories              Kind = "sync-stories"
	KindShowToast                Kind = "show-toast"
	KindStoreOfflineNotification Kind = "store-offline-notification"
	KindHello                    Kind = "hello"
	KindNavigate                 Kind = "navigate"
	KindFocus                    Kind = "focus"
)

var (
	ErrUnknownKind = errors.New("unknown message kind")
	ErrMalformed   = errors.New("malformed message")
)

// Message is implemented only by the types in this package.
type Message interface {
	Kind() Kind
	isMessage()
}

// SyncStories asks the receiver to drain its pending queue.
type SyncStories struct {
	Tag string `json:"tag,omitempty"`
}

type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastWarning ToastLevel = "warning"
	ToastError   ToastLevel = "error"
)

// ShowToast asks the receiver to display transient in-app feedback.
type ShowToast struct {
	Message string     `json:"message"`
	Level   ToastLevel `json:"level,omitempty"`
}

// StoreOfflineNotification hands a notification to a client that was not
// active when it arrived. ID is set when the sender already persisted it.
type StoreOfflineNotification struct {
	ID           int64                      `json:"id,omitempty"`
	Notification models.NotificationPayload `json:"notification"`
}

// Hello registers a client with the relay.
type Hello struct {
	ClientID string `json:"client_id"`
	URL      string `json:"url"`
}

// Navigate tells the relay which url a client now shows.
type Navigate struct {
	URL string `json:"url"`
}

// Focus asks a client to bring itself to the front at URL.
type Focus struct {
	URL string `json:"url"`
}

func (SyncStories) Kind() Kind              { return KindSyncStories }
func (ShowToast) Kind() Kind                { return KindShowToast }
func (StoreOfflineNotification) Kind() Kind { return KindStoreOfflineNotification }
func (Hello) Kind() Kind                    { return KindHello }
func (Navigate) Kind() Kind                 { return KindNavigate }
func (Focus) Kind() Kind                    { return KindFocus }

func (SyncStories) isMessage()              {}
func (ShowToast) isMessage()                {}
func (StoreOfflineNotification) isMessage() {}
func (Hello) isMessage()                    {}
func (Navigate) isMessage()                 {}
func (Focus) isMessage()                    {}

// Envelope is the wire form: {"type": kind, "payload": {...}}.
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func Wrap(m Message) (Envelope, error) {
	if m == nil {
		return Envelope{}, fmt.Errorf("%w: nil message", ErrMalformed)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: m.Kind(), Payload: b}, nil
}

func (e Envelope) Unwrap() (Message, error) {
	switch e.Type {
	case KindSyncStories:
		return decodeAs[SyncStories](e)
	case KindShowToast:
		return decodeAs[ShowToast](e)
	case KindStoreOfflineNotification:
		return decodeAs[StoreOfflineNotification](e)
	case KindHello:
		return decodeAs[Hello](e)
	case KindNavigate:
		return decodeAs[Navigate](e)
	case KindFocus:
		return decodeAs[Focus](e)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, e.Type)
	}
}

func decodeAs[T Message](e Envelope) (Message, error) {
	var v T
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, e.Type, err)
	}
	return v, nil
}

func Encode(m Message) ([]byte, error) {
	env, err := Wrap(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func Decode(b []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return env.Unwrap()
}
