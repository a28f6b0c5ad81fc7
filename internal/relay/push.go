package relay

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const pushSchemaURL = "journify://schemas/push.json"

const pushSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title":   {"type": "string"},
    "body":    {"type": "string"},
    "icon":    {"type": "string"},
    "badge":   {"type": "string"},
    "image":   {"type": "string"},
    "url":     {"type": "string"},
    "tag":     {"type": "string"},
    "data":    {"type": "object", "properties": {"url": {"type": "string"}}},
    "vibrate": {"type": "array", "items": {"type": "integer", "minimum": 0}},
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action", "title"],
        "properties": {
          "action": {"type": "string"},
          "title":  {"type": "string"},
          "icon":   {"type": "string"}
        }
      }
    }
  }
}`

const (
	DefaultTitle = "New notification"
	fallbackBody = "You received a notification."
)

// PushParser turns raw push bodies into notification payloads.
type PushParser struct {
	schema      *jsonschema.Schema
	defaultIcon string
}

func NewPushParser(defaultIcon string) (*PushParser, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(pushSchema))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(pushSchemaURL, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(pushSchemaURL)
	if err != nil {
		return nil, err
	}
	return &PushParser{schema: sch, defaultIcon: defaultIcon}, nil
}

// pushExtras holds the top-level fields that only steer defaults.
type pushExtras struct {
	URL  string          `json:"url"`
	Data json.RawMessage `json:"data"`
}

// Parse never fails. A body that is not a JSON object matching the push
// schema is shown as text under a generic title; an empty body gets the
// generic title and body. Missing fields are defaulted.
func (p *PushParser) Parse(raw []byte) models.NotificationPayload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return p.defaults(models.NotificationPayload{Title: DefaultTitle, Body: fallbackBody}, pushExtras{})
	}

	if n, extras, ok := p.decode(raw); ok {
		return p.defaults(n, extras)
	}

	body := string(raw)
	if !utf8.ValidString(body) {
		body = strings.ToValidUTF8(body, "")
	}
	return p.defaults(models.NotificationPayload{Title: "Notification", Body: body}, pushExtras{})
}

func (p *PushParser) decode(raw []byte) (models.NotificationPayload, pushExtras, bool) {
	var (
		n      models.NotificationPayload
		extras pushExtras
	)
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return n, extras, false
	}
	if err := p.schema.Validate(inst); err != nil {
		return n, extras, false
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		return n, extras, false
	}
	if err := json.Unmarshal(raw, &extras); err != nil {
		return n, extras, false
	}
	return n, extras, true
}

func (p *PushParser) defaults(n models.NotificationPayload, extras pushExtras) models.NotificationPayload {
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if n.Icon == "" {
		n.Icon = p.defaultIcon
	}
	if n.Badge == "" {
		n.Badge = p.defaultIcon
	}
	// a data object given by the sender is kept as is
	if len(extras.Data) == 0 || string(extras.Data) == "null" {
		n.Data = models.NotificationData{URL: extras.URL}
		if n.Data.URL == "" {
			n.Data.URL = "/"
		}
	}
	if len(n.Actions) == 0 {
		n.Actions = []models.NotificationAction{{Action: "open", Title: "Open", Icon: p.defaultIcon}}
	}
	if len(n.Vibrate) == 0 {
		n.Vibrate = models.DefaultVibrate
	}
	return n
}
