package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Notification content fallbacks used when a push payload omits a field.
const (
	DefaultNotificationTitle = "📅 Nueva Cita"
	DefaultNotificationBody  = "Nueva notificación"

	NotificationIcon  = "/static/icons/icon-192x192.png"
	NotificationBadge = "/static/icons/icon-72x72.png"
)

// Notification action identifiers. Any other interaction is a plain click.
const (
	ActionView    = "ver"
	ActionDismiss = "cerrar"
)

// CitaID is an appointment identifier that arrives on the wire either as
// a JSON string or as a number.
type CitaID string

// UnmarshalJSON accepts both `"7"` and `7`.
func (id *CitaID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""

		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = CitaID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = CitaID(n.String())

	return nil
}

func (id CitaID) String() string {
	return string(id)
}

// PushPayload is the inbound push message body. Every field is optional;
// absence of the whole body is valid.
type PushPayload struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
	URL    string `json:"url,omitempty"`
	CitaID CitaID `json:"citaId,omitempty"`
}

// NotificationAction is one tappable control attached to a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// NotificationData travels with the rendered notification and drives the
// interaction routing when the user taps it.
type NotificationData struct {
	URL       string    `json:"url"`
	CitaID    CitaID    `json:"citaId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationIntent is a fully resolved notification ready to render:
// content, presentation hints and the attached actions.
type NotificationIntent struct {
	ID      string               `json:"id"`
	Title   string               `json:"title"`
	Body    string               `json:"body"`
	Icon    string               `json:"icon"`
	Badge   string               `json:"badge"`
	Vibrate []int                `json:"vibrate,omitempty"`
	Data    NotificationData     `json:"data"`
	Actions []NotificationAction `json:"actions,omitempty"`
}
