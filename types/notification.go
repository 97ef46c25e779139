package types

// DefaultNotificationTitle is shown when a push payload carries no title.
const DefaultNotificationTitle = "Bijak Uangmu"

// DefaultNotificationTag groups every demo notification so a new one replaces the last.
const DefaultNotificationTag = "bijak-uangmu"

// Fixed assets served from /static.
const (
	DefaultIcon  = "/static/icon-192.svg"
	DefaultBadge = "/static/badge-96.svg"
	DefaultImage = "/static/banner.svg"
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type NotificationAction struct {
	Action string `json:"action" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Icon   string `json:"icon,omitempty" validate:"omitempty,uri"`
}

// Notification is the JSON payload relayed by the push provider to the service worker.
type Notification struct {
	Title              string               `json:"title"`
	Body               string               `json:"body"`
	Icon               string               `json:"icon,omitempty" validate:"omitempty,uri"`
	Badge              string               `json:"badge,omitempty" validate:"omitempty,uri"`
	Image              string               `json:"image,omitempty" validate:"omitempty,uri"`
	URL                string               `json:"url,omitempty" validate:"omitempty,uri"`
	Tag                string               `json:"tag,omitempty"`
	RequireInteraction bool                 `json:"requireInteraction"`
	Renotify           bool                 `json:"renotify"`
	Silent             bool                 `json:"silent"`
	Actions            []NotificationAction `json:"actions" validate:"omitempty,dive"`
	Data               map[string]any       `json:"data,omitempty"`
}

// NotificationOptions are the display options a caller may set on top of the
// client defaults. Zero values mean "keep the default".
type NotificationOptions struct {
	Icon               string         `json:"icon,omitempty" validate:"omitempty,uri"`
	Badge              string         `json:"badge,omitempty" validate:"omitempty,uri"`
	Image              string         `json:"image,omitempty" validate:"omitempty,uri"`
	URL                string         `json:"url,omitempty" validate:"omitempty,uri"`
	Tag                string         `json:"tag,omitempty"`
	RequireInteraction *bool          `json:"requireInteraction,omitempty"`
	Data               map[string]any `json:"data,omitempty"`
}

// SendRequest is the body accepted by the send endpoint.
type SendRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Body    string `json:"body,omitempty"`
	NotificationOptions
	Renotify bool                 `json:"renotify"`
	Silent   bool                 `json:"silent"`
	Actions  []NotificationAction `json:"actions" validate:"omitempty,dive"`
}

// Notification builds the provider payload. Body falls back to Message.
func (r SendRequest) Notification() Notification {
	body := r.Body
	if body == "" {
		body = r.Message
	}
	n := Notification{
		Title:    r.Title,
		Body:     body,
		Icon:     r.Icon,
		Badge:    r.Badge,
		Image:    r.Image,
		URL:      r.URL,
		Tag:      r.Tag,
		Renotify: r.Renotify,
		Silent:   r.Silent,
		Actions:  r.Actions,
		Data:     r.Data,
	}
	if r.RequireInteraction != nil {
		n.RequireInteraction = *r.RequireInteraction
	}
	if n.URL == "" {
		if u, ok := r.Data["url"].(string); ok {
			n.URL = u
		}
	}
	if n.Actions == nil {
		n.Actions = []NotificationAction{}
	}
	return n
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
