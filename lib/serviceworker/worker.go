// Package serviceworker renders incoming pushes as notifications and opens the
// click target, mirroring static/sw.js.
package serviceworker

import (
	"context"
	"encoding/json"

	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ShowOptions are the options passed to showNotification.
type ShowOptions struct {
	Body               string         `json:"body,omitempty"`
	Icon               string         `json:"icon,omitempty"`
	Badge              string         `json:"badge,omitempty"`
	Image              string         `json:"image,omitempty"`
	Tag                string         `json:"tag,omitempty"`
	RequireInteraction bool           `json:"requireInteraction"`
	Silent             bool           `json:"silent"`
	Data               map[string]any `json:"data,omitempty"`
}

type Registration interface {
	ShowNotification(ctx context.Context, title string, opts ShowOptions) error
}

type Clients interface {
	OpenWindow(ctx context.Context, url string) error
}

// PushEvent carries the decrypted push payload. Data is nil when the push had none.
type PushEvent struct {
	Data []byte
}

type Notification interface {
	Close()
	Data() map[string]any
}

type NotificationClickEvent struct {
	Notification Notification
}

type Worker struct {
	reg     Registration
	clients Clients
	origin  string
	log     logrus.FieldLogger
}

// New builds a Worker. origin is the worker's own origin, used as the click
// target when a push names none.
func New(reg Registration, clients Clients, origin string, log logrus.FieldLogger) *Worker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Worker{reg: reg, clients: clients, origin: origin, log: log}
}

func (w *Worker) OnInstall(context.Context) error {
	w.log.Info("service worker installed.")
	return nil
}

func (w *Worker) OnPush(ctx context.Context, ev PushEvent) error {
	if ev.Data == nil {
		return nil
	}

	var payload types.Notification
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return errors.Wrap(err, "parsing push payload")
	}

	title, opts := w.notificationFor(payload)
	if err := w.reg.ShowNotification(ctx, title, opts); err != nil {
		return errors.Wrap(err, "showing notification")
	}

	w.log.Info("Web push delivered.")
	return nil
}

// notificationFor keeps the payload's text, image and url; icon, badge, tag
// and sound follow the app's fixed policy.
func (w *Worker) notificationFor(p types.Notification) (string, ShowOptions) {
	title := p.Title
	if title == "" {
		title = types.DefaultNotificationTitle
	}

	url := p.URL
	if url == "" {
		url = w.origin
	}

	return title, ShowOptions{
		Body:               p.Body,
		Icon:               types.DefaultIcon,
		Badge:              types.DefaultBadge,
		Image:              p.Image,
		Tag:                types.DefaultNotificationTag,
		RequireInteraction: false,
		Silent:             false,
		Data: map[string]any{
			"url": url,
		},
	}
}

func (w *Worker) OnNotificationClick(ctx context.Context, ev NotificationClickEvent) error {
	ev.Notification.Close()

	url, _ := ev.Notification.Data()["url"].(string)
	if url == "" {
		return nil
	}
	return errors.Wrapf(w.clients.OpenWindow(ctx, url), "opening %s", url)
}
