// Package pushsender delivers encrypted payloads to browser push services.
package pushsender

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrSubscriptionGone means the push service no longer knows the subscription
// (404 or 410). The caller should drop it.
var ErrSubscriptionGone = errors.New("push subscription no longer active")

// ProviderError is any other non-2xx answer from the push service.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("push service responded with status %d: %s", e.StatusCode, e.Body)
}

type Provider interface {
	Send(ctx context.Context, sub *webpush.Subscription, payload []byte) error
}

type Options struct {
	VapidPublicKey  string
	VapidPrivateKey string
	Subscriber      string
	TTL             int
	Urgency         webpush.Urgency
	Topic           string
	HTTPClient      webpush.HTTPClient
}

// WebPush signs every request with the VAPID key pair it was built with.
type WebPush struct {
	opts Options
	log  logrus.FieldLogger
}

func NewWebPush(opts Options, log logrus.FieldLogger) (*WebPush, error) {
	if opts.VapidPublicKey == "" || opts.VapidPrivateKey == "" {
		return nil, errors.New("VAPID public and private keys are required")
	}
	// webpush-go adds the mailto: scheme itself.
	opts.Subscriber = strings.TrimPrefix(opts.Subscriber, "mailto:")
	if opts.Urgency == "" {
		opts.Urgency = webpush.UrgencyNormal
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WebPush{opts: opts, log: log}, nil
}

func (w *WebPush) Send(ctx context.Context, sub *webpush.Subscription, payload []byte) error {
	if sub == nil || sub.Endpoint == "" {
		return errors.New("no subscription to deliver to")
	}
	log := w.log.WithField("endpoint", truncate(sub.Endpoint, 50))

	log.Debugf("sending push notification: %s", string(payload))
	resp, err := webpush.SendNotificationWithContext(ctx, payload, sub, &webpush.Options{
		HTTPClient:      w.opts.HTTPClient,
		Subscriber:      w.opts.Subscriber,
		Topic:           w.opts.Topic,
		TTL:             w.opts.TTL,
		Urgency:         w.opts.Urgency,
		VAPIDPublicKey:  w.opts.VapidPublicKey,
		VAPIDPrivateKey: w.opts.VapidPrivateKey,
	})
	if err != nil {
		return errors.Wrap(err, "sending push notification")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "Reading response body from push service")
	}

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		log.Info("Subscriber no longer active")
		return errors.Wrapf(ErrSubscriptionGone, "status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	log.Debugf("Got resp body (%d): %s", resp.StatusCode, string(respBody))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
