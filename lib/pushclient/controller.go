// Package pushclient drives a browser through permission, service worker
// registration and push subscription, and talks to the push server.
package pushclient

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrMissingPublicKey = errors.New("VAPID public key is not set")

// Reason says why a Result carries no subscription.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnsupported
	ReasonDenied
	ReasonFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "subscribed"
	case ReasonUnsupported:
		return "unsupported"
	case ReasonDenied:
		return "denied"
	case ReasonFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of a subscribe attempt. Either Subscription is set, or
// Reason (and for ReasonFailed, Err) explains why not.
type Result struct {
	Subscription *types.SubscriptionJSON
	Reason       Reason
	Err          error
}

func (r Result) Subscribed() bool {
	return r.Subscription != nil
}

func noSubscription(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}

type Config struct {
	// ServerURL is the base URL of the push server, e.g. http://localhost:8080.
	ServerURL string
	// Origin is the page origin, the default click target of sent notifications.
	Origin         string
	VapidPublicKey string
	HTTPClient     *http.Client
	Log            logrus.FieldLogger
}

type Controller struct {
	platform  Platform
	serverURL string
	origin    string
	publicKey string
	http      *http.Client
	log       logrus.FieldLogger
}

// New builds a Controller. platform may be nil for callers that only send pushes.
func New(platform Platform, cfg Config) *Controller {
	c := &Controller{
		platform:  platform,
		serverURL: strings.TrimSuffix(cfg.ServerURL, "/"),
		origin:    cfg.Origin,
		publicKey: cfg.VapidPublicKey,
		http:      cfg.HTTPClient,
		log:       cfg.Log,
	}
	if c.origin == "" {
		c.origin = c.serverURL
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// IsUnsupported reports whether the platform is missing any of service
// workers, the push manager or notification display.
func (c *Controller) IsUnsupported() bool {
	p := c.platform
	return p == nil ||
		!p.SupportsServiceWorker() ||
		!p.SupportsPushManager() ||
		!p.SupportsShowNotification()
}

// ActOnPermission subscribes when permission is granted, asks first when it has
// not been decided, and gives up without asking when it was denied.
func (c *Controller) ActOnPermission(ctx context.Context) Result {
	if c.IsUnsupported() {
		c.log.Error("Push notifications are not supported")
		return noSubscription(ReasonUnsupported, nil)
	}

	switch state := c.platform.Permission(); state {
	case types.PermissionGranted:
		return c.RegisterAndSubscribe(ctx)
	case types.PermissionDefault:
		return c.requestPermission(ctx)
	default:
		c.log.Info("Notification permission denied")
		return noSubscription(ReasonDenied, nil)
	}
}

func (c *Controller) requestPermission(ctx context.Context) Result {
	permission, err := c.platform.RequestPermission(ctx)
	if err != nil {
		err = errors.Wrap(err, "requesting notification permission")
		c.log.Error(err)
		return noSubscription(ReasonFailed, err)
	}
	if permission != types.PermissionGranted {
		c.log.Info("Notification permission not granted")
		return noSubscription(ReasonDenied, nil)
	}
	return c.RegisterAndSubscribe(ctx)
}

// RegisterAndSubscribe registers the service worker and subscribes through it.
// A failed registration is not retried.
func (c *Controller) RegisterAndSubscribe(ctx context.Context) Result {
	if c.IsUnsupported() {
		return noSubscription(ReasonUnsupported, nil)
	}

	reg, err := c.platform.RegisterServiceWorker(ctx, ServiceWorkerPath)
	if err != nil {
		err = errors.Wrap(err, "registering service worker")
		c.log.Error(err)
		return noSubscription(ReasonFailed, err)
	}
	c.log.Infof("Service worker registered with scope %s", reg.Scope())

	sub, err := c.subscribe(ctx, reg)
	if err != nil {
		err = errors.Wrap(err, "creating subscription")
		c.log.Error(err)
		return noSubscription(ReasonFailed, err)
	}
	return Result{Subscription: sub}
}

// subscribe reuses the registration's subscription when there is one and
// otherwise creates a user-visible one. Either way the server gets a copy.
func (c *Controller) subscribe(ctx context.Context, reg Registration) (*types.SubscriptionJSON, error) {
	sub, err := reg.GetSubscription(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting existing subscription")
	}

	if sub == nil {
		if c.publicKey == "" {
			return nil, ErrMissingPublicKey
		}
		key, err := DecodeApplicationServerKey(c.publicKey)
		if err != nil {
			return nil, errors.Wrap(err, "decoding VAPID public key")
		}
		sub, err = reg.Subscribe(ctx, SubscribeOptions{
			UserVisibleOnly:      true,
			ApplicationServerKey: key,
		})
		if err != nil {
			return nil, errors.Wrap(err, "subscribing to push manager")
		}
	}

	if err := c.SubmitSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DecodeApplicationServerKey turns an unpadded URL-safe base64 key into raw bytes.
func DecodeApplicationServerKey(s string) ([]byte, error) {
	padding := strings.Repeat("=", (4-len(s)%4)%4)
	std := strings.NewReplacer("-", "+", "_", "/").Replace(s + padding)
	return base64.StdEncoding.DecodeString(std)
}
