package pushclient

import (
	"context"

	"github.com/oliverisaac/pushdemo/types"
)

// ServiceWorkerPath is where the worker script is served and registered.
const ServiceWorkerPath = "/sw.js"

// Platform is the slice of the browser the controller needs: capability
// probes, the notification permission and service worker registration.
type Platform interface {
	SupportsServiceWorker() bool
	SupportsPushManager() bool
	SupportsShowNotification() bool

	Permission() types.Permission
	RequestPermission(ctx context.Context) (types.Permission, error)

	RegisterServiceWorker(ctx context.Context, scriptPath string) (Registration, error)
}

type SubscribeOptions struct {
	UserVisibleOnly      bool
	ApplicationServerKey []byte
}

// Registration is a registered service worker and its push manager.
type Registration interface {
	Scope() string
	// GetSubscription returns nil when the worker has no subscription yet.
	GetSubscription(ctx context.Context) (*types.SubscriptionJSON, error)
	Subscribe(ctx context.Context, opts SubscribeOptions) (*types.SubscriptionJSON, error)
}
