// Package store holds the server's copies of browser push subscriptions.
//
// Two modes are supported. In single mode the store keeps at most one record and
// every Put replaces it, whatever its subscriber id. In keyed mode records are keyed
// by subscriber id and Put upserts.
package store

import (
	"context"
	"errors"

	"github.com/oliverisaac/pushdemo/types"
)

var ErrNotFound = errors.New("no subscription stored")

type Mode int

const (
	Single Mode = iota
	Keyed
)

func ModeFromConfig(cfg types.Config) Mode {
	if cfg.Keyed() {
		return Keyed
	}
	return Single
}

type Store interface {
	// Put stores sub under its SubscriberID.
	Put(ctx context.Context, sub types.PushSubscription) error

	// Get returns the record for a subscriber id, or ErrNotFound.
	Get(ctx context.Context, subscriberID string) (types.PushSubscription, error)

	// Latest returns the most recently stored record, or ErrNotFound.
	Latest(ctx context.Context) (types.PushSubscription, error)

	// Delete removes the record for a subscriber id. Deleting a missing record is not an error.
	Delete(ctx context.Context, subscriberID string) error

	// List returns every record, most recent first.
	List(ctx context.Context) ([]types.PushSubscription, error)

	Close() error
}
