package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/oliverisaac/pushdemo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSub(t *testing.T, endpoint string) types.PushSubscription {
	t.Helper()
	sub, err := types.NewPushSubscription(types.SubscriptionJSON{
		Endpoint: endpoint,
	})
	require.NoError(t, err)
	sub.P256DH = "p256-" + endpoint
	sub.Auth = "auth-" + endpoint
	return sub
}

func stores(t *testing.T, mode Mode) map[string]Store {
	t.Helper()
	g, err := OpenSQLite(":memory:", mode)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	return map[string]Store{
		"memory": NewMemory(mode),
		"gorm":   g,
	}
}

func TestStore_EmptyHasNothing(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, Single) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Latest(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStore_SingleModeOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, Single) {
		t.Run(name, func(t *testing.T) {
			first := newSub(t, "https://push.example.com/first")
			second := newSub(t, "https://push.example.com/second")

			require.NoError(t, s.Put(ctx, first))
			require.NoError(t, s.Put(ctx, second))

			latest, err := s.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, second.Endpoint, latest.Endpoint)
			assert.Equal(t, second.P256DH, latest.P256DH)

			_, err = s.Get(ctx, first.SubscriberID)
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestStore_KeyedModeKeepsEach(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, Keyed) {
		t.Run(name, func(t *testing.T) {
			first := newSub(t, "https://push.example.com/first")
			second := newSub(t, "https://push.example.com/second")

			require.NoError(t, s.Put(ctx, first))
			require.NoError(t, s.Put(ctx, second))

			got, err := s.Get(ctx, first.SubscriberID)
			require.NoError(t, err)
			assert.Equal(t, first.Endpoint, got.Endpoint)

			latest, err := s.Latest(ctx)
			require.NoError(t, err)
			assert.Equal(t, second.Endpoint, latest.Endpoint)

			all, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestStore_PutSameEndpointUpserts(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, Keyed) {
		t.Run(name, func(t *testing.T) {
			sub := newSub(t, "https://push.example.com/same")
			require.NoError(t, s.Put(ctx, sub))

			sub.Auth = "rotated"
			require.NoError(t, s.Put(ctx, sub))

			all, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "rotated", all[0].Auth)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, Keyed) {
		t.Run(name, func(t *testing.T) {
			sub := newSub(t, "https://push.example.com/gone")
			require.NoError(t, s.Put(ctx, sub))
			require.NoError(t, s.Delete(ctx, sub.SubscriberID))
			require.NoError(t, s.Delete(ctx, sub.SubscriberID))

			_, err := s.Get(ctx, sub.SubscriberID)
			assert.ErrorIs(t, err, ErrNotFound)

			// A deleted endpoint can subscribe again.
			require.NoError(t, s.Put(ctx, sub))
			_, err = s.Get(ctx, sub.SubscriberID)
			assert.NoError(t, err)
		})
	}
}

func TestMemory_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(Keyed)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := types.PushSubscription{Endpoint: fmt.Sprintf("https://push.example.com/%d", i)}
			assert.NoError(t, s.Put(ctx, sub))
		}()
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestSubscriberID_StablePerEndpoint(t *testing.T) {
	a := types.SubscriberID("https://push.example.com/a")
	assert.Equal(t, a, types.SubscriberID("https://push.example.com/a"))
	assert.NotEqual(t, a, types.SubscriberID("https://push.example.com/b"))
	assert.Len(t, a, 64)
}
