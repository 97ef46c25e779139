package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oliverisaac/pushdemo/types"
)

type memoryEntry struct {
	sub types.PushSubscription
	rev uint64
}

// Memory is a process-local Store. Nothing survives a restart.
type Memory struct {
	mode Mode

	mu      sync.RWMutex
	records map[string]memoryEntry
	nextID  uint
	rev     uint64
}

func NewMemory(mode Mode) *Memory {
	return &Memory{
		mode:    mode,
		records: map[string]memoryEntry{},
	}
}

func (m *Memory) Put(_ context.Context, sub types.PushSubscription) error {
	if sub.SubscriberID == "" {
		sub.SubscriberID = types.SubscriberID(sub.Endpoint)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if prev, ok := m.records[sub.SubscriberID]; ok {
		sub.ID = prev.sub.ID
		sub.CreatedAt = prev.sub.CreatedAt
	} else {
		m.nextID++
		sub.ID = m.nextID
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	m.rev++

	if m.mode == Single {
		clear(m.records)
	}
	m.records[sub.SubscriberID] = memoryEntry{sub: sub, rev: m.rev}
	return nil
}

func (m *Memory) Get(_ context.Context, subscriberID string) (types.PushSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.records[subscriberID]
	if !ok {
		return types.PushSubscription{}, ErrNotFound
	}
	return e.sub, nil
}

func (m *Memory) Latest(ctx context.Context) (types.PushSubscription, error) {
	all, _ := m.List(ctx)
	if len(all) == 0 {
		return types.PushSubscription{}, ErrNotFound
	}
	return all[0], nil
}

func (m *Memory) Delete(_ context.Context, subscriberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, subscriberID)
	return nil
}

func (m *Memory) List(_ context.Context) ([]types.PushSubscription, error) {
	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.records))
	for _, e := range m.records {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	slices.SortFunc(entries, func(a, b memoryEntry) int {
		switch {
		case a.rev > b.rev:
			return -1
		case a.rev < b.rev:
			return 1
		}
		return 0
	})

	ret := make([]types.PushSubscription, len(entries))
	for i, e := range entries {
		ret[i] = e.sub
	}
	return ret, nil
}

func (m *Memory) Close() error {
	return nil
}
