package gateway

import (
	"sort"
	"sync"
)

// Kind identifies the resource type of a subscription.
type Kind int

const (
	KindSpace Kind = iota
	KindChannel
)

func (k Kind) String() string {
	if k == KindSpace {
		return "space"
	}
	return "channel"
}

// Tracker records which spaces and channels the caller intends to
// receive events for. It holds intent only: subscribe/unsubscribe
// frames are sent by the caller, and the connection reads the tracker
// to replay subscriptions after each reconnect.
type Tracker struct {
	mu       sync.Mutex
	spaces   map[string]struct{}
	channels map[string]struct{}
}

// NewTracker returns an empty subscription tracker.
func NewTracker() *Tracker {
	return &Tracker{
		spaces:   make(map[string]struct{}),
		channels: make(map[string]struct{}),
	}
}

// Subscribe adds an id. Adding an already-tracked id is a no-op.
func (t *Tracker) Subscribe(kind Kind, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(kind)[id] = struct{}{}
}

// Unsubscribe removes an id. Removing an untracked id is a no-op.
func (t *Tracker) Unsubscribe(kind Kind, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.set(kind), id)
}

// Snapshot returns the tracked space and channel ids in sorted order.
func (t *Tracker) Snapshot() (spaces, channels []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	spaces = make([]string, 0, len(t.spaces))
	for id := range t.spaces {
		spaces = append(spaces, id)
	}
	channels = make([]string, 0, len(t.channels))
	for id := range t.channels {
		channels = append(channels, id)
	}
	sort.Strings(spaces)
	sort.Strings(channels)
	return spaces, channels
}

// Clear drops all tracked ids.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spaces = make(map[string]struct{})
	t.channels = make(map[string]struct{})
}

func (t *Tracker) set(kind Kind) map[string]struct{} {
	if kind == KindSpace {
		return t.spaces
	}
	return t.channels
}
