// Package cart holds the shared current-cart slot observed by every view.
package cart

import (
	"context"
	"sync"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// Subscriber receives every published cart snapshot. A nil order means no cart.
// Subscribers run synchronously and must not call Replace.
type Subscriber func(order *model.Order)

type subscription struct {
	id int
	fn Subscriber
}

// Cache keeps the current cart and publishes changes to subscribers.
// Reads return copies; all writes go through Replace.
type Cache struct {
	mu      sync.RWMutex
	current *model.Order

	// publishMu orders publications so subscribers observe replaces in order.
	publishMu sync.Mutex
	subsMu    sync.Mutex
	subs      []subscription
	nextID    int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Read returns a copy of the current cart or nil when there is none.
func (c *Cache) Read() *model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// ItemCount sums quantities of the current cart.
func (c *Cache) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.ItemCount()
}

// Replace swaps the current cart and notifies subscribers in subscription
// order before returning.
func (c *Cache) Replace(order *model.Order) {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	stored := order.Clone()
	c.mu.Lock()
	c.current = stored
	c.mu.Unlock()

	for _, sub := range c.snapshotSubs() {
		sub.fn(stored.Clone())
	}
}

// Subscribe registers fn and returns a function removing it.
func (c *Cache) Subscribe(fn Subscriber) (unsubscribe func()) {
	c.subsMu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			for i, sub := range c.subs {
				if sub.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Watch streams cart snapshots until ctx is done. The current cart is
// delivered first; a slow reader only sees the latest snapshot.
func (c *Cache) Watch(ctx context.Context) <-chan *model.Order {
	out := make(chan *model.Order, 1)
	latest := newLatest[*model.Order]()

	c.publishMu.Lock()
	latest.set(c.Read())
	unsubscribe := c.Subscribe(func(order *model.Order) { latest.set(order) })
	c.publishMu.Unlock()

	go forward(ctx, latest, out, unsubscribe)
	return out
}

// WatchItemCount streams the cart item count until ctx is done.
func (c *Cache) WatchItemCount(ctx context.Context) <-chan int {
	out := make(chan int, 1)
	latest := newLatest[int]()

	c.publishMu.Lock()
	latest.set(c.ItemCount())
	unsubscribe := c.Subscribe(func(order *model.Order) { latest.set(order.ItemCount()) })
	c.publishMu.Unlock()

	go forward(ctx, latest, out, unsubscribe)
	return out
}

func (c *Cache) snapshotSubs() []subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	return subs
}

// latestValue holds the most recent unread value and signals its arrival.
type latestValue[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	ready   chan struct{}
}

func newLatest[T any]() *latestValue[T] {
	return &latestValue[T]{ready: make(chan struct{}, 1)}
}

func (l *latestValue[T]) set(v T) {
	l.mu.Lock()
	l.value = v
	l.pending = true
	l.mu.Unlock()
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestValue[T]) take() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.value, l.pending
	l.pending = false
	return v, ok
}

func forward[T any](ctx context.Context, latest *latestValue[T], out chan<- T, unsubscribe func()) {
	defer close(out)
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-latest.ready:
		}
		v, ok := latest.take()
		if !ok {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case out <- v:
		}
	}
}
