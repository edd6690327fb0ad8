package store

import (
	"slices"
	"sync"
)

// Hub fans snapshots out to subscribers. Every subscriber has its own
// delivery goroutine and a one-slot mailbox holding the newest undelivered
// snapshot, so a slow callback skips stale snapshots instead of blocking
// Publish.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[*subscriber[T]]struct{}
	latest []T
	has    bool
	closed bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*subscriber[T]]struct{})}
}

type subscriber[T any] struct {
	fn      func([]T)
	mu      sync.Mutex
	pending []T
	has     bool
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func (s *subscriber[T]) offer(snapshot []T) {
	s.mu.Lock()
	s.pending = snapshot
	s.has = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		snapshot, ok := s.pending, s.has
		s.pending, s.has = nil, false
		s.mu.Unlock()

		if ok {
			s.fn(slices.Clone(snapshot))
		}
	}
}

func (s *subscriber[T]) stop() {
	s.once.Do(func() {
		close(s.quit)
		<-s.done
	})
}

// Subscribe registers fn. If a snapshot has been published already, fn
// receives it first.
func (h *Hub[T]) Subscribe(fn func([]T)) (Unsubscribe, error) {
	sub := &subscriber[T]{
		fn:   fn,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	h.subs[sub] = struct{}{}
	if h.has {
		sub.offer(h.latest)
	}
	h.mu.Unlock()

	go sub.run()

	return func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		sub.stop()
	}, nil
}

// Publish replaces the current snapshot and hands it to every subscriber.
func (h *Hub[T]) Publish(snapshot []T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest = snapshot
	h.has = true
	for sub := range h.subs {
		sub.offer(snapshot)
	}
}

func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close stops every subscriber and rejects new ones.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber[T], 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*subscriber[T]]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}
