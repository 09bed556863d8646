package session

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Observer receives the Store state, ok is false when no user is logged in.
type Observer func(s Session, ok bool)

// Subscription links an Observer to a Store.
//
// Each Subscription has its own queue of states, filled in Store mutation order.
// A single goroutine at a time empties the queue, so the Observer is never called concurrently
// and receives the states in order.
type Subscription struct {
	store    *Store
	observer Observer
	closed   atomic.Bool

	mut       sync.Mutex
	queue     []*Session
	busy      bool // a goroutine is delivering the queue
	last      *Session
	delivered int
}

// Unsubscribe stops deliveries to the Subscription Observer.
// It is safe to call it multiple times, including from inside the Observer.
func (self *Subscription) Unsubscribe() {
	if self.closed.Swap(true) {
		return
	}
	if nil != self.store {
		self.store.unsubscribe(self)
	}

	self.mut.Lock()
	clear(self.queue)
	self.queue = nil
	self.mut.Unlock()
}

// Last returns the last state delivered to the Observer.
func (self *Subscription) Last() (Session, bool) {
	self.mut.Lock()
	defer self.mut.Unlock()

	if nil == self.last {
		return Session{}, false
	}
	return *self.last, true
}

// Delivered returns the number of states delivered to the Observer.
func (self *Subscription) Delivered() int {
	self.mut.Lock()
	defer self.mut.Unlock()

	return self.delivered
}

// enqueue appends state to the Subscription queue.
// Callers hold the Store mutex, which fixes the queue order.
func (self *Subscription) enqueue(state *Session) {
	self.mut.Lock()
	defer self.mut.Unlock()

	if self.closed.Load() {
		return
	}
	self.queue = append(self.queue, state)
}

// flush delivers the queued states to the Observer.
//
// If another goroutine is delivering, flush returns at once and the queued states are delivered by
// that goroutine when its current Observer call returns. This is what happens when an Observer calls
// the Store. owned is set by Subscribe which marks the new Subscription busy before publishing it.
func (self *Subscription) flush(log *slog.Logger, owned bool) {
	self.mut.Lock()
	if !owned {
		if self.busy {
			self.mut.Unlock()
			return
		}
		self.busy = true
	}

	for len(self.queue) > 0 && !self.closed.Load() {
		state := self.queue[0]
		self.queue[0] = nil
		self.queue = self.queue[1:]
		self.last = state
		self.delivered += 1
		self.mut.Unlock()
		self.call(log, state)
		self.mut.Lock()
	}

	self.busy = false
	self.mut.Unlock()
}

// call runs the Observer with state.
// A panicking Observer is logged and does not prevent delivery to other Subscriptions.
func (self *Subscription) call(log *slog.Logger, state *Session) {
	defer func() {
		if r := recover(); nil != r {
			log.Error("session observer panicked", "panic", r)
		}
	}()
	if nil == state {
		self.observer(Session{}, false)
	} else {
		self.observer(*state, true)
	}
}

// broadcast holds the Subscriptions of a Store, it is protected by the Store mutex.
type broadcast struct {
	subs []*Subscription // in subscription order
}

// publish queues state for every current Subscription and returns them for flushing.
func (self *broadcast) publish(state *Session) []*Subscription {
	for _, sub := range self.subs {
		sub.enqueue(state)
	}
	return append([]*Subscription(nil), self.subs...)
}

// add registers sub and queues the replay of state to it.
func (self *broadcast) add(sub *Subscription, state *Session) {
	sub.queue = append(sub.queue, state)
	self.subs = append(self.subs, sub)
}

// remove unregisters sub.
func (self *broadcast) remove(sub *Subscription) {
	subs := self.subs[:0]
	for _, s := range self.subs {
		if s != sub {
			subs = append(subs, s)
		}
	}
	clear(self.subs[len(subs):])
	self.subs = subs
}
