package character

import (
	"github.com/google/uuid"
)

// UpdatedHandler receives the character after a caller signals a batch of changes.
type UpdatedHandler func(c *Character)

type subscriber struct {
	id string
	fn UpdatedHandler
}

// Subscribe registers fn for the updated signal and returns its subscription ID.
// Handlers run in subscription order.
//
// Precondition: fn must not be nil.
func (c *Character) Subscribe(fn UpdatedHandler) string {
	if fn == nil {
		panic("character.Subscribe: handler must not be nil")
	}
	id := uuid.New().String()
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return id
}

// Unsubscribe removes the subscription with the given ID.
//
// Postcondition: returns true iff a subscription was removed.
func (c *Character) Unsubscribe(id string) bool {
	for i, s := range c.subscribers {
		if s.id == id {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// NotifyUpdated fires the updated signal. Nothing in this package calls it;
// callers fire it after a batch of mutations.
func (c *Character) NotifyUpdated() {
	subs := make([]subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	for _, s := range subs {
		s.fn(c)
	}
}
