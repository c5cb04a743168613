package events

import "sync"

// TopicImageUploaded is emitted after an image has been uploaded and
// registered with the backend. Carries no payload; subscribers re-fetch
// whatever state they need.
const TopicImageUploaded = "imageUploaded"

// Subscription identifies one registered callback. The same function can be
// subscribed more than once; each call returns its own removable entry.
type Subscription struct {
	topic    string
	callback func()
}

// Broadcaster is an application-scoped publish/subscribe channel. One
// instance is created in cmd/server and handed to the components that need
// it; there is no package-level singleton.
type Broadcaster struct {
	mu        sync.Mutex
	listeners map[string][]*Subscription
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[string][]*Subscription),
	}
}

// Subscribe registers callback for topic and returns the entry to pass to
// Unsubscribe.
func (b *Broadcaster) Subscribe(topic string, callback func()) *Subscription {
	sub := &Subscription{topic: topic, callback: callback}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[topic] = append(b.listeners[topic], sub)
	return sub
}

// Unsubscribe removes a previously-registered entry. Unknown or already
// removed entries are a no-op.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[sub.topic]
	for i, s := range subs {
		if s == sub {
			b.listeners[sub.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// ListenerCount reports how many subscriptions are registered for topic.
func (b *Broadcaster) ListenerCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[topic])
}

// Emit synchronously invokes every callback registered for topic, in
// registration order. A panic inside a callback propagates to the caller.
// Emitting a topic nobody listens to is a no-op.
func (b *Broadcaster) Emit(topic string) {
	b.mu.Lock()
	subs := make([]*Subscription, len(b.listeners[topic]))
	copy(subs, b.listeners[topic])
	b.mu.Unlock()

	for _, sub := range subs {
		sub.callback()
	}
}
