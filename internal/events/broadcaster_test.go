package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitInvokesSubscriberOnce(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	b.Subscribe(TopicImageUploaded, func() { calls++ })

	b.Emit(TopicImageUploaded)
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeBeforeEmit(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	sub := b.Subscribe(TopicImageUploaded, func() { calls++ })
	b.Unsubscribe(sub)

	b.Emit(TopicImageUploaded)
	assert.Equal(t, 0, calls)
}

func TestEmitUnknownTopicIsNoOp(t *testing.T) {
	b := NewBroadcaster()

	assert.NotPanics(t, func() {
		b.Emit("nobody-listens")
	})
}

func TestDuplicateSubscriptionsAreIndependent(t *testing.T) {
	b := NewBroadcaster()

	calls := 0
	callback := func() { calls++ }

	first := b.Subscribe(TopicImageUploaded, callback)
	b.Subscribe(TopicImageUploaded, callback)

	b.Emit(TopicImageUploaded)
	assert.Equal(t, 2, calls)

	b.Unsubscribe(first)
	b.Emit(TopicImageUploaded)
	assert.Equal(t, 3, calls)
}

func TestEmitOrderFollowsRegistrationOrder(t *testing.T) {
	b := NewBroadcaster()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		b.Subscribe(TopicImageUploaded, func() { order = append(order, i) })
	}

	b.Emit(TopicImageUploaded)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestListenerCountTracksSubscriptions(t *testing.T) {
	b := NewBroadcaster()

	assert.Equal(t, 0, b.ListenerCount(TopicImageUploaded))

	first := b.Subscribe(TopicImageUploaded, func() {})
	second := b.Subscribe(TopicImageUploaded, func() {})
	assert.Equal(t, 2, b.ListenerCount(TopicImageUploaded))
	assert.Equal(t, 0, b.ListenerCount("other"))

	b.Unsubscribe(first)
	b.Unsubscribe(second)
	assert.Equal(t, 0, b.ListenerCount(TopicImageUploaded))
}

func TestUnsubscribeTwiceIsNoOp(t *testing.T) {
	b := NewBroadcaster()

	sub := b.Subscribe(TopicImageUploaded, func() {})
	b.Unsubscribe(sub)

	assert.NotPanics(t, func() {
		b.Unsubscribe(sub)
		b.Unsubscribe(nil)
	})
}
