package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Info(string, ...interface{}) {}
func (testLogger) Warn(string, ...interface{}) {}

func event(area string, eventType EventType) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: 1,
		Area:          area,
	}
}

func TestBroker_DeliversToAreaSubscribers(t *testing.T) {
	b := NewBroker(testLogger{})

	sub := b.Subscribe("north")
	defer b.Unsubscribe(sub)

	b.Publish(event("north", EventReservationCreated))

	got := <-sub.C
	assert.Equal(t, EventReservationCreated, got.Type)
	assert.Equal(t, "north", got.Area)
}

func TestBroker_FiltersByArea(t *testing.T) {
	b := NewBroker(testLogger{})

	north := b.Subscribe("north")
	south := b.Subscribe("south")
	defer b.Unsubscribe(north)
	defer b.Unsubscribe(south)

	b.Publish(event("north", EventReservationCreated))

	require.Len(t, north.C, 1)
	assert.Empty(t, south.C)
}

func TestBroker_MultipleSubscribersSameArea(t *testing.T) {
	b := NewBroker(testLogger{})

	first := b.Subscribe("north")
	second := b.Subscribe("north")
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)

	b.Publish(event("north", EventReservationAccepted))

	assert.Len(t, first.C, 1)
	assert.Len(t, second.C, 1)
}

func TestBroker_NoReplay(t *testing.T) {
	b := NewBroker(testLogger{})

	// Published before anyone subscribed: lost
	b.Publish(event("north", EventReservationCreated))

	sub := b.Subscribe("north")
	defer b.Unsubscribe(sub)

	assert.Empty(t, sub.C)
}

func TestBroker_DropsWhenBufferFull(t *testing.T) {
	b := NewBroker(testLogger{})

	sub := b.Subscribe("north")
	defer b.Unsubscribe(sub)

	// Publish must never block, even with a full subscriber buffer
	for i := 0; i < subscriberBufferSize*2; i++ {
		b.Publish(event("north", EventReservationCreated))
	}

	assert.Len(t, sub.C, subscriberBufferSize)
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(testLogger{})

	sub := b.Subscribe("north")
	b.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Zero(t, b.SubscriberCount("north"))

	// Publishing to an area with no subscribers is a no-op
	b.Publish(event("north", EventReservationCreated))

	// Double unsubscribe is safe
	b.Unsubscribe(sub)
}

func TestBroker_SubscriberCount(t *testing.T) {
	b := NewBroker(testLogger{})

	assert.Zero(t, b.SubscriberCount("north"))

	first := b.Subscribe("north")
	second := b.Subscribe("north")
	assert.Equal(t, 2, b.SubscriberCount("north"))

	b.Unsubscribe(first)
	assert.Equal(t, 1, b.SubscriberCount("north"))

	b.Unsubscribe(second)
	assert.Zero(t, b.SubscriberCount("north"))
}
