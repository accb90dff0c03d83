package event

import (
	"testing"

	"telegram-stock-pulse/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeFiltersByType(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	urgentOnly := bus.Subscribe(UrgentMessage)
	defer urgentOnly.Cancel()
	everything := bus.Subscribe()
	defer everything.Cancel()

	bus.Publish(Event{Type: UrgentMessage})
	bus.Publish(Event{Type: StockMention})

	assert.Len(t, urgentOnly.C, 1)
	assert.Len(t, everything.C, 2)

	ev := <-urgentOnly.C
	assert.Equal(t, UrgentMessage, ev.Type)
}

func TestPublishCarriesPayload(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(MessageProcessed)
	defer sub.Cancel()

	msg := &entity.ScoredMessage{Original: "급등"}
	bus.Publish(Event{Type: MessageProcessed, Message: msg})

	ev := <-sub.C
	require.NotNil(t, ev.Message)
	assert.Equal(t, "급등", ev.Message.Original)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(Statistics)
	defer sub.Cancel()

	for i := 0; i < subscriptionBuffer+10; i++ {
		bus.Publish(Event{Type: Statistics})
	}

	assert.Len(t, sub.C, subscriptionBuffer)
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe(UrgentMessage)
	sub.Cancel()
	assert.NotPanics(t, sub.Cancel)

	// Publishing after cancel must not panic on the closed channel.
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: UrgentMessage})
	})

	_, open := <-sub.C
	assert.False(t, open)
}

func TestCloseEndsAllSubscriptions(t *testing.T) {
	bus := NewBus()

	a := bus.Subscribe(UrgentMessage)
	b := bus.Subscribe()
	bus.Close()

	_, open := <-a.C
	assert.False(t, open)
	_, open = <-b.C
	assert.False(t, open)

	// Everything stays inert after close.
	assert.NotPanics(t, func() {
		bus.Publish(Event{Type: UrgentMessage})
		bus.Close()
		a.Cancel()
	})

	late := bus.Subscribe(UrgentMessage)
	_, open = <-late.C
	assert.False(t, open)
}
