package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkuyucel/ibbtraffic/internal/domain"
)

func TestPublishReachesSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	ctx := context.Background()

	received := make(chan domain.Event, 1)
	err := bus.Subscribe(ctx, "traffic.events", func(_ context.Context, event domain.Event) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	event := domain.Event{ID: "e1", Type: domain.EventTypeFetchSucceeded, Endpoint: "TrafficIndex_Sc1_Cont"}
	require.NoError(t, bus.Publish(ctx, "traffic.events", event))

	select {
	case got := <-received:
		assert.Equal(t, "e1", got.ID)
		assert.Equal(t, domain.EventTypeFetchSucceeded, got.Type)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishFansOut(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		err := bus.Subscribe(ctx, "traffic.events", func(_ context.Context, _ domain.Event) error {
			wg.Done()
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, bus.Publish(ctx, "traffic.events", domain.Event{ID: "e2"}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all subscribers received the event")
	}
}

func TestPublishIgnoresOtherTopics(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	ctx := context.Background()

	received := make(chan domain.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, "fetch.jobs", func(_ context.Context, event domain.Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "traffic.events", domain.Event{ID: "e3"}))

	select {
	case <-received:
		t.Fatal("handler received event from wrong topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeRemovesHandlers(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	ctx := context.Background()

	received := make(chan domain.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, "traffic.events", func(_ context.Context, event domain.Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Unsubscribe(ctx, "traffic.events"))
	require.NoError(t, bus.Publish(ctx, "traffic.events", domain.Event{ID: "e4"}))

	select {
	case <-received:
		t.Fatal("handler received event after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}
