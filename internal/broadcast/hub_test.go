package broadcast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	require.Equal(t, 2, h.Count())

	h.Publish(TopicNewReport, map[string]int{"id": 1})

	for _, c := range []*Client{a, b} {
		select {
		case ev := <-c.Send:
			require.Equal(t, TopicNewReport, ev.Topic)
			require.False(t, ev.At.IsZero())
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	h := NewHub()

	h.Publish(TopicNewReport, "before anyone connected")

	c := h.Subscribe()
	defer h.Unsubscribe(c)

	select {
	case <-c.Send:
		t.Fatal("events must not be replayed to late joiners")
	default:
	}

	h.Publish(TopicStatusUpdate, "after connecting")
	select {
	case ev := <-c.Send:
		require.Equal(t, TopicStatusUpdate, ev.Topic)
	default:
		t.Fatal("live event not delivered")
	}
}

func TestSlowListenerDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	c := h.Subscribe()
	defer h.Unsubscribe(c)

	// Fill the queue past capacity without draining.  Publish must return
	// every time; the overflow is simply dropped for this listener.
	for i := 0; i < cap(c.Send)+10; i++ {
		h.Publish(TopicNewReport, i)
	}

	require.Len(t, c.Send, cap(c.Send))

	// The listener still works once it drains.
	<-c.Send
	h.Publish(TopicStatusUpdate, "still alive")
	require.Len(t, c.Send, cap(c.Send))
}

func TestUnsubscribeClosesClient(t *testing.T) {
	h := NewHub()
	c := h.Subscribe()

	h.Unsubscribe(c)
	require.Equal(t, 0, h.Count())

	select {
	case <-c.Done():
	default:
		t.Fatal("Done should fire after Unsubscribe")
	}

	// Publishing after unsubscribe must not reach the detached client.
	h.Publish(TopicNewReport, "gone")
	require.Len(t, c.Send, 0)

	// Double close is safe.
	c.Close()
	h.Unsubscribe(c)
}
