package events

import (
	"testing"
	"time"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	broker := NewBroker()

	sub1 := broker.Subscribe()
	sub2 := broker.Subscribe()

	broker.Publish(TopicCart, nil)

	for i, sub := range []<-chan Event{sub1, sub2} {
		select {
		case event := <-sub:
			if event.Topic != TopicCart {
				t.Errorf("subscriber %d got topic %q, want %q", i, event.Topic, TopicCart)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d got no event", i)
		}
	}
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	broker := NewBroker()

	sub := broker.Subscribe()
	broker.Unsubscribe(sub)

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("expected closed channel after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	broker.Publish(TopicCatalog, nil)
}

func TestBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	broker := NewBroker()

	broker.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			broker.Publish(TopicCatalog, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
