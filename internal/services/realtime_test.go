package services

import (
	"testing"
	"time"
)

func TestHub_DeliversToMatchingTable(t *testing.T) {
	hub := NewChangeHub()

	articles := hub.Subscribe("articles")
	defer articles.Close()
	other := hub.Subscribe("comments")
	defer other.Close()

	hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})

	ev := waitEvent(t, articles)
	if ev.Table != "articles" {
		t.Fatalf("table = %q", ev.Table)
	}
	select {
	case ev := <-other.C():
		t.Fatalf("wrong-table subscriber got %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_BurstCoalescesToOnePendingEvent(t *testing.T) {
	hub := NewChangeHub()
	sub := hub.Subscribe("articles")
	defer sub.Close()

	for i := 0; i < 10; i++ {
		hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})
	}

	waitEvent(t, sub)
	select {
	case ev := <-sub.C():
		t.Fatalf("burst left more than one pending event: %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewChangeHub()
	sub := hub.Subscribe("articles")
	defer sub.Close()

	// Nobody drains sub; publishing must still return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on an undrained subscriber")
	}
}

func TestSubscription_Close(t *testing.T) {
	hub := NewChangeHub()
	sub := hub.Subscribe("articles")

	sub.Close()
	sub.Close() // safe to repeat

	if _, ok := <-sub.C(); ok {
		t.Fatal("channel still open after Close")
	}

	// A closed subscription no longer receives anything.
	hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})

	fresh := hub.Subscribe("articles")
	defer fresh.Close()
	hub.Publish(ChangeEvent{Event: "*", Schema: "public", Table: "articles"})
	waitEvent(t, fresh)
}
