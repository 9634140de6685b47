package session

import (
	"errors"
	"testing"
	"time"

	"docchat/internal/domain"
)

func TestCreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.Create("What is in the report?")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty session ID")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "What is in the report?" {
		t.Errorf("unexpected title: %q", got.Title)
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAppendMessages(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Create("title")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := store.Append(sess.ID, domain.Message{Role: "user", Content: "hi", Timestamp: now}); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(sess.ID, domain.Message{Role: "assistant", Content: "hello", Timestamp: now.Add(time.Second)}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "user" || got.Messages[1].Role != "assistant" {
		t.Error("messages out of order")
	}
	if !got.LastUpdated.Equal(now.Add(time.Second)) {
		t.Error("LastUpdated not advanced by append")
	}
}

func TestListOrder(t *testing.T) {
	store := NewMemoryStore()

	first, _ := store.Create("first")
	second, _ := store.Create("second")

	// Touch the first session so it becomes the most recent.
	if err := store.Append(first.ID, domain.Message{Role: "user", Content: "q", Timestamp: time.Now().Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != first.ID {
		t.Error("expected most recently updated session first")
	}
	_ = second
}

func TestDelete(t *testing.T) {
	store := NewMemoryStore()

	sess, _ := store.Create("to delete")
	if err := store.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("expected session to be gone")
	}
	if err := store.Delete(sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("expected delete of missing session to fail")
	}
}
