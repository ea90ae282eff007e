package containers

import (
	"errors"
	"testing"
)

func TestRingQueueWrapsAround(t *testing.T) {
	q := NewRingQueue[int](3)
	for round := 0; round < 4; round++ {
		for i := 0; i < 3; i++ {
			if err := q.Enqueue(round*10 + i); err != nil {
				t.Fatalf("round %d enqueue %d: %v", round, i, err)
			}
		}
		if !q.IsFull() || q.Len() != 3 {
			t.Fatalf("round %d: expected a full queue, len %d", round, q.Len())
		}
		if front, _ := q.Peek(); front != round*10 {
			t.Fatalf("round %d: peek %d", round, front)
		}
		for i := 0; i < 3; i++ {
			got, err := q.Dequeue()
			if err != nil {
				t.Fatal(err)
			}
			if got != round*10+i {
				t.Fatalf("round %d: got %d, want %d", round, got, round*10+i)
			}
		}
	}
}

func TestRingQueueBounds(t *testing.T) {
	q := NewRingQueue[string](1)
	if _, err := q.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("dequeue on empty: %v", err)
	}
	if _, err := q.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("peek on empty: %v", err)
	}
	if err := q.Enqueue("a"); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue("b"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("enqueue on full: %v", err)
	}
	if got, _ := q.Dequeue(); got != "a" {
		t.Fatalf("got %q", got)
	}
	if !q.IsEmpty() {
		t.Fatal("queue should be empty")
	}
}
