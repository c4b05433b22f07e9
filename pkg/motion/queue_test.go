package motion

import (
	"errors"
	"sync"
	"testing"
)

func TestQueue_OrderPreserved(t *testing.T) {
	q := NewQueue(8)

	kinds := []CommandKind{KindStartListening, KindStopListening, KindStartSpeaking}
	for _, k := range kinds {
		if err := q.Enqueue(newCommand(k)); err != nil {
			t.Fatalf("Enqueue(%v) failed: %v", k, err)
		}
	}

	drained := q.DrainUpTo(10)
	if len(drained) != 3 {
		t.Fatalf("Expected 3 commands, got %d", len(drained))
	}
	for i, k := range kinds {
		if drained[i].Kind != k {
			t.Errorf("Position %d: got %v, want %v", i, drained[i].Kind, k)
		}
	}
}

func TestQueue_Overflow(t *testing.T) {
	q := NewQueue(2)

	if err := q.Enqueue(NewStartListening()); err != nil {
		t.Fatalf("First enqueue failed: %v", err)
	}
	if err := q.Enqueue(NewStopListening()); err != nil {
		t.Fatalf("Second enqueue failed: %v", err)
	}

	err := q.Enqueue(NewStartSpeaking())
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Expected ErrQueueFull, got %v", err)
	}
	if q.Dropped() != 1 {
		t.Errorf("Dropped: got %d, want 1", q.Dropped())
	}

	// Previously accepted commands keep their order.
	drained := q.DrainUpTo(10)
	if len(drained) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(drained))
	}
	if drained[0].Kind != KindStartListening || drained[1].Kind != KindStopListening {
		t.Errorf("Order corrupted: %v, %v", drained[0].Kind, drained[1].Kind)
	}
}

func TestQueue_DrainCap(t *testing.T) {
	q := NewQueue(16)
	for i := 0; i < 10; i++ {
		if err := q.Enqueue(NewStopSpeaking()); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	if got := len(q.DrainUpTo(4)); got != 4 {
		t.Errorf("DrainUpTo(4): got %d commands", got)
	}
	if got := q.Len(); got != 6 {
		t.Errorf("Remaining: got %d, want 6", got)
	}
}

func TestQueue_DrainEmpty(t *testing.T) {
	q := NewQueue(4)
	if got := q.DrainUpTo(4); len(got) != 0 {
		t.Errorf("Expected no commands, got %d", len(got))
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue(1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = q.Enqueue(NewStartSpeaking())
			}
		}()
	}
	wg.Wait()

	total := 0
	for {
		batch := q.DrainUpTo(64)
		if len(batch) == 0 {
			break
		}
		total += len(batch)
	}
	if total != 800 {
		t.Errorf("Expected 800 commands, got %d", total)
	}
}
