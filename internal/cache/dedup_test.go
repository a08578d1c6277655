// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestWindow(capacity int, ttl time.Duration) (*DedupWindow, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	w := NewDedupWindow(capacity, ttl)
	w.now = clock.now
	return w, clock
}

func TestDedupWindow_FirstSeenThenDuplicate(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(10, time.Minute)
	if w.IsDuplicate("msg-1") {
		t.Fatal("first delivery reported as duplicate")
	}
	if !w.IsDuplicate("msg-1") {
		t.Fatal("redelivery not detected")
	}
	if w.IsDuplicate("msg-2") {
		t.Fatal("different id reported as duplicate")
	}
	if w.Duplicates() != 1 {
		t.Errorf("Duplicates() = %d, want 1", w.Duplicates())
	}
}

func TestDedupWindow_Expiry(t *testing.T) {
	t.Parallel()

	w, clock := newTestWindow(10, time.Minute)
	w.IsDuplicate("msg-1")

	clock.advance(59 * time.Second)
	if !w.IsDuplicate("msg-1") {
		t.Fatal("id forgotten before TTL")
	}

	clock.advance(2 * time.Minute)
	if w.IsDuplicate("msg-1") {
		t.Fatal("id remembered after TTL")
	}
}

func TestDedupWindow_CapacityEvictsLeastRecent(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(2, time.Hour)
	w.IsDuplicate("a")
	w.IsDuplicate("b")
	w.IsDuplicate("a") // refresh a
	w.IsDuplicate("c") // evicts b

	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
	if !w.IsDuplicate("a") {
		t.Error("a should still be remembered")
	}
	if w.IsDuplicate("b") {
		t.Error("b should have been evicted")
	}
}

func TestDedupWindow_CleanupExpired(t *testing.T) {
	t.Parallel()

	w, clock := newTestWindow(10, time.Minute)
	w.IsDuplicate("a")
	clock.advance(30 * time.Second)
	w.IsDuplicate("b")

	clock.advance(40 * time.Second)
	if removed := w.CleanupExpired(); removed != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", removed)
	}
	if w.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", w.Len())
	}
	if w.IsDuplicate("a") {
		t.Error("expired id should be processed again")
	}
	if !w.IsDuplicate("b") {
		t.Error("b is still inside its window")
	}

	clock.advance(2 * time.Minute)
	if removed := w.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if w.Len() != 0 {
		t.Errorf("Len() = %d after cleanup, want 0", w.Len())
	}
}

func TestDedupWindow_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	w := NewDedupWindow(1000, time.Minute)
	var firsts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !w.IsDuplicate("same") {
				firsts.Add(1)
			}
			_ = w.IsDuplicate(fmt.Sprintf("other-%d", i))
		}()
	}
	wg.Wait()

	if firsts.Load() != 1 {
		t.Errorf("%d goroutines saw the id as new, want exactly 1", firsts.Load())
	}
}
