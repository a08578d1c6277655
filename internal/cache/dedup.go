// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package cache

import (
	"container/list"
	"sync"
	"time"
)

type dedupEntry struct {
	key       string
	expiresAt time.Time
}

// DedupWindow remembers keys for a fixed TTL, evicting the least recently seen
// key once capacity is reached. Safe for concurrent use.
type DedupWindow struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is most recent
	capacity int
	ttl      time.Duration
	now      func() time.Time

	duplicates int64
}

// NewDedupWindow creates a window; capacity below 1 is treated as 1.
func NewDedupWindow(capacity int, ttl time.Duration) *DedupWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &DedupWindow{
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// IsDuplicate reports whether key was seen within the TTL. A key that was not
// seen is recorded, so the first call for a key returns false and the second true.
func (w *DedupWindow) IsDuplicate(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if el, ok := w.items[key]; ok {
		if now.Before(el.Value.(*dedupEntry).expiresAt) {
			w.order.MoveToFront(el)
			w.duplicates++
			return true
		}
		w.order.Remove(el)
		delete(w.items, key)
	}

	w.items[key] = w.order.PushFront(&dedupEntry{key: key, expiresAt: now.Add(w.ttl)})

	for w.order.Len() > w.capacity {
		oldest := w.order.Back()
		w.order.Remove(oldest)
		delete(w.items, oldest.Value.(*dedupEntry).key)
	}
	return false
}

// Len returns the number of remembered keys, expired ones included until touched.
func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.order.Len()
}

// Duplicates returns how many duplicates have been detected.
func (w *DedupWindow) Duplicates() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.duplicates
}

// CleanupExpired removes expired keys and returns how many were dropped.
func (w *DedupWindow) CleanupExpired() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	removed := 0
	for el := w.order.Back(); el != nil; {
		prev := el.Prev()
		if e := el.Value.(*dedupEntry); !now.Before(e.expiresAt) {
			w.order.Remove(el)
			delete(w.items, e.key)
			removed++
		}
		el = prev
	}
	return removed
}
