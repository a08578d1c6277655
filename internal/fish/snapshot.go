// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package fish caches the latest fish list reported by the game so HTTP callers
// can see which fish may be fed without asking the game directly.
package fish

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// ErrMalformedSnapshot is returned when a fish_data payload is not a JSON array
// of fish records. The cache keeps its previous contents.
var ErrMalformedSnapshot = errors.New("malformed fish snapshot")

// Record is one fish as reported by the game.
type Record struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
}

// DefaultStarterNames are the tank's permanent fish; they cannot be fed by viewers.
var DefaultStarterNames = []string{"Jay", "Kati", "Manu"}

// demoFish is served while the game has not reported any fish, when enabled.
var demoFish = []Record{
	{Index: 0, Name: "Bubbles", Species: "Goldfish", Health: 75, MaxHealth: 100},
	{Index: 1, Name: "Finn", Species: "Betta", Health: 50, MaxHealth: 100},
	{Index: 2, Name: "Coral", Species: "Clownfish", Health: 25, MaxHealth: 100},
	{Index: 3, Name: "Marina", Species: "Angelfish", Health: 90, MaxHealth: 100},
}

// DefaultFallbackName is reported when an index has no fish in the snapshot.
const DefaultFallbackName = "fish"

// ParseSnapshot decodes a fish_data payload.
func ParseSnapshot(payload []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if records == nil {
		// JSON null
		return nil, fmt.Errorf("%w: payload is not an array", ErrMalformedSnapshot)
	}
	return records, nil
}

// Options configures a Cache.
type Options struct {
	// StarterNames are excluded from AvailableForFeeding. Nil means DefaultStarterNames.
	StarterNames []string

	// DemoFallback serves the demo fish while the snapshot is empty.
	DemoFallback bool
}

// Cache holds the latest snapshot. Every update replaces it whole.
type Cache struct {
	mu        sync.RWMutex
	records   []Record
	updatedAt time.Time

	starters     map[string]struct{}
	demoFallback bool
}

// NewCache creates an empty cache.
func NewCache(opts Options) *Cache {
	names := opts.StarterNames
	if names == nil {
		names = DefaultStarterNames
	}
	starters := make(map[string]struct{}, len(names))
	for _, n := range names {
		starters[n] = struct{}{}
	}
	return &Cache{starters: starters, demoFallback: opts.DemoFallback}
}

// Replace swaps in a new snapshot. The slice is copied.
func (c *Cache) Replace(records []Record) {
	cp := make([]Record, len(records))
	copy(cp, records)

	c.mu.Lock()
	c.records = cp
	c.updatedAt = time.Now()
	c.mu.Unlock()
}

// ReplaceJSON parses payload and replaces the snapshot, returning the new size.
// On a parse error the previous snapshot is kept.
func (c *Cache) ReplaceJSON(payload []byte) (int, error) {
	records, err := ParseSnapshot(payload)
	if err != nil {
		return 0, err
	}
	c.Replace(records)
	return len(records), nil
}

// Current returns a copy of the snapshot.
func (c *Cache) Current() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]Record, len(c.records))
	copy(cp, c.records)
	return cp
}

// Len returns the number of fish in the snapshot.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// UpdatedAt returns when the snapshot was last replaced; zero if never.
func (c *Cache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// AvailableForFeeding returns live, non-starter fish. With an empty snapshot it
// returns the demo set when the fallback is enabled and an empty slice otherwise.
func (c *Cache) AvailableForFeeding() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.records) == 0 {
		if c.demoFallback {
			cp := make([]Record, len(demoFish))
			copy(cp, demoFish)
			return cp
		}
		return []Record{}
	}

	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if _, starter := c.starters[r.Name]; starter {
			continue
		}
		if r.Health <= 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// NameOf returns the display name of the fish at index. A record whose Index
// matches wins; otherwise the record at that position is used. Unknown indices
// and unnamed fish yield DefaultFallbackName.
func (c *Cache) NameOf(index int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if r.Index == index && r.Name != "" {
			return r.Name
		}
	}
	if index >= 0 && index < len(c.records) && c.records[index].Name != "" {
		return c.records[index].Name
	}
	return DefaultFallbackName
}
