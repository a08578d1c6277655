// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package services

import (
	"context"
	"time"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
)

// ExpiringSet is satisfied by *cache.DedupWindow.
type ExpiringSet interface {
	CleanupExpired() int
	Len() int
}

// DedupJanitorService evicts expired EventSub message ids on an interval so
// the replay window's memory tracks live traffic instead of its capacity.
type DedupJanitorService struct {
	set      ExpiringSet
	interval time.Duration
	name     string
}

// NewDedupJanitorService creates the janitor. A non-positive interval uses one minute.
func NewDedupJanitorService(set ExpiringSet, interval time.Duration) *DedupJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DedupJanitorService{
		set:      set,
		interval: interval,
		name:     "eventsub-dedup-janitor",
	}
}

// Serve implements suture.Service.
func (d *DedupJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	log := logging.WithComponent(d.name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := d.set.CleanupExpired(); n > 0 {
				log.Debug().
					Int("evicted", n).
					Int("remaining", d.set.Len()).
					Msg("expired eventsub message ids evicted")
			}
		}
	}
}

// String implements fmt.Stringer for suture log messages.
func (d *DedupJanitorService) String() string {
	return d.name
}
