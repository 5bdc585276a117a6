package storage

import (
	"context"
	"fmt"
	"log"
	"maps"
	"time"
)

// ClearExpiredCooldowns drops cooldown stamps older than maxAge in every
// guild. A stamp that old can no longer block anything as long as maxAge
// exceeds the longest configured cooldown.
func (s *Storage) ClearExpiredCooldowns(maxAge time.Duration, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.guildIDs()
	if err != nil {
		return err
	}
	for _, guildID := range ids {
		record, _, err := s.load(guildID)
		if err != nil {
			return err
		}
		changed := false
		for userID, u := range record.Users {
			before := len(u.Cooldowns)
			maps.DeleteFunc(u.Cooldowns, func(_ string, at time.Time) bool {
				return now.Sub(at) >= maxAge
			})
			if len(u.Cooldowns) != before {
				record.Users[userID] = u
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := s.ds.Set(guildID, record); err != nil {
			return fmt.Errorf("store guild %s: %w", guildID, err)
		}
	}
	return nil
}

// Sweeper is a store that can prune stale cooldown stamps.
type Sweeper interface {
	ClearExpiredCooldowns(maxAge time.Duration, now time.Time) error
}

// RunCooldownCleaner clears expired cooldowns every interval until ctx is
// done.
func RunCooldownCleaner(ctx context.Context, store Sweeper, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := store.ClearExpiredCooldowns(maxAge, now); err != nil {
				log.Println("[ERR] Error clearing expired cooldowns:", err)
			}
		}
	}
}
