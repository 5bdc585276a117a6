package storage

import (
	"context"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
)

// FetchActor returns the user's economy state. Users that never played read
// as an empty record.
func (s *Storage) FetchActor(_ context.Context, guildID, userID string) (domain.ActorState, error) {
	record, err := s.view(guildID)
	if err != nil {
		return domain.ActorState{}, err
	}
	return record.user(userID), nil
}

// AddCash adds delta to the user's balance and returns the new balance. A
// change that would leave the balance negative fails with
// ErrInsufficientFunds.
func (s *Storage) AddCash(_ context.Context, guildID, userID string, delta int64) (int64, error) {
	var balance int64
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		if u.Cash+delta < 0 {
			return ErrInsufficientFunds
		}
		u.Cash += delta
		r.Users[userID] = u
		balance = u.Cash
		return nil
	})
	return balance, err
}

// Transfer moves amount from one user to another. It moves whatever is
// available when the sender holds less than amount and reports the sum
// actually moved. A transfer to oneself moves nothing.
func (s *Storage) Transfer(_ context.Context, guildID, fromID, toID string, amount int64) (int64, error) {
	if fromID == toID {
		return 0, nil
	}
	var moved int64
	err := s.Update(guildID, func(r *Record) error {
		from, to := r.user(fromID), r.user(toID)
		moved = min(amount, max(from.Cash, 0))
		from.Cash -= moved
		to.Cash += moved
		r.Users[fromID] = from
		r.Users[toID] = to
		return nil
	})
	return moved, err
}

// ResetUser clears the user's balance and cooldowns. Gang membership is
// kept.
func (s *Storage) ResetUser(_ context.Context, guildID, userID string) error {
	return s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		u.Cash = 0
		u.Cooldowns = map[string]time.Time{}
		r.Users[userID] = u
		return nil
	})
}

// ClaimCooldown stamps action as used at now unless the user used it less
// than d ago. It reports whether the claim succeeded; a false result means
// another invocation won the race.
func (s *Storage) ClaimCooldown(_ context.Context, guildID, userID, action string, now time.Time, d time.Duration) (bool, error) {
	claimed := false
	err := s.Update(guildID, func(r *Record) error {
		u := r.user(userID)
		last := u.LastUse(action)
		if !last.IsZero() && now.Sub(last) < d {
			return nil
		}
		u.Cooldowns[action] = now
		r.Users[userID] = u
		claimed = true
		return nil
	})
	return claimed, err
}
