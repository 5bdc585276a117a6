package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/storage"
)

type userRow struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	Cash    int64  `db:"cash"`
	GangID  string `db:"gang_id"`
}

type cooldownRow struct {
	Action string `db:"action"`
	UsedAt int64  `db:"used_at"`
}

// querier is the read side shared by *sqlx.DB and *sqlx.Tx.
type querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

func (s *Store) FetchActor(ctx context.Context, guildID, userID string) (domain.ActorState, error) {
	return loadActor(ctx, s.db, guildID, userID)
}

func loadActor(ctx context.Context, q querier, guildID, userID string) (domain.ActorState, error) {
	actor := domain.ActorState{UserID: userID, Cooldowns: map[string]time.Time{}}

	var row userRow
	err := q.GetContext(ctx, &row, "SELECT * FROM users WHERE guild_id = ? AND user_id = ?", guildID, userID)
	switch err := notFound(err); err {
	case nil:
		actor.Cash = row.Cash
		actor.GangID = row.GangID
	case storage.ErrNotFound:
	default:
		return domain.ActorState{}, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var cooldowns []cooldownRow
	if err := q.SelectContext(ctx, &cooldowns, "SELECT action, used_at FROM cooldowns WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return domain.ActorState{}, fmt.Errorf("failed to get cooldowns for user %s: %w", userID, err)
	}
	for _, c := range cooldowns {
		actor.Cooldowns[c.Action] = fromMillis(c.UsedAt)
	}
	return actor, nil
}

func saveUser(ctx context.Context, tx *sqlx.Tx, guildID string, u domain.ActorState) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO users (guild_id, user_id, cash, gang_id)
		VALUES (:guild_id, :user_id, :cash, :gang_id)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET cash = excluded.cash, gang_id = excluded.gang_id`,
		userRow{GuildID: guildID, UserID: u.UserID, Cash: u.Cash, GangID: u.GangID})
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.UserID, err)
	}
	return nil
}

func stampCooldown(ctx context.Context, tx *sqlx.Tx, guildID, userID, action string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO cooldowns (guild_id, user_id, action, used_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (guild_id, user_id, action) DO UPDATE SET used_at = excluded.used_at`,
		guildID, userID, action, toMillis(at))
	if err != nil {
		return fmt.Errorf("failed to stamp %s cooldown: %w", action, err)
	}
	return nil
}

// AddCash adds delta to the user's balance and returns the new balance.
func (s *Store) AddCash(ctx context.Context, guildID, userID string, delta int64) (int64, error) {
	var balance int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := loadActor(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if u.Cash+delta < 0 {
			return storage.ErrInsufficientFunds
		}
		u.Cash += delta
		balance = u.Cash
		return saveUser(ctx, tx, guildID, u)
	})
	return balance, err
}

// Transfer moves up to amount from one user to another and reports the sum
// actually moved. A transfer to oneself moves nothing.
func (s *Store) Transfer(ctx context.Context, guildID, fromID, toID string, amount int64) (int64, error) {
	if fromID == toID {
		return 0, nil
	}
	var moved int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		from, err := loadActor(ctx, tx, guildID, fromID)
		if err != nil {
			return err
		}
		to, err := loadActor(ctx, tx, guildID, toID)
		if err != nil {
			return err
		}
		moved = min(amount, max(from.Cash, 0))
		from.Cash -= moved
		to.Cash += moved
		if err := saveUser(ctx, tx, guildID, from); err != nil {
			return err
		}
		return saveUser(ctx, tx, guildID, to)
	})
	return moved, err
}

// ResetUser clears the user's balance and cooldowns.
func (s *Store) ResetUser(ctx context.Context, guildID, userID string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE users SET cash = 0 WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
			return fmt.Errorf("failed to reset user %s: %w", userID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM cooldowns WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
			return fmt.Errorf("failed to reset cooldowns for user %s: %w", userID, err)
		}
		return nil
	})
}

// ClaimCooldown stamps action at now unless it was used less than d ago.
func (s *Store) ClaimCooldown(ctx context.Context, guildID, userID, action string, now time.Time, d time.Duration) (bool, error) {
	claimed := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var usedAt int64
		err := tx.GetContext(ctx, &usedAt, "SELECT used_at FROM cooldowns WHERE guild_id = ? AND user_id = ? AND action = ?", guildID, userID, action)
		if err := notFound(err); err != nil && err != storage.ErrNotFound {
			return fmt.Errorf("failed to read %s cooldown: %w", action, err)
		}
		if last := fromMillis(usedAt); !last.IsZero() && now.Sub(last) < d {
			return nil
		}
		if err := stampCooldown(ctx, tx, guildID, userID, action, now); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	return claimed, err
}

// ClearExpiredCooldowns drops cooldown stamps older than maxAge.
func (s *Store) ClearExpiredCooldowns(maxAge time.Duration, now time.Time) error {
	_, err := s.db.Exec("DELETE FROM cooldowns WHERE used_at <= ?", now.Add(-maxAge).UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to clear expired cooldowns: %w", err)
	}
	return nil
}
