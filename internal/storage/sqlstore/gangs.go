package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/storage"
)

type gangRow struct {
	GangID   string `db:"gang_id"`
	GuildID  string `db:"guild_id"`
	Name     string `db:"name"`
	LeaderID string `db:"leader_id"`
	Wealth   int64  `db:"wealth"`
	LastRaid int64  `db:"last_raid"`
}

func loadGang(ctx context.Context, q querier, where string, args ...any) (domain.GangState, error) {
	var row gangRow
	if err := q.GetContext(ctx, &row, "SELECT * FROM gangs WHERE "+where, args...); err != nil {
		return domain.GangState{}, notFound(err)
	}
	gang := domain.GangState{
		ID:       row.GangID,
		Name:     row.Name,
		LeaderID: row.LeaderID,
		Wealth:   row.Wealth,
		LastRaid: fromMillis(row.LastRaid),
		Members:  []string{},
	}
	if err := q.SelectContext(ctx, &gang.Members, "SELECT user_id FROM gang_members WHERE gang_id = ? ORDER BY rowid", row.GangID); err != nil {
		return domain.GangState{}, fmt.Errorf("failed to get members of gang %s: %w", row.GangID, err)
	}
	return gang, nil
}

func (s *Store) FetchGang(ctx context.Context, guildID, gangID string) (domain.GangState, error) {
	return loadGang(ctx, s.db, "guild_id = ? AND gang_id = ?", guildID, gangID)
}

// FindGang looks a gang up by name, ignoring case.
func (s *Store) FindGang(ctx context.Context, guildID, name string) (domain.GangState, error) {
	return loadGang(ctx, s.db, "guild_id = ? AND name = ?", guildID, name)
}

func (s *Store) CreateGang(ctx context.Context, guildID, leaderID, name string) (domain.GangState, error) {
	var gang domain.GangState
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		leader, err := loadActor(ctx, tx, guildID, leaderID)
		if err != nil {
			return err
		}
		if leader.InGang() {
			return storage.ErrInGang
		}
		if _, err := loadGang(ctx, tx, "guild_id = ? AND name = ?", guildID, name); err == nil {
			return storage.ErrNameTaken
		} else if err != storage.ErrNotFound {
			return err
		}

		gang = domain.GangState{ID: uuid.New().String(), Name: name, LeaderID: leaderID, Members: []string{leaderID}}
		_, err = tx.NamedExecContext(ctx, `INSERT INTO gangs (gang_id, guild_id, name, leader_id, wealth, last_raid)
			VALUES (:gang_id, :guild_id, :name, :leader_id, :wealth, :last_raid)`,
			gangRow{GangID: gang.ID, GuildID: guildID, Name: name, LeaderID: leaderID})
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return storage.ErrNameTaken
			}
			return fmt.Errorf("failed to insert gang %s: %w", name, err)
		}
		if err := addMember(ctx, tx, gang.ID, leaderID); err != nil {
			return err
		}
		leader.GangID = gang.ID
		return saveUser(ctx, tx, guildID, leader)
	})
	return gang, err
}

func addMember(ctx context.Context, tx *sqlx.Tx, gangID, userID string) error {
	if _, err := tx.ExecContext(ctx, "INSERT INTO gang_members (gang_id, user_id) VALUES (?, ?)", gangID, userID); err != nil {
		return fmt.Errorf("failed to add %s to gang %s: %w", userID, gangID, err)
	}
	return nil
}

// JoinGang adds userID to the named gang. limit caps the member count; zero
// means unlimited.
func (s *Store) JoinGang(ctx context.Context, guildID, userID, name string, limit int) (domain.GangState, error) {
	var gang domain.GangState
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := loadActor(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if u.InGang() {
			return storage.ErrInGang
		}
		g, err := loadGang(ctx, tx, "guild_id = ? AND name = ?", guildID, name)
		if err != nil {
			return err
		}
		if limit > 0 && len(g.Members) >= limit {
			return storage.ErrGangFull
		}
		if err := addMember(ctx, tx, g.ID, userID); err != nil {
			return err
		}
		u.GangID = g.ID
		g.Members = append(g.Members, userID)
		gang = g
		return saveUser(ctx, tx, guildID, u)
	})
	return gang, err
}

// LeaveGang removes userID from their gang, disbanding it when the leader
// leaves.
func (s *Store) LeaveGang(ctx context.Context, guildID, userID string) (bool, error) {
	disbanded := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := loadActor(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if !u.InGang() {
			return storage.ErrNotInGang
		}
		g, err := loadGang(ctx, tx, "guild_id = ? AND gang_id = ?", guildID, u.GangID)
		if err == storage.ErrNotFound {
			u.GangID = ""
			return saveUser(ctx, tx, guildID, u)
		}
		if err != nil {
			return err
		}

		if g.LeaderID != userID {
			if _, err := tx.ExecContext(ctx, "DELETE FROM gang_members WHERE gang_id = ? AND user_id = ?", g.ID, userID); err != nil {
				return fmt.Errorf("failed to remove %s from gang: %w", userID, err)
			}
			u.GangID = ""
			return saveUser(ctx, tx, guildID, u)
		}

		if _, err := tx.ExecContext(ctx, "UPDATE users SET gang_id = '' WHERE guild_id = ? AND gang_id = ?", guildID, g.ID); err != nil {
			return fmt.Errorf("failed to release members of gang %s: %w", g.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM gang_members WHERE gang_id = ?", g.ID); err != nil {
			return fmt.Errorf("failed to disband gang %s: %w", g.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM gangs WHERE gang_id = ?", g.ID); err != nil {
			return fmt.Errorf("failed to disband gang %s: %w", g.Name, err)
		}
		disbanded = true
		return nil
	})
	return disbanded, err
}

// Deposit moves amount from the user's cash into their gang's wealth.
func (s *Store) Deposit(ctx context.Context, guildID, userID string, amount int64) (domain.GangState, error) {
	var gang domain.GangState
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, g, err := memberAndGang(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if u.Cash < amount {
			return storage.ErrInsufficientFunds
		}
		u.Cash -= amount
		g.Wealth += amount
		if err := setWealth(ctx, tx, g.ID, g.Wealth); err != nil {
			return err
		}
		gang = g
		return saveUser(ctx, tx, guildID, u)
	})
	return gang, err
}

// Withdraw moves amount from the gang's wealth to the user and stamps the
// withdraw cooldown at now.
func (s *Store) Withdraw(ctx context.Context, guildID, userID string, amount int64, now time.Time) (domain.GangState, error) {
	var gang domain.GangState
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		u, g, err := memberAndGang(ctx, tx, guildID, userID)
		if err != nil {
			return err
		}
		if g.Wealth < amount {
			return storage.ErrInsufficientFunds
		}
		g.Wealth -= amount
		u.Cash += amount
		if err := setWealth(ctx, tx, g.ID, g.Wealth); err != nil {
			return err
		}
		if err := saveUser(ctx, tx, guildID, u); err != nil {
			return err
		}
		gang = g
		return stampCooldown(ctx, tx, guildID, userID, "withdraw", now)
	})
	return gang, err
}

// ClaimRaid stamps the gang's raid at now unless it raided less than d ago.
func (s *Store) ClaimRaid(ctx context.Context, guildID, gangID string, now time.Time, d time.Duration) (bool, error) {
	claimed := false
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var lastRaid int64
		if err := tx.GetContext(ctx, &lastRaid, "SELECT last_raid FROM gangs WHERE guild_id = ? AND gang_id = ?", guildID, gangID); err != nil {
			return notFound(err)
		}
		if last := fromMillis(lastRaid); !last.IsZero() && now.Sub(last) < d {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "UPDATE gangs SET last_raid = ? WHERE gang_id = ?", toMillis(now), gangID); err != nil {
			return fmt.Errorf("failed to stamp raid: %w", err)
		}
		claimed = true
		return nil
	})
	return claimed, err
}

// AddGangWealth adds delta to the gang's wealth, flooring it at zero.
func (s *Store) AddGangWealth(ctx context.Context, guildID, gangID string, delta int64) (int64, error) {
	var wealth int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &wealth, "SELECT wealth FROM gangs WHERE guild_id = ? AND gang_id = ?", guildID, gangID); err != nil {
			return notFound(err)
		}
		wealth = max(wealth+delta, 0)
		return setWealth(ctx, tx, gangID, wealth)
	})
	return wealth, err
}

func memberAndGang(ctx context.Context, tx *sqlx.Tx, guildID, userID string) (domain.ActorState, domain.GangState, error) {
	u, err := loadActor(ctx, tx, guildID, userID)
	if err != nil {
		return u, domain.GangState{}, err
	}
	if !u.InGang() {
		return u, domain.GangState{}, storage.ErrNotInGang
	}
	g, err := loadGang(ctx, tx, "guild_id = ? AND gang_id = ?", guildID, u.GangID)
	return u, g, err
}

func setWealth(ctx context.Context, tx *sqlx.Tx, gangID string, wealth int64) error {
	if _, err := tx.ExecContext(ctx, "UPDATE gangs SET wealth = ? WHERE gang_id = ?", wealth, gangID); err != nil {
		return fmt.Errorf("failed to update gang wealth: %w", err)
	}
	return nil
}
