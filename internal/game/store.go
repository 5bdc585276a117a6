package game

import (
	"context"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage"
	"github.com/keshon/dea-bot/internal/storage/sqlstore"
)

// Store is the state the commands read and write. storage.Storage and
// sqlstore.Store both implement it.
type Store interface {
	precondition.StateReader

	SetPrefix(ctx context.Context, guildID, prefix string) error
	SetModRole(ctx context.Context, guildID, roleID string, rank int) error
	RemoveModRole(ctx context.Context, guildID, roleID string) error
	SetNsfw(ctx context.Context, guildID string, enabled bool) error
	SetNsfwChannel(ctx context.Context, guildID, channelID string) error
	SetNsfwRole(ctx context.Context, guildID, roleID string) error
	SetRankRole(ctx context.Context, guildID string, level int, roleID string) error

	AddCash(ctx context.Context, guildID, userID string, delta int64) (int64, error)
	Transfer(ctx context.Context, guildID, fromID, toID string, amount int64) (int64, error)
	ResetUser(ctx context.Context, guildID, userID string) error
	ClaimCooldown(ctx context.Context, guildID, userID, action string, now time.Time, d time.Duration) (bool, error)

	FindGang(ctx context.Context, guildID, name string) (domain.GangState, error)
	CreateGang(ctx context.Context, guildID, leaderID, name string) (domain.GangState, error)
	JoinGang(ctx context.Context, guildID, userID, name string, limit int) (domain.GangState, error)
	LeaveGang(ctx context.Context, guildID, userID string) (bool, error)
	Deposit(ctx context.Context, guildID, userID string, amount int64) (domain.GangState, error)
	Withdraw(ctx context.Context, guildID, userID string, amount int64, now time.Time) (domain.GangState, error)
	ClaimRaid(ctx context.Context, guildID, gangID string, now time.Time, d time.Duration) (bool, error)
	AddGangWealth(ctx context.Context, guildID, gangID string, delta int64) (int64, error)

	AppendCommandHistory(ctx context.Context, guildID string, entry domain.CommandHistory) error
	FetchCommandHistory(ctx context.Context, guildID string) ([]domain.CommandHistory, error)
}

var (
	_ Store = (*storage.Storage)(nil)
	_ Store = (*sqlstore.Store)(nil)
)
