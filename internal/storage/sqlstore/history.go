package sqlstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/keshon/dea-bot/internal/domain"
)

type historyRow struct {
	ID        int64  `db:"id"`
	GuildID   string `db:"guild_id"`
	ChannelID string `db:"channel_id"`
	UserID    string `db:"user_id"`
	Username  string `db:"username"`
	Command   string `db:"command"`
	Datetime  int64  `db:"datetime"`
}

func (s *Store) AppendCommandHistory(ctx context.Context, guildID string, entry domain.CommandHistory) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO command_history (guild_id, channel_id, user_id, username, command, datetime)
		VALUES (:guild_id, :channel_id, :user_id, :username, :command, :datetime)`, historyRow{
		GuildID:   guildID,
		ChannelID: entry.ChannelID,
		UserID:    entry.UserID,
		Username:  entry.Username,
		Command:   entry.Command,
		Datetime:  toMillis(entry.Datetime),
	})
	if err != nil {
		return fmt.Errorf("failed to insert command history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM command_history WHERE guild_id = ? AND id NOT IN
		(SELECT id FROM command_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?)`, guildID, guildID, s.historyLimit)
	if err != nil {
		return fmt.Errorf("failed to trim command history: %w", err)
	}
	return nil
}

// FetchCommandHistory returns the guild's logged commands, oldest first.
func (s *Store) FetchCommandHistory(ctx context.Context, guildID string) ([]domain.CommandHistory, error) {
	var rows []historyRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM command_history WHERE guild_id = ? ORDER BY id DESC LIMIT ?", guildID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get command history for guild %s: %w", guildID, err)
	}
	slices.Reverse(rows)

	history := make([]domain.CommandHistory, 0, len(rows))
	for _, r := range rows {
		history = append(history, domain.CommandHistory{
			ChannelID: r.ChannelID,
			UserID:    r.UserID,
			Username:  r.Username,
			Command:   r.Command,
			Datetime:  fromMillis(r.Datetime),
		})
	}
	return history, nil
}
