package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/storage"
)

type guildRow struct {
	GuildID       string `db:"guild_id"`
	Prefix        string `db:"prefix"`
	Nsfw          bool   `db:"nsfw"`
	NsfwChannelID string `db:"nsfw_channel_id"`
	NsfwRoleID    string `db:"nsfw_role_id"`
}

type modRoleRow struct {
	RoleID string `db:"role_id"`
	Rank   int    `db:"role_rank"`
}

type rankRoleRow struct {
	Level  int    `db:"level"`
	RoleID string `db:"role_id"`
}

// FetchGuild reads the guild's configuration. Guilds never configured read
// as defaults.
func (s *Store) FetchGuild(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	guild := domain.GuildConfig{
		GuildID:   guildID,
		Prefix:    s.defaultPrefix,
		ModRoles:  map[string]int{},
		RankRoles: map[int]string{},
	}

	var row guildRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM guilds WHERE guild_id = ?", guildID)
	switch err := notFound(err); err {
	case nil:
		if row.Prefix != "" {
			guild.Prefix = row.Prefix
		}
		guild.Nsfw = row.Nsfw
		guild.NsfwChannelID = row.NsfwChannelID
		guild.NsfwRoleID = row.NsfwRoleID
	case storage.ErrNotFound:
	default:
		return domain.GuildConfig{}, fmt.Errorf("failed to get guild %s: %w", guildID, err)
	}

	var mods []modRoleRow
	if err := s.db.SelectContext(ctx, &mods, "SELECT role_id, role_rank FROM mod_roles WHERE guild_id = ?", guildID); err != nil {
		return domain.GuildConfig{}, fmt.Errorf("failed to get mod roles for guild %s: %w", guildID, err)
	}
	for _, m := range mods {
		guild.ModRoles[m.RoleID] = m.Rank
	}

	var ranks []rankRoleRow
	if err := s.db.SelectContext(ctx, &ranks, "SELECT level, role_id FROM rank_roles WHERE guild_id = ?", guildID); err != nil {
		return domain.GuildConfig{}, fmt.Errorf("failed to get rank roles for guild %s: %w", guildID, err)
	}
	for _, r := range ranks {
		guild.RankRoles[r.Level] = r.RoleID
	}
	return guild, nil
}

// setGuildColumn upserts a single guilds column. column is never user
// input.
func (s *Store) setGuildColumn(ctx context.Context, guildID, column string, value any) error {
	query := fmt.Sprintf(`INSERT INTO guilds (guild_id, %[1]s) VALUES (?, ?)
		ON CONFLICT (guild_id) DO UPDATE SET %[1]s = excluded.%[1]s`, column)
	if _, err := s.db.ExecContext(ctx, query, guildID, value); err != nil {
		return fmt.Errorf("failed to set %s for guild %s: %w", column, guildID, err)
	}
	return nil
}

func (s *Store) SetPrefix(ctx context.Context, guildID, prefix string) error {
	return s.setGuildColumn(ctx, guildID, "prefix", prefix)
}

func (s *Store) SetNsfw(ctx context.Context, guildID string, enabled bool) error {
	return s.setGuildColumn(ctx, guildID, "nsfw", enabled)
}

func (s *Store) SetNsfwChannel(ctx context.Context, guildID, channelID string) error {
	return s.setGuildColumn(ctx, guildID, "nsfw_channel_id", channelID)
}

func (s *Store) SetNsfwRole(ctx context.Context, guildID, roleID string) error {
	return s.setGuildColumn(ctx, guildID, "nsfw_role_id", roleID)
}

func (s *Store) SetModRole(ctx context.Context, guildID, roleID string, rank int) error {
	if rank < domain.RankModerator || rank > domain.RankOwner {
		return fmt.Errorf("rank %d out of range", rank)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO mod_roles (guild_id, role_id, role_rank) VALUES (?, ?, ?)
		ON CONFLICT (guild_id, role_id) DO UPDATE SET role_rank = excluded.role_rank`, guildID, roleID, rank)
	if err != nil {
		return fmt.Errorf("failed to set mod role %s: %w", roleID, err)
	}
	return nil
}

func (s *Store) RemoveModRole(ctx context.Context, guildID, roleID string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM mod_roles WHERE guild_id = ? AND role_id = ?", guildID, roleID)
		if err != nil {
			return fmt.Errorf("failed to remove mod role %s: %w", roleID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// SetRankRole binds a cash rank level to a role. An empty roleID unbinds it.
func (s *Store) SetRankRole(ctx context.Context, guildID string, level int, roleID string) error {
	if level < 1 {
		return fmt.Errorf("rank level %d out of range", level)
	}
	var err error
	if roleID == "" {
		_, err = s.db.ExecContext(ctx, "DELETE FROM rank_roles WHERE guild_id = ? AND level = ?", guildID, level)
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO rank_roles (guild_id, level, role_id) VALUES (?, ?, ?)
			ON CONFLICT (guild_id, level) DO UPDATE SET role_id = excluded.role_id`, guildID, level, roleID)
	}
	if err != nil {
		return fmt.Errorf("failed to set rank role %d: %w", level, err)
	}
	return nil
}
