package storage

import (
	"context"
	"fmt"

	"github.com/keshon/dea-bot/internal/domain"
)

// FetchGuild returns the guild's configuration with the default prefix
// filled in.
func (s *Storage) FetchGuild(_ context.Context, guildID string) (domain.GuildConfig, error) {
	record, err := s.view(guildID)
	if err != nil {
		return domain.GuildConfig{}, err
	}
	guild := record.Guild
	guild.GuildID = guildID
	if guild.Prefix == "" {
		guild.Prefix = s.defaultPrefix
	}
	return guild, nil
}

func (s *Storage) SetPrefix(_ context.Context, guildID, prefix string) error {
	return s.Update(guildID, func(r *Record) error {
		r.Guild.Prefix = prefix
		return nil
	})
}

// SetModRole grants rank to roleID. Rank must be one of the mod tiers.
func (s *Storage) SetModRole(_ context.Context, guildID, roleID string, rank int) error {
	if rank < domain.RankModerator || rank > domain.RankOwner {
		return fmt.Errorf("rank %d out of range", rank)
	}
	return s.Update(guildID, func(r *Record) error {
		r.Guild.ModRoles[roleID] = rank
		return nil
	})
}

func (s *Storage) RemoveModRole(_ context.Context, guildID, roleID string) error {
	return s.Update(guildID, func(r *Record) error {
		if _, ok := r.Guild.ModRoles[roleID]; !ok {
			return ErrNotFound
		}
		delete(r.Guild.ModRoles, roleID)
		return nil
	})
}

func (s *Storage) SetNsfw(_ context.Context, guildID string, enabled bool) error {
	return s.Update(guildID, func(r *Record) error {
		r.Guild.Nsfw = enabled
		return nil
	})
}

func (s *Storage) SetNsfwChannel(_ context.Context, guildID, channelID string) error {
	return s.Update(guildID, func(r *Record) error {
		r.Guild.NsfwChannelID = channelID
		return nil
	})
}

func (s *Storage) SetNsfwRole(_ context.Context, guildID, roleID string) error {
	return s.Update(guildID, func(r *Record) error {
		r.Guild.NsfwRoleID = roleID
		return nil
	})
}

// SetRankRole binds a cash rank level to a role. An empty roleID unbinds it.
func (s *Storage) SetRankRole(_ context.Context, guildID string, level int, roleID string) error {
	if level < 1 {
		return fmt.Errorf("rank level %d out of range", level)
	}
	return s.Update(guildID, func(r *Record) error {
		if roleID == "" {
			delete(r.Guild.RankRoles, level)
			return nil
		}
		r.Guild.RankRoles[level] = roleID
		return nil
	})
}
