package precondition

import "github.com/keshon/dea-bot/internal/domain"

// ResolveRank returns the highest rank among roleIDs in the guild's mod role
// table, or 0 when none match.
func ResolveRank(roleIDs []string, guild domain.GuildConfig) int {
	best := domain.RankNone
	for _, id := range roleIDs {
		if rank, ok := guild.ModRoles[id]; ok && rank > best {
			best = rank
		}
	}
	return best
}

// hasTier applies the configured table once any role reaches tier and the
// built-in fallback before that.
func hasTier(m Member, guild domain.GuildConfig, tier int, fallback bool) bool {
	if !guild.HasRankAtLeast(tier) {
		return fallback
	}
	return ResolveRank(m.RoleIDs, guild) >= tier
}

// MemberTier returns the highest moderation tier m passes in guild, with the
// same fallbacks the ServerOwner, Admin and Moderator requirements use.
func MemberTier(m Member, guild domain.GuildConfig) int {
	switch {
	case hasTier(m, guild, domain.RankOwner, m.IsGuildOwner):
		return domain.RankOwner
	case hasTier(m, guild, domain.RankAdmin, m.Administrator):
		return domain.RankAdmin
	case hasTier(m, guild, domain.RankModerator, m.Administrator):
		return domain.RankModerator
	}
	return domain.RankNone
}
