package precondition

import (
	"slices"

	"github.com/keshon/dea-bot/internal/domain"
)

// Restriction is the outcome of CheckRestricted.
type Restriction int

const (
	Unrestricted Restriction = iota
	RestrictedDisabled
	RestrictedChannel
	RestrictedRole
)

// CheckRestricted evaluates the guild's NSFW settings in fixed order: the
// feature flag, then the dedicated channel, then the gating role. Unset
// channel or role skips that step.
func CheckRestricted(guild domain.GuildConfig, channelID string, roleIDs []string) Restriction {
	if !guild.Nsfw {
		return RestrictedDisabled
	}
	if guild.NsfwChannelID != "" && channelID != guild.NsfwChannelID {
		return RestrictedChannel
	}
	if guild.NsfwRoleID != "" && !slices.Contains(roleIDs, guild.NsfwRoleID) {
		return RestrictedRole
	}
	return Unrestricted
}
