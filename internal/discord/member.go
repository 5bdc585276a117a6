package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dea-bot/internal/precondition"
)

// memberOf describes the author of a guild message for the precondition
// engine. The guild comes from state when cached and from the API
// otherwise.
func memberOf(s *discordgo.Session, guildID string, author *discordgo.User, m *discordgo.Member) (precondition.Member, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return precondition.Member{}, fmt.Errorf("fetch guild: %w", err)
		}
	}
	var roleIDs []string
	if m != nil {
		roleIDs = m.Roles
	}
	return resolveMember(guild, author, roleIDs), nil
}

// resolveMember flags the guild owner and holders of a role carrying the
// administrator permission.
func resolveMember(guild *discordgo.Guild, author *discordgo.User, roleIDs []string) precondition.Member {
	member := precondition.Member{
		UserID:       author.ID,
		Username:     author.Username,
		RoleIDs:      append([]string(nil), roleIDs...),
		IsGuildOwner: author.ID == guild.OwnerID,
	}
	member.Administrator = member.IsGuildOwner

	for _, role := range guild.Roles {
		if role == nil || role.Permissions&discordgo.PermissionAdministrator == 0 {
			continue
		}
		if member.HasRole(role.ID) {
			member.Administrator = true
			break
		}
	}
	return member
}
