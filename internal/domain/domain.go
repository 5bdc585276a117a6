// Package domain holds the state records the command gate reads: guild
// settings, per-user economy state and gangs.
package domain

import "time"

// Rank levels a guild can delegate to its roles.
const (
	RankNone      = 0
	RankModerator = 1
	RankAdmin     = 2
	RankOwner     = 3
)

// GuildConfig is the per-guild configuration consulted by the gate.
type GuildConfig struct {
	GuildID       string         `json:"guild_id"`
	Prefix        string         `json:"prefix"`
	ModRoles      map[string]int `json:"mod_roles"`  // role id -> rank
	RankRoles     map[int]string `json:"rank_roles"` // cash rank level -> role id
	Nsfw          bool           `json:"nsfw"`
	NsfwChannelID string         `json:"nsfw_channel_id"`
	NsfwRoleID    string         `json:"nsfw_role_id"`
}

// HasRankAtLeast reports whether any configured mod role carries a rank of
// at least tier.
func (g GuildConfig) HasRankAtLeast(tier int) bool {
	for _, rank := range g.ModRoles {
		if rank >= tier {
			return true
		}
	}
	return false
}

// ActorState is a user's economy record inside one guild.
type ActorState struct {
	UserID    string               `json:"user_id"`
	Cash      int64                `json:"cash"`
	Cooldowns map[string]time.Time `json:"cooldowns"` // action -> last use
	GangID    string               `json:"gang_id,omitempty"`
}

// LastUse returns the last time the action was used, or the zero time when
// it never was.
func (a ActorState) LastUse(action string) time.Time {
	if a.Cooldowns == nil {
		return time.Time{}
	}
	return a.Cooldowns[action]
}

// InGang reports whether the user belongs to a gang.
func (a ActorState) InGang() bool {
	return a.GangID != ""
}

// GangState is a named group of users sharing group-scoped cooldowns.
type GangState struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	LeaderID string    `json:"leader_id"`
	Members  []string  `json:"members"`
	Wealth   int64     `json:"wealth"`
	LastRaid time.Time `json:"last_raid"`
}

// HasMember reports whether userID is the leader or a member of the gang.
func (g GangState) HasMember(userID string) bool {
	if g.LeaderID == userID {
		return true
	}
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CommandHistory is one logged command execution.
type CommandHistory struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Datetime  time.Time `json:"datetime"`
}
