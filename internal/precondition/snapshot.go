package precondition

import (
	"slices"

	"github.com/keshon/dea-bot/internal/domain"
)

// Member is the invoking guild member as seen by the chat platform at the
// time of the command.
type Member struct {
	UserID        string
	Username      string
	RoleIDs       []string
	IsGuildOwner  bool
	Administrator bool // native platform administrator permission
}

// HasRole reports whether the member holds roleID.
func (m Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}

// Invocation identifies one command call.
type Invocation struct {
	Command      string
	GuildID      string
	ChannelID    string
	Member       Member
	Requirements []Requirement
}

// Snapshot is the read-only state an evaluation runs against. Gang is nil
// when the actor is not in a gang.
type Snapshot struct {
	Invocation
	Guild domain.GuildConfig
	Actor domain.ActorState
	Gang  *domain.GangState
}

// Rules is the static configuration consulted during evaluation. Treat it as
// immutable once handed to an Engine.
type Rules struct {
	OwnerIDs   []string
	SponsorIDs []string
	Thresholds ThresholdTable
	Cooldowns  CooldownTable
	RankCash   map[int]int64 // cash rank level -> required cash
}

// IsOwner reports whether userID is a bot owner.
func (r Rules) IsOwner(userID string) bool {
	return slices.Contains(r.OwnerIDs, userID)
}

// IsSponsor reports whether userID is a sponsor.
func (r Rules) IsSponsor(userID string) bool {
	return slices.Contains(r.SponsorIDs, userID)
}
