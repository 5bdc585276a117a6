package precondition

import (
	"time"

	"github.com/keshon/dea-bot/internal/domain"
)

// Evaluate checks reqs in order against snap and returns the first denial,
// or a permit when every requirement holds. Later requirements are not
// consulted once one denies.
func Evaluate(reqs []Requirement, snap Snapshot, now time.Time, rules Rules) Result {
	for _, req := range reqs {
		if res := check(req, snap, now, rules); !res.Allowed {
			return res
		}
	}
	return Permit()
}

func check(req Requirement, snap Snapshot, now time.Time, rules Rules) Result {
	m := snap.Member
	switch r := req.(type) {
	case BotOwner:
		if !rules.IsOwner(m.UserID) {
			return Deny(msgBotOwner)
		}
	case ServerOwner:
		if !hasTier(m, snap.Guild, domain.RankOwner, m.IsGuildOwner) {
			return Deny(msgServerOwner)
		}
	case Admin:
		if !hasTier(m, snap.Guild, domain.RankAdmin, m.Administrator) {
			return Deny(msgAdmin)
		}
	case Moderator:
		if !hasTier(m, snap.Guild, domain.RankModerator, m.Administrator) {
			return Deny(msgModerator)
		}
	case Nsfw:
		return checkNsfw(snap)
	case InGang:
		if snap.Gang == nil {
			return Deny(msgInGang)
		}
	case NoGang:
		if snap.Gang != nil {
			return Deny(msgNoGang)
		}
	case GangLeader:
		if snap.Gang == nil || snap.Gang.LeaderID != m.UserID {
			return Deny(msgGangLeader)
		}
	case CashFloor:
		if st := CheckFloor(r.Action, snap.Actor.Cash, rules.Thresholds); !st.OK {
			return Deny(msgCashFloor(st.Required))
		}
	case Cooldown:
		return checkCooldown(snap, now, rules)
	case RankRole:
		return checkRankRole(r, snap, rules)
	default:
		return Result{Message: msgUnhandled(req), Fault: true}
	}
	return Permit()
}

func checkNsfw(snap Snapshot) Result {
	g := snap.Guild
	switch CheckRestricted(g, snap.ChannelID, snap.Member.RoleIDs) {
	case RestrictedDisabled:
		return Deny(msgNsfwDisabled(g.Prefix))
	case RestrictedChannel:
		return Deny(msgNsfwChannel(g.NsfwChannelID))
	case RestrictedRole:
		return Deny(msgNsfwRole(g.NsfwRoleID))
	}
	return Permit()
}

func checkCooldown(snap Snapshot, now time.Time, rules Rules) Result {
	action := snap.Command
	rule, ok := rules.Cooldowns[action]
	if !ok {
		return Permit()
	}

	last := snap.Actor.LastUse(action)
	subject := snap.Member.Username
	if rule.Scope == ScopeGang {
		last = time.Time{}
		if snap.Gang != nil {
			last = snap.Gang.LastRaid
			subject = snap.Gang.Name
		}
	}

	st := CheckCooldown(action, last, now, rules.Cooldowns)
	if st.Ready {
		return Permit()
	}
	block := CooldownBlock{Action: action, Subject: subject, Remaining: st.Remaining}
	return Result{Message: CooldownText(block), Cooldown: &block}
}

func checkRankRole(r RankRole, snap Snapshot, rules Rules) Result {
	if rules.IsSponsor(snap.Member.UserID) {
		return Permit()
	}
	roleID := snap.Guild.RankRoles[r.Level]
	if roleID == "" {
		return Deny(msgRankMissing(snap.Guild.Prefix, r.Level))
	}
	if !snap.Member.HasRole(roleID) {
		return Deny(msgRankRole(roleID))
	}
	if snap.Actor.Cash < rules.RankCash[r.Level] {
		return Deny(msgIllegitRank)
	}
	return Permit()
}
