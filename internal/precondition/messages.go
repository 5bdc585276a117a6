package precondition

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	msgBotOwner    = "Only an owner of this bot may use this command."
	msgServerOwner = "Only the owners of this server may use this command."
	msgAdmin       = "The administrator permission is required to use this command."
	msgModerator   = "Only a moderator may use this command."
	msgInGang      = "You must be in a gang to use this command."
	msgNoGang      = "You may not use this command while in a gang."
	msgGangLeader  = "You must be the leader of a gang to use this command."
	msgIllegitRank = "Hmmm.... It seems you did not get that rank legitimately."
)

func msgNsfwDisabled(prefix string) string {
	return fmt.Sprintf("This command may not be used while NSFW is disabled. "+
		"An administrator may enable with the `%sChangeNSFWSettings` command.", prefix)
}

func msgNsfwChannel(channelID string) string {
	return fmt.Sprintf("You may only use this command in <#%s>.", channelID)
}

func msgNsfwRole(roleID string) string {
	return fmt.Sprintf("You do not have permission to use this command.\nRequired role: <@&%s>", roleID)
}

func msgCashFloor(required int64) string {
	return fmt.Sprintf("You do not have the permission to use this command.\nRequired cash: %s.", FormatCash(required))
}

func msgRankMissing(prefix string, level int) string {
	return fmt.Sprintf("This command may not be used if the rank %d role does not exist.\n"+
		"Use the `%sSetRankRole` command to change that.", level, prefix)
}

func msgRankRole(roleID string) string {
	return fmt.Sprintf("You do not have the permission to use this command.\nRequired role: <@&%s>", roleID)
}

func msgUnhandled(r Requirement) string {
	return fmt.Sprintf("ERROR: The %s requirement is not being handled!", r)
}

// CooldownText is the plain text rendering of a cooldown, used when no
// richer notice could be delivered.
func CooldownText(b CooldownBlock) string {
	h, m, s := SplitDuration(b.Remaining)
	return fmt.Sprintf("%s cooldown for %s\nHours: %d\nMinutes: %d\nSeconds: %d", b.Action, b.Subject, h, m, s)
}

// SplitDuration breaks d into whole hours, minutes and seconds.
func SplitDuration(d time.Duration) (hours, minutes, seconds int) {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return total / 3600, total % 3600 / 60, total % 60
}

// FormatCash renders an amount as dollars with thousands separators.
func FormatCash(amount int64) string {
	if amount < 0 {
		return "-$" + humanize.Comma(-amount)
	}
	return "$" + humanize.Comma(amount)
}
