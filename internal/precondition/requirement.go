// Package precondition decides whether a command may run.
//
// A command declares an ordered list of requirements. Evaluate walks them in
// order against an immutable snapshot of the invoking member, the guild
// configuration, the member's economy record and gang, and returns the first
// denial it meets or a permit. Evaluation holds no state and performs no
// writes; it is safe to call from any number of goroutines.
package precondition

import (
	"fmt"
	"strconv"
	"strings"
)

// Requirement is one necessary condition attached to a command.
//
//sumtype:decl
type Requirement interface {
	requirement()
	String() string
}

// BotOwner permits only the configured bot owners.
type BotOwner struct{}

// ServerOwner requires rank 3, or the literal guild owner while no rank 3
// role is configured.
type ServerOwner struct{}

// Admin requires rank 2, or the native Administrator permission while no
// rank 2+ role is configured.
type Admin struct{}

// Moderator requires rank 1, or the native Administrator permission while no
// mod role is configured.
type Moderator struct{}

// Nsfw gates restricted content behind the guild's NSFW settings.
type Nsfw struct{}

// InGang requires gang membership.
type InGang struct{}

// NoGang requires the member to be outside any gang.
type NoGang struct{}

// GangLeader requires the member to lead their gang.
type GangLeader struct{}

// CashFloor requires the member's balance to reach the threshold configured
// for Action.
type CashFloor struct {
	Action string
}

// Cooldown applies the cooldown configured for the invoked command.
type Cooldown struct{}

// RankRole requires the cash rank role of the given level: the role must
// exist, the member must hold it and still meet that rank's cash
// requirement. Sponsors bypass the check.
type RankRole struct {
	Level int
}

// Unknown is a requirement name that did not parse. It always denies.
type Unknown struct {
	Name string
}

func (BotOwner) requirement() {}
func (ServerOwner) requirement() {}
func (Admin) requirement() {}
func (Moderator) requirement() {}
func (Nsfw) requirement() {}
func (InGang) requirement() {}
func (NoGang) requirement() {}
func (GangLeader) requirement() {}
func (CashFloor) requirement() {}
func (Cooldown) requirement() {}
func (RankRole) requirement() {}
func (Unknown) requirement() {}

func (BotOwner) String() string { return "BotOwner" }
func (ServerOwner) String() string { return "ServerOwner" }
func (Admin) String() string { return "Admin" }
func (Moderator) String() string { return "Moderator" }
func (Nsfw) String() string { return "Nsfw" }
func (InGang) String() string { return "InGang" }
func (NoGang) String() string { return "NoGang" }
func (GangLeader) String() string { return "GangLeader" }
func (c CashFloor) String() string { return "Cash:" + c.Action }
func (Cooldown) String() string { return "Cooldown" }
func (r RankRole) String() string { return "Rank:" + strconv.Itoa(r.Level) }
func (u Unknown) String() string { return u.Name }

// legacyFloors maps the single-word cash attributes of older configs to
// their threshold action.
var legacyFloors = map[string]string{
	"jump":    "jump",
	"steal":   "steal",
	"rob":     "rob",
	"bully":   "bully",
	"fiftyx2": "50x2",
}

// ParseRequirement turns a configured requirement name into a Requirement.
// Names are case-insensitive. "cash:<action>" and "rank:<level>" carry a
// parameter. Anything unrecognised becomes Unknown.
func ParseRequirement(s string) Requirement {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "botowner", "owner":
		return BotOwner{}
	case "serverowner":
		return ServerOwner{}
	case "admin":
		return Admin{}
	case "moderator", "mod":
		return Moderator{}
	case "nsfw":
		return Nsfw{}
	case "ingang":
		return InGang{}
	case "nogang":
		return NoGang{}
	case "gangleader":
		return GangLeader{}
	case "cooldown":
		return Cooldown{}
	}
	if action, ok := legacyFloors[name]; ok {
		return CashFloor{Action: action}
	}
	if action, ok := strings.CutPrefix(name, "cash:"); ok && action != "" {
		return CashFloor{Action: action}
	}
	if level, ok := strings.CutPrefix(name, "rank:"); ok {
		if n, err := strconv.Atoi(level); err == nil && n > 0 {
			return RankRole{Level: n}
		}
	}
	return Unknown{Name: s}
}

// ParseRequirements parses names in order.
func ParseRequirements(names []string) []Requirement {
	reqs := make([]Requirement, 0, len(names))
	for _, n := range names {
		reqs = append(reqs, ParseRequirement(n))
	}
	return reqs
}

// Validate returns an error naming every Unknown requirement in reqs.
func Validate(reqs []Requirement) error {
	var bad []string
	for _, r := range reqs {
		if u, ok := r.(Unknown); ok {
			bad = append(bad, strconv.Quote(u.Name))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unknown requirements: %s", strings.Join(bad, ", "))
	}
	return nil
}
