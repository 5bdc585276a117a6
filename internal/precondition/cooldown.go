package precondition

import (
	"fmt"
	"strings"
	"time"
)

// Scope selects whose timestamp a cooldown reads.
type Scope int

const (
	ScopeActor Scope = iota
	ScopeGang
)

func (s Scope) String() string {
	if s == ScopeGang {
		return "gang"
	}
	return "actor"
}

// ParseScope accepts "actor", "user" or "gang".
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "actor", "user":
		return ScopeActor, nil
	case "gang":
		return ScopeGang, nil
	}
	return ScopeActor, fmt.Errorf("unknown cooldown scope %q", s)
}

// CooldownRule is the configured cooldown of one action.
type CooldownRule struct {
	Duration time.Duration
	Scope    Scope
}

// CooldownTable maps an action to its cooldown.
type CooldownTable map[string]CooldownRule

// CooldownStatus is the outcome of CheckCooldown.
type CooldownStatus struct {
	Ready     bool
	Remaining time.Duration
}

// CheckCooldown reports whether action may run at now given its last use.
// A zero lastUse means never used. Actions missing from the table are always
// ready.
func CheckCooldown(action string, lastUse, now time.Time, table CooldownTable) CooldownStatus {
	rule, ok := table[action]
	if !ok || lastUse.IsZero() {
		return CooldownStatus{Ready: true}
	}
	elapsed := now.Sub(lastUse)
	if elapsed >= rule.Duration {
		return CooldownStatus{Ready: true}
	}
	return CooldownStatus{Remaining: rule.Duration - elapsed}
}
