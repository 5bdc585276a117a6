package precondition

import "time"

// Result is the outcome of an evaluation.
//
// A denial with an empty Message means a notice was already delivered
// through another channel and the caller should not display anything.
type Result struct {
	Allowed bool
	Message string

	// Cooldown is set when the denial came from an active cooldown.
	Cooldown *CooldownBlock
	// Fault marks a denial caused by a requirement the engine cannot handle.
	Fault bool
}

// CooldownBlock describes an active cooldown.
type CooldownBlock struct {
	Action    string
	Subject   string // user or gang name the cooldown belongs to
	Remaining time.Duration
}

// Permit returns an allowing result.
func Permit() Result {
	return Result{Allowed: true}
}

// Deny returns a denial carrying msg for display.
func Deny(msg string) Result {
	return Result{Message: msg}
}

// Silent reports whether the result is a denial that must not be displayed.
func (r Result) Silent() bool {
	return !r.Allowed && r.Message == ""
}
