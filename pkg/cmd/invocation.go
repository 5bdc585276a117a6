// Package cmd is the transport-agnostic command core. A command has a name,
// a description and Run; adapters (Discord, CLI) decide how it is reached.
package cmd

import "context"

// Invocation is what an adapter hands a command: the name it was invoked
// by, the remaining arguments and an adapter-specific payload.
type Invocation struct {
	Name string
	Args []string
	Data any
}

// Arg returns the i-th argument or "".
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Command is the contract every command implements.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
