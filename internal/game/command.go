package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/pkg/cmd"
)

// Command is a game command as the adapters and middlewares see it.
type Command interface {
	cmd.Command
	Aliases() []string
	Category() string
	Usage() string
	Requirements() []precondition.Requirement
}

type command struct {
	name        string
	description string
	usage       string
	category    string
	aliases     []string
	reqs        []precondition.Requirement
	run         func(ctx context.Context, req *Request, args []string) error
}

func (c *command) Name() string        { return c.name }
func (c *command) Description() string { return c.description }
func (c *command) Category() string    { return c.category }
func (c *command) Aliases() []string   { return c.aliases }

func (c *command) Usage() string {
	if c.usage == "" {
		return c.name
	}
	return c.name + " " + c.usage
}

func (c *command) Requirements() []precondition.Requirement {
	return append([]precondition.Requirement(nil), c.reqs...)
}

func (c *command) Run(ctx context.Context, inv *cmd.Invocation) error {
	req, ok := inv.Data.(*Request)
	if !ok {
		return fmt.Errorf("%s: unexpected invocation payload %T", c.name, inv.Data)
	}
	return c.run(ctx, req, inv.Args)
}

// usageText renders the correct invocation of c under prefix.
func (c *command) usageText(prefix string) string {
	return fmt.Sprintf("Usage: `%s%s`", prefix, c.Usage())
}

// RequirementNames lists reqs for display.
func RequirementNames(reqs []precondition.Requirement) string {
	if len(reqs) == 0 {
		return "none"
	}
	names := make([]string, len(reqs))
	for i, r := range reqs {
		names[i] = r.String()
	}
	return strings.Join(names, ", ")
}
