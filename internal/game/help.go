package game

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/pkg/cmd"
)

func (g *Game) helpCommand() *command {
	return &command{
		name:        "help",
		description: "List commands, or show the details of one.",
		usage:       "[command]",
		category:    config.CategoryEconomy,
		aliases:     []string{"commands", "h"},
		run: func(ctx context.Context, req *Request, args []string) error {
			if len(args) > 0 {
				return g.helpFor(ctx, req, args[0])
			}
			return req.replyTitled(ctx, "Commands", g.helpIndex(req.Prefix))
		},
	}
}

// helpIndex groups commands by category in CategoryWeights order.
func (g *Game) helpIndex(prefix string) string {
	byCategory := map[string][]string{}
	for _, c := range g.commands {
		byCategory[c.category] = append(byCategory[c.category], prefix+c.name)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	slices.SortFunc(categories, func(a, b string) int {
		return cmp.Or(cmp.Compare(config.CategoryWeights[a], config.CategoryWeights[b]), strings.Compare(a, b))
	})

	var sb strings.Builder
	for _, category := range categories {
		names := byCategory[category]
		slices.Sort(names)
		fmt.Fprintf(&sb, "**%s**\n%s\n\n", category, strings.Join(names, ", "))
	}
	fmt.Fprintf(&sb, "Use `%shelp <command>` for details.", prefix)
	return sb.String()
}

func (g *Game) helpFor(ctx context.Context, req *Request, name string) error {
	c := g.lookup(name)
	if c == nil {
		return req.reply(ctx, fmt.Sprintf("Unknown command %q.", name))
	}

	text := fmt.Sprintf("%s\n%s\nRequirements: %s", c.Description(), c.usageText(req.Prefix), RequirementNames(g.Requirements(c)))
	if aliases := c.Aliases(); len(aliases) > 0 {
		text += "\nAliases: " + strings.Join(aliases, ", ")
	}
	return req.replyTitled(ctx, c.Name(), text)
}

// Lookup finds a command by name or alias.
func (g *Game) Lookup(name string) (Command, bool) {
	if c := g.lookup(name); c != nil {
		return c, true
	}
	return nil, false
}

// Requirements returns what c demands under the configured rules.
func (g *Game) Requirements(c Command) []precondition.Requirement {
	if override, ok := g.rules.Requirements(c.Name()); ok {
		return override
	}
	return c.Requirements()
}

// lookup resolves name through the registry when the game is registered,
// falling back to the command list.
func (g *Game) lookup(name string) *command {
	if g.registry != nil {
		if found := g.registry.Get(name); found != nil {
			if c, ok := cmd.Root(found).(*command); ok {
				return c
			}
		}
		return nil
	}
	for _, c := range g.commands {
		if strings.EqualFold(c.name, name) || slices.Contains(c.aliases, strings.ToLower(name)) {
			return c
		}
	}
	return nil
}
