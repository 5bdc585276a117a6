package game

import (
	"context"
	"fmt"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/precondition"
)

func (g *Game) cashCommand() *command {
	return &command{
		name:        "cash",
		description: "Show your balance or someone else's.",
		usage:       "[@user]",
		category:    config.CategoryEconomy,
		aliases:     []string{"money", "bal", "balance"},
		run: func(ctx context.Context, req *Request, args []string) error {
			userID := req.Member.UserID
			if len(args) > 0 {
				id, ok := parseUser(args[0])
				if !ok {
					return req.reply(ctx, "That is not a user.")
				}
				userID = id
			}
			actor, err := g.store.FetchActor(ctx, req.GuildID, userID)
			if err != nil {
				return err
			}
			if userID == req.Member.UserID {
				return req.reply(ctx, fmt.Sprintf("Your cash: %s.", precondition.FormatCash(actor.Cash)))
			}
			return req.reply(ctx, fmt.Sprintf("%s's cash: %s.", mention(userID), precondition.FormatCash(actor.Cash)))
		},
	}
}

func (g *Game) whoreCommand() *command {
	return &command{
		name:        "whore",
		description: "Sell yourself on the street for quick cash.",
		category:    config.CategoryEconomy,
		reqs:        []precondition.Requirement{precondition.Cooldown{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			return g.payoutAction(ctx, req, "whore",
				"💋 You worked the corner and made %s.",
				"🚓 Vice squad picked you up. Bail cost you %s.")
		},
	}
}

// crimeCommand builds a floor-gated, cooldown-gated payout command.
func (g *Game) crimeCommand(name, description, success string) *command {
	return &command{
		name:        name,
		description: description,
		category:    config.CategoryCrime,
		reqs:        []precondition.Requirement{precondition.CashFloor{Action: name}, precondition.Cooldown{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			return g.payoutAction(ctx, req, name, success, "🚓 You got caught and paid a fine of %s.")
		},
	}
}

func (g *Game) payoutAction(ctx context.Context, req *Request, action, success, failure string) error {
	ok, err := g.claim(ctx, req, action)
	if err != nil || !ok {
		return err
	}

	won, amount := g.draw(action)
	if won {
		if _, err := g.store.AddCash(ctx, req.GuildID, req.Member.UserID, amount); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf(success, precondition.FormatCash(amount)))
	}

	taken, err := g.fine(ctx, req, amount)
	if err != nil {
		return err
	}
	return req.reply(ctx, fmt.Sprintf(failure, precondition.FormatCash(taken)))
}
