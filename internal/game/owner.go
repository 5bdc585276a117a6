package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/precondition"
)

func (g *Game) giveCommand() *command {
	c := &command{
		name:        "give",
		description: "Create cash out of thin air.",
		usage:       "@user <amount>",
		category:    config.CategoryOwner,
		reqs:        []precondition.Requirement{precondition.BotOwner{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 2 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		userID, ok := parseUser(args[0])
		if !ok {
			return req.reply(ctx, "That is not a user.")
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return req.reply(ctx, err.Error())
		}
		balance, err := g.store.AddCash(ctx, req.GuildID, userID, amount)
		if err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("Gave %s to %s. New balance: %s.",
			precondition.FormatCash(amount), mention(userID), precondition.FormatCash(balance)))
	}
	return c
}

func (g *Game) resetCommand() *command {
	c := &command{
		name:        "reset",
		description: "Wipe a user's cash and cooldowns.",
		usage:       "@user",
		category:    config.CategoryOwner,
		reqs:        []precondition.Requirement{precondition.BotOwner{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		userID, ok := parseUser(firstArg(args))
		if !ok {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		if err := g.store.ResetUser(ctx, req.GuildID, userID); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("%s has been reset.", mention(userID)))
	}
	return c
}

func (g *Game) historyCommand() *command {
	return &command{
		name:        "history",
		description: "Show the most recent commands used on this server.",
		category:    config.CategorySettings,
		aliases:     []string{"log"},
		reqs:        []precondition.Requirement{precondition.Moderator{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			history, err := g.store.FetchCommandHistory(ctx, req.GuildID)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				return req.reply(ctx, "No commands have been logged yet.")
			}
			var b strings.Builder
			for _, h := range history {
				fmt.Fprintf(&b, "`%s` %s%s by %s in <#%s>\n",
					h.Datetime.UTC().Format("2006-01-02 15:04"), req.Prefix, h.Command, h.Username, h.ChannelID)
			}
			return req.replyTitled(ctx, "Command history", strings.TrimSuffix(b.String(), "\n"))
		},
	}
}
