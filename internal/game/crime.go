package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage"
)

const maxNicknameLength = 32

func (g *Game) robCommand() *command {
	c := &command{
		name:        "rob",
		description: "Rob another user. Fail and you pay them instead.",
		usage:       "@user <amount>",
		category:    config.CategoryCrime,
		reqs:        []precondition.Requirement{precondition.CashFloor{Action: "rob"}, precondition.Cooldown{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 2 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		victimID, ok := parseUser(args[0])
		if !ok {
			return req.reply(ctx, "That is not a user.")
		}
		if victimID == req.Member.UserID {
			return req.reply(ctx, "You cannot rob yourself.")
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return req.reply(ctx, err.Error())
		}

		robber, err := g.store.FetchActor(ctx, req.GuildID, req.Member.UserID)
		if err != nil {
			return err
		}
		victim, err := g.store.FetchActor(ctx, req.GuildID, victimID)
		if err != nil {
			return err
		}
		if amount > robber.Cash {
			return req.reply(ctx, "You cannot stake more than you have.")
		}
		if amount > victim.Cash {
			return req.reply(ctx, fmt.Sprintf("%s does not have %s.", mention(victimID), precondition.FormatCash(amount)))
		}

		if ok, err := g.claim(ctx, req, "rob"); err != nil || !ok {
			return err
		}

		if won, _ := g.draw("rob"); won {
			moved, err := g.store.Transfer(ctx, req.GuildID, victimID, req.Member.UserID, amount)
			if err != nil {
				return err
			}
			return req.reply(ctx, fmt.Sprintf("💰 You robbed %s of %s.", mention(victimID), precondition.FormatCash(moved)))
		}
		moved, err := g.store.Transfer(ctx, req.GuildID, req.Member.UserID, victimID, amount)
		if err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("🚓 %s fought back. You paid them %s.", mention(victimID), precondition.FormatCash(moved)))
	}
	return c
}

func (g *Game) bullyCommand() *command {
	c := &command{
		name:        "bully",
		description: "Change another user's nickname.",
		usage:       "@user <nickname>",
		category:    config.CategoryCrime,
		reqs:        []precondition.Requirement{precondition.CashFloor{Action: "bully"}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 2 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		victimID, ok := parseUser(args[0])
		if !ok {
			return req.reply(ctx, "That is not a user.")
		}
		nickname := strings.Join(args[1:], " ")
		if utf8.RuneCountInString(nickname) > maxNicknameLength {
			return req.reply(ctx, fmt.Sprintf("Nicknames are limited to %d characters.", maxNicknameLength))
		}
		if err := req.Out.SetNickname(ctx, req.GuildID, victimID, nickname); err != nil {
			return fmt.Errorf("set nickname: %w", err)
		}
		return req.reply(ctx, fmt.Sprintf("😈 %s is now known as **%s**.", mention(victimID), nickname))
	}
	return c
}

func (g *Game) fiftyCommand() *command {
	c := &command{
		name:        "50x2",
		description: "Roll 1-100. Win and double your bet.",
		usage:       "<bet>",
		category:    config.CategoryGambling,
		aliases:     []string{"fiftyx2"},
		reqs:        []precondition.Requirement{precondition.CashFloor{Action: "50x2"}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 1 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		bet, err := parseAmount(args[0])
		if err != nil {
			return req.reply(ctx, err.Error())
		}
		if floor := g.rules.Thresholds["50x2"]; bet < floor {
			return req.reply(ctx, fmt.Sprintf("The minimum bet is %s.", precondition.FormatCash(floor)))
		}

		actor, err := g.store.FetchActor(ctx, req.GuildID, req.Member.UserID)
		if err != nil {
			return err
		}
		if bet > actor.Cash {
			return req.reply(ctx, "You do not have enough money to cover that bet.")
		}

		rolled := g.roll(100) + 1
		delta := -bet
		if rolled > 100-g.rules.Payouts["50x2"].Odds {
			delta = bet
		}
		balance, err := g.store.AddCash(ctx, req.GuildID, req.Member.UserID, delta)
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return req.reply(ctx, "You do not have enough money to cover that bet.")
		}
		if err != nil {
			return err
		}
		if delta > 0 {
			return req.reply(ctx, fmt.Sprintf("🎲 You rolled %d and won %s. Balance: %s.", rolled, precondition.FormatCash(bet), precondition.FormatCash(balance)))
		}
		return req.reply(ctx, fmt.Sprintf("🎲 You rolled %d and lost %s. Balance: %s.", rolled, precondition.FormatCash(bet), precondition.FormatCash(balance)))
	}
	return c
}
