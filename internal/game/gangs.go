package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage"
)

const maxGangNameLength = 24

func validGangName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > maxGangNameLength {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}

// gangOf loads the invoking member's gang.
func (g *Game) gangOf(ctx context.Context, req *Request) (domain.GangState, error) {
	actor, err := g.store.FetchActor(ctx, req.GuildID, req.Member.UserID)
	if err != nil {
		return domain.GangState{}, err
	}
	if !actor.InGang() {
		return domain.GangState{}, storage.ErrNotInGang
	}
	return g.store.FetchGang(ctx, req.GuildID, actor.GangID)
}

// gangError answers the member for the storage errors a gang operation can
// expect and passes anything else through.
func gangError(ctx context.Context, req *Request, err error) error {
	switch {
	case errors.Is(err, storage.ErrInGang):
		return req.reply(ctx, "You are already in a gang.")
	case errors.Is(err, storage.ErrNotInGang):
		return req.reply(ctx, "You are not in a gang.")
	case errors.Is(err, storage.ErrNameTaken):
		return req.reply(ctx, "There is already a gang with that name.")
	case errors.Is(err, storage.ErrGangFull):
		return req.reply(ctx, "That gang is full.")
	case errors.Is(err, storage.ErrInsufficientFunds):
		return req.reply(ctx, "There is not enough money for that.")
	case errors.Is(err, storage.ErrNotFound):
		return req.reply(ctx, "That gang does not exist.")
	}
	return err
}

func (g *Game) createGangCommand() *command {
	c := &command{
		name:        "creategang",
		description: "Found a gang and become its leader.",
		usage:       "<name>",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.NoGang{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		name := strings.Join(args, " ")
		if !validGangName(name) {
			return req.reply(ctx, fmt.Sprintf("Gang names are 1-%d letters, digits or spaces.\n%s", maxGangNameLength, c.usageText(req.Prefix)))
		}
		gang, err := g.store.CreateGang(ctx, req.GuildID, req.Member.UserID, name)
		if err != nil {
			return gangError(ctx, req, err)
		}
		return req.reply(ctx, fmt.Sprintf("🏴 You founded **%s**.", gang.Name))
	}
	return c
}

func (g *Game) joinGangCommand() *command {
	c := &command{
		name:        "joingang",
		description: "Join an existing gang.",
		usage:       "<name>",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.NoGang{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) == 0 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		gang, err := g.store.JoinGang(ctx, req.GuildID, req.Member.UserID, strings.Join(args, " "), g.rules.GangSize)
		if err != nil {
			return gangError(ctx, req, err)
		}
		return req.reply(ctx, fmt.Sprintf("🏴 You joined **%s**.", gang.Name))
	}
	return c
}

func (g *Game) leaveGangCommand() *command {
	return &command{
		name:        "leavegang",
		description: "Leave your gang. A leaving leader disbands it.",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.InGang{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			disbanded, err := g.store.LeaveGang(ctx, req.GuildID, req.Member.UserID)
			if err != nil {
				return gangError(ctx, req, err)
			}
			if disbanded {
				return req.reply(ctx, "You left and your gang was disbanded.")
			}
			return req.reply(ctx, "You left your gang.")
		},
	}
}

func (g *Game) disbandCommand() *command {
	return &command{
		name:        "disband",
		description: "Disband the gang you lead.",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.InGang{}, precondition.GangLeader{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			if _, err := g.store.LeaveGang(ctx, req.GuildID, req.Member.UserID); err != nil {
				return gangError(ctx, req, err)
			}
			return req.reply(ctx, "Your gang was disbanded.")
		},
	}
}

func (g *Game) gangCommand() *command {
	return &command{
		name:        "gang",
		description: "Show your gang or look one up by name.",
		usage:       "[name]",
		category:    config.CategoryGangs,
		run: func(ctx context.Context, req *Request, args []string) error {
			var (
				gang domain.GangState
				err  error
			)
			if len(args) > 0 {
				gang, err = g.store.FindGang(ctx, req.GuildID, strings.Join(args, " "))
			} else {
				gang, err = g.gangOf(ctx, req)
			}
			if err != nil {
				return gangError(ctx, req, err)
			}

			members := make([]string, 0, len(gang.Members))
			for _, id := range gang.Members {
				members = append(members, mention(id))
			}
			text := fmt.Sprintf("Leader: %s\nMembers (%d): %s\nWealth: %s",
				mention(gang.LeaderID), len(gang.Members), strings.Join(members, ", "), precondition.FormatCash(gang.Wealth))
			return req.replyTitled(ctx, gang.Name, text)
		},
	}
}

func (g *Game) depositCommand() *command {
	c := &command{
		name:        "deposit",
		description: "Move cash into your gang's wealth.",
		usage:       "<amount>",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.InGang{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		amount, err := parseAmount(firstArg(args))
		if err != nil {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		gang, err := g.store.Deposit(ctx, req.GuildID, req.Member.UserID, amount)
		if err != nil {
			return gangError(ctx, req, err)
		}
		return req.reply(ctx, fmt.Sprintf("You deposited %s. **%s** now holds %s.",
			precondition.FormatCash(amount), gang.Name, precondition.FormatCash(gang.Wealth)))
	}
	return c
}

func (g *Game) withdrawCommand() *command {
	c := &command{
		name:        "withdraw",
		description: "Take cash out of your gang's wealth.",
		usage:       "<amount>",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.InGang{}, precondition.Cooldown{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		amount, err := parseAmount(firstArg(args))
		if err != nil {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		gang, err := g.gangOf(ctx, req)
		if err != nil {
			return gangError(ctx, req, err)
		}
		if amount > gang.Wealth {
			return req.reply(ctx, fmt.Sprintf("**%s** only holds %s.", gang.Name, precondition.FormatCash(gang.Wealth)))
		}

		if ok, err := g.claim(ctx, req, "withdraw"); err != nil || !ok {
			return err
		}
		gang, err = g.store.Withdraw(ctx, req.GuildID, req.Member.UserID, amount, g.now())
		if err != nil {
			return gangError(ctx, req, err)
		}
		return req.reply(ctx, fmt.Sprintf("You withdrew %s. **%s** now holds %s.",
			precondition.FormatCash(amount), gang.Name, precondition.FormatCash(gang.Wealth)))
	}
	return c
}

func (g *Game) raidCommand() *command {
	c := &command{
		name:        "raid",
		description: "Stake gang wealth on a raid. The whole gang shares the cooldown.",
		usage:       "<amount>",
		category:    config.CategoryGangs,
		reqs:        []precondition.Requirement{precondition.InGang{}, precondition.Cooldown{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		amount, err := parseAmount(firstArg(args))
		if err != nil {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		gang, err := g.gangOf(ctx, req)
		if err != nil {
			return gangError(ctx, req, err)
		}
		if amount > gang.Wealth {
			return req.reply(ctx, fmt.Sprintf("**%s** only holds %s.", gang.Name, precondition.FormatCash(gang.Wealth)))
		}

		ok, err := g.store.ClaimRaid(ctx, req.GuildID, gang.ID, g.now(), g.rules.Cooldowns["raid"].Duration)
		if err != nil {
			return gangError(ctx, req, err)
		}
		if !ok {
			return req.reply(ctx, "Your gang is already out on a raid.")
		}

		won, _ := g.draw("raid")
		delta := -amount
		if won {
			delta = amount
		}
		wealth, err := g.store.AddGangWealth(ctx, req.GuildID, gang.ID, delta)
		if err != nil {
			return err
		}
		if won {
			return req.reply(ctx, fmt.Sprintf("⚔️ The raid paid off: +%s. **%s** now holds %s.",
				precondition.FormatCash(amount), gang.Name, precondition.FormatCash(wealth)))
		}
		return req.reply(ctx, fmt.Sprintf("⚔️ The raid went south: -%s. **%s** now holds %s.",
			precondition.FormatCash(amount), gang.Name, precondition.FormatCash(wealth)))
	}
	return c
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
