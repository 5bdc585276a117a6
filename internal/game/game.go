// Package game implements the bot's commands: the cash economy, crimes,
// gambling, gangs and guild settings. Commands are transport-agnostic; an
// adapter hands them a *Request and a Channel to answer on.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/storage"
	"github.com/keshon/dea-bot/pkg/cmd"
)

type Game struct {
	store    Store
	rules    config.Rules
	now      func() time.Time
	roll     func(n int) int
	commands []*command
	registry *cmd.Registry
}

type Option func(*Game)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithRoll replaces the random source. roll(n) must return a value in
// [0, n).
func WithRoll(roll func(n int) int) Option {
	return func(g *Game) { g.roll = roll }
}

func New(store Store, rules config.Rules, opts ...Option) *Game {
	g := &Game{
		store: store,
		rules: rules,
		now:   time.Now,
		roll:  rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.commands = g.build()
	return g
}

func (g *Game) build() []*command {
	return []*command{
		g.cashCommand(),
		g.whoreCommand(),
		g.crimeCommand("jump", "Jump someone in an alley for some cash.", "🔫 You jumped someone and walked off with %s."),
		g.crimeCommand("steal", "Rob a corner store.", "🏪 You cleaned out the register: %s."),
		g.robCommand(),
		g.bullyCommand(),
		g.fiftyCommand(),
		g.createGangCommand(),
		g.joinGangCommand(),
		g.leaveGangCommand(),
		g.disbandCommand(),
		g.gangCommand(),
		g.depositCommand(),
		g.withdrawCommand(),
		g.raidCommand(),
		g.nsfwCommand(),
		g.rank2Command(),
		g.setModRoleCommand(),
		g.removeModRoleCommand(),
		g.changeNsfwSettingsCommand(),
		g.setNsfwChannelCommand(),
		g.setNsfwRoleCommand(),
		g.setRankRoleCommand(),
		g.setPrefixCommand(),
		g.historyCommand(),
		g.giveCommand(),
		g.resetCommand(),
		g.helpCommand(),
	}
}

// Commands returns the game's commands, unwrapped.
func (g *Game) Commands() []Command {
	out := make([]Command, len(g.commands))
	for i, c := range g.commands {
		out[i] = c
	}
	return out
}

// Register adds every command to reg wrapped in mws.
func (g *Game) Register(reg *cmd.Registry, mws ...cmd.Middleware) error {
	g.registry = reg
	for _, c := range g.commands {
		if err := reg.Register(cmd.Apply(c, mws...), c.aliases...); err != nil {
			return err
		}
	}
	return nil
}

// draw rolls the outcome of a payout action.
func (g *Game) draw(action string) (success bool, amount int64) {
	p := g.rules.Payouts[action]
	success = g.roll(100) < p.Odds
	amount = p.Min
	if spread := p.Max - p.Min; spread > 0 {
		amount += int64(g.roll(int(spread + 1)))
	}
	return success, amount
}

// claim stamps action's cooldown for the invoking member. It answers the
// member and reports false when a concurrent invocation claimed it first.
func (g *Game) claim(ctx context.Context, req *Request, action string) (bool, error) {
	spec := g.rules.Cooldowns[action]
	ok, err := g.store.ClaimCooldown(ctx, req.GuildID, req.Member.UserID, action, g.now(), spec.Duration)
	if err != nil {
		return false, fmt.Errorf("claim %s cooldown: %w", action, err)
	}
	if !ok {
		return false, req.reply(ctx, "Not so fast, that was just used. Try again later.")
	}
	return true, nil
}

// fine takes up to amount from the member and returns what was taken.
func (g *Game) fine(ctx context.Context, req *Request, amount int64) (int64, error) {
	actor, err := g.store.FetchActor(ctx, req.GuildID, req.Member.UserID)
	if err != nil {
		return 0, err
	}
	taken := min(amount, max(actor.Cash, 0))
	if taken == 0 {
		return 0, nil
	}
	if _, err := g.store.AddCash(ctx, req.GuildID, req.Member.UserID, -taken); err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return 0, nil
		}
		return 0, err
	}
	return taken, nil
}
