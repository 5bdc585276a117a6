package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/pkg/cmd"
	"github.com/keshon/dea-bot/pkg/retrylimit"
)

const msgInternalError = "Something went wrong while checking this command. Please try again later."

func requestOf(inv *cmd.Invocation) (*Request, bool) {
	req, ok := inv.Data.(*Request)
	return req, ok && req != nil
}

// WithGuildOnly refuses invocations from outside a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			req, ok := requestOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			if req.GuildID == "" {
				return req.reply(ctx, "You must be in a guild to use this command.")
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithRateLimit throttles each member per guild. Throttled invocations are
// dropped without a reply.
func WithRateLimit(lim *retrylimit.Keyed, now func() time.Time) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			req, ok := requestOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			if !lim.Allow(req.GuildID+":"+req.Member.UserID, now()) {
				log.Printf("[INFO] Throttled %s from %s in %s", c.Name(), req.Member.UserID, req.GuildID)
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithPreconditions evaluates the command's requirements, or the override
// configured in rules, before running it. Denials are answered with the
// engine's message; silent denials are not answered at all.
func WithPreconditions(engine *precondition.Engine, rules config.Rules) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		var reqs []precondition.Requirement
		if gc, ok := cmd.As[Command](c); ok {
			reqs = gc.Requirements()
		}
		if override, ok := rules.Requirements(c.Name()); ok {
			reqs = override
		}

		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			req, ok := requestOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			req.Command = c.Name()
			req.Requirements = reqs

			res, err := engine.Check(ctx, req.Invocation)
			if err != nil {
				if rerr := req.reply(ctx, msgInternalError); rerr != nil {
					err = errors.Join(err, rerr)
				}
				return err
			}
			if res.Allowed {
				return c.Run(ctx, inv)
			}
			if res.Fault {
				log.Printf("[ERR] %s: %s", c.Name(), res.Message)
			}
			if res.Silent() {
				return nil
			}
			return req.reply(ctx, res.Message)
		})
	}
}

// WithCommandLogger records every invocation in the guild's command history
// and logs failures.
func WithCommandLogger(store Store, now func() time.Time) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)
			if err != nil {
				log.Printf("[ERR] Command %s failed: %v", c.Name(), err)
			}

			req, ok := requestOf(inv)
			if !ok || req.GuildID == "" {
				return err
			}
			entry := domain.CommandHistory{
				ChannelID: req.ChannelID,
				UserID:    req.Member.UserID,
				Username:  req.Member.Username,
				Command:   c.Name(),
				Datetime:  now(),
			}
			if lerr := store.AppendCommandHistory(ctx, req.GuildID, entry); lerr != nil {
				log.Printf("[WARN] Failed to log command %s: %v", c.Name(), lerr)
			}
			return err
		})
	}
}
