package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage"
)

const maxPrefixLength = 3

func (g *Game) setModRoleCommand() *command {
	c := &command{
		name:        "setmodrole",
		description: "Grant a role a moderation rank (1 moderator, 2 admin, 3 owner).",
		usage:       "@role <rank>",
		category:    config.CategorySettings,
		aliases:     []string{"addmodrole"},
		reqs:        []precondition.Requirement{precondition.Admin{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 2 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		roleID, ok := parseRole(args[0])
		if !ok {
			return req.reply(ctx, "That is not a role.")
		}
		rank, err := strconv.Atoi(args[1])
		if err != nil || rank < domain.RankModerator || rank > domain.RankOwner {
			return req.reply(ctx, "The rank must be 1, 2 or 3.")
		}
		guild, err := g.store.FetchGuild(ctx, req.GuildID)
		if err != nil {
			return err
		}
		if tier := precondition.MemberTier(req.Member, guild); rank > tier {
			return req.reply(ctx, fmt.Sprintf("You may not grant a rank above your own (%d).", tier))
		}
		if err := g.store.SetModRole(ctx, req.GuildID, roleID, rank); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("%s now carries moderation rank %d.", roleMention(roleID), rank))
	}
	return c
}

func (g *Game) removeModRoleCommand() *command {
	c := &command{
		name:        "removemodrole",
		description: "Take a role's moderation rank away.",
		usage:       "@role",
		category:    config.CategorySettings,
		reqs:        []precondition.Requirement{precondition.Admin{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		roleID, ok := parseRole(firstArg(args))
		if !ok {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		guild, err := g.store.FetchGuild(ctx, req.GuildID)
		if err != nil {
			return err
		}
		if tier := precondition.MemberTier(req.Member, guild); guild.ModRoles[roleID] > tier {
			return req.reply(ctx, fmt.Sprintf("You may not remove a rank above your own (%d).", tier))
		}
		err = g.store.RemoveModRole(ctx, req.GuildID, roleID)
		if errors.Is(err, storage.ErrNotFound) {
			return req.reply(ctx, fmt.Sprintf("%s is not a moderation role.", roleMention(roleID)))
		}
		if err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("%s is no longer a moderation role.", roleMention(roleID)))
	}
	return c
}

func (g *Game) changeNsfwSettingsCommand() *command {
	return &command{
		name:        "changensfwsettings",
		description: "Enable or disable NSFW commands.",
		category:    config.CategorySettings,
		aliases:     []string{"togglensfw"},
		reqs:        []precondition.Requirement{precondition.Admin{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			guild, err := g.store.FetchGuild(ctx, req.GuildID)
			if err != nil {
				return err
			}
			if err := g.store.SetNsfw(ctx, req.GuildID, !guild.Nsfw); err != nil {
				return err
			}
			if guild.Nsfw {
				return req.reply(ctx, "NSFW commands are now disabled.")
			}
			return req.reply(ctx, "NSFW commands are now enabled.")
		},
	}
}

func (g *Game) setNsfwChannelCommand() *command {
	c := &command{
		name:        "setnsfwchannel",
		description: "Confine NSFW commands to one channel. Without a channel the restriction is lifted.",
		usage:       "[#channel]",
		category:    config.CategorySettings,
		reqs:        []precondition.Requirement{precondition.Admin{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) == 0 {
			if err := g.store.SetNsfwChannel(ctx, req.GuildID, ""); err != nil {
				return err
			}
			return req.reply(ctx, "NSFW commands may be used in any channel.")
		}
		channelID, ok := parseChannel(args[0])
		if !ok {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		if err := g.store.SetNsfwChannel(ctx, req.GuildID, channelID); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("NSFW commands are now limited to <#%s>.", channelID))
	}
	return c
}

func (g *Game) setNsfwRoleCommand() *command {
	c := &command{
		name:        "setnsfwrole",
		description: "Require a role for NSFW commands. Without a role the restriction is lifted.",
		usage:       "[@role]",
		category:    config.CategorySettings,
		reqs:        []precondition.Requirement{precondition.Admin{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) == 0 {
			if err := g.store.SetNsfwRole(ctx, req.GuildID, ""); err != nil {
				return err
			}
			return req.reply(ctx, "NSFW commands no longer require a role.")
		}
		roleID, ok := parseRole(args[0])
		if !ok {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		if err := g.store.SetNsfwRole(ctx, req.GuildID, roleID); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("NSFW commands now require %s.", roleMention(roleID)))
	}
	return c
}

func (g *Game) setRankRoleCommand() *command {
	c := &command{
		name:        "setrankrole",
		description: "Bind a cash rank level to a role.",
		usage:       "<level> @role",
		category:    config.CategorySettings,
		reqs:        []precondition.Requirement{precondition.Admin{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		if len(args) < 2 {
			return req.reply(ctx, c.usageText(req.Prefix))
		}
		level, err := strconv.Atoi(args[0])
		if _, known := g.rules.RankCash[level]; err != nil || !known {
			return req.reply(ctx, fmt.Sprintf("Unknown rank level %q.", args[0]))
		}
		roleID, ok := parseRole(args[1])
		if !ok {
			return req.reply(ctx, "That is not a role.")
		}
		if err := g.store.SetRankRole(ctx, req.GuildID, level, roleID); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("Rank %d is now %s (requires %s).",
			level, roleMention(roleID), precondition.FormatCash(g.rules.RankCash[level])))
	}
	return c
}

func (g *Game) setPrefixCommand() *command {
	c := &command{
		name:        "setprefix",
		description: "Change the command prefix of this server.",
		usage:       "<prefix>",
		category:    config.CategorySettings,
		reqs:        []precondition.Requirement{precondition.ServerOwner{}},
	}
	c.run = func(ctx context.Context, req *Request, args []string) error {
		prefix := firstArg(args)
		if prefix == "" || len(prefix) > maxPrefixLength || strings.ContainsAny(prefix, "@#`") {
			return req.reply(ctx, fmt.Sprintf("Prefixes are 1-%d characters and may not contain @, # or backticks.", maxPrefixLength))
		}
		if err := g.store.SetPrefix(ctx, req.GuildID, prefix); err != nil {
			return err
		}
		return req.reply(ctx, fmt.Sprintf("The prefix is now `%s`.", prefix))
	}
	return c
}
