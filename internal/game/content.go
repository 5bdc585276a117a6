package game

import (
	"context"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/precondition"
)

var nsfwLines = []string{
	"🔞 Welcome to the back room. Keep it classy.",
	"🔞 What happens in the back room stays in the back room.",
	"🔞 The velvet rope lifts. Mind your manners.",
}

func (g *Game) nsfwCommand() *command {
	return &command{
		name:        "nsfw",
		description: "Restricted content, subject to the server's NSFW settings.",
		category:    config.CategoryContent,
		reqs:        []precondition.Requirement{precondition.Nsfw{}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			return req.reply(ctx, nsfwLines[g.roll(len(nsfwLines))])
		},
	}
}

func (g *Game) rank2Command() *command {
	return &command{
		name:        "rank2",
		description: "Enter the rank 2 lounge.",
		category:    config.CategoryContent,
		aliases:     []string{"lounge"},
		reqs:        []precondition.Requirement{precondition.RankRole{Level: 2}},
		run: func(ctx context.Context, req *Request, _ []string) error {
			return req.reply(ctx, "🥂 Welcome to the lounge. Drinks are on the house.")
		},
	}
}
