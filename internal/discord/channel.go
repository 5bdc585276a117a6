package discord

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dea-bot/internal/game"
	"github.com/keshon/dea-bot/pkg/retrylimit"
)

const EmbedColor = 0xb01e66

// channel answers in the channel a command came from.
type channel struct {
	s         *discordgo.Session
	channelID string
}

func (c *channel) Reply(ctx context.Context, r game.Reply) error {
	embed := &discordgo.MessageEmbed{
		Title:       r.Title,
		Description: r.Text,
		Color:       EmbedColor,
	}
	return send(ctx, func() error {
		_, err := c.s.ChannelMessageSendEmbed(c.channelID, embed, discordgo.WithContext(ctx))
		return err
	})
}

func (c *channel) SetNickname(ctx context.Context, guildID, userID, nickname string) error {
	return send(ctx, func() error {
		return c.s.GuildMemberNickname(guildID, userID, nickname, discordgo.WithContext(ctx))
	})
}

// send retries fn on rate limits and server errors.
func send(ctx context.Context, fn func() error) error {
	return retrylimit.Do(ctx, retrylimit.DefaultConfig(), func() error {
		return wrapREST(fn())
	})
}

// restError exposes the status and retry hint of a Discord API error to
// retrylimit.
type restError struct {
	*discordgo.RESTError
}

func (e restError) Unwrap() error { return e.RESTError }

func (e restError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func (e restError) RetryAfter() time.Duration {
	if e.Response == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(e.Response.Header.Get("Retry-After"), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

func wrapREST(err error) error {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	if rest.Response == nil {
		return err
	}
	if rest.Response.StatusCode == http.StatusNotFound || rest.Response.StatusCode == http.StatusForbidden {
		return retrylimit.Permanent(restError{rest})
	}
	return restError{rest}
}
