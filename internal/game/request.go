package game

import (
	"context"

	"github.com/keshon/dea-bot/internal/precondition"
)

// Reply is a message sent back to the invoking channel.
type Reply struct {
	Title string
	Text  string
}

// Channel is where a command talks back. The Discord adapter implements it
// over a session; tests record into a slice.
type Channel interface {
	Reply(ctx context.Context, r Reply) error
	SetNickname(ctx context.Context, guildID, userID, nickname string) error
}

// Request is the payload adapters put in cmd.Invocation.Data. Command and
// Requirements of the embedded invocation are filled in by
// WithPreconditions.
type Request struct {
	precondition.Invocation
	Prefix string
	Out    Channel
}

func (r *Request) reply(ctx context.Context, text string) error {
	return r.Out.Reply(ctx, Reply{Text: text})
}

func (r *Request) replyTitled(ctx context.Context, title, text string) error {
	return r.Out.Reply(ctx, Reply{Title: title, Text: text})
}
