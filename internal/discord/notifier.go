package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dea-bot/internal/precondition"
)

// cooldownNotifier renders cooldown denials as an embed instead of plain
// text.
type cooldownNotifier struct {
	s *discordgo.Session
}

func (n *cooldownNotifier) NotifyCooldown(ctx context.Context, inv precondition.Invocation, block precondition.CooldownBlock) error {
	embed := cooldownEmbed(block)
	return send(ctx, func() error {
		_, err := n.s.ChannelMessageSendEmbed(inv.ChannelID, embed, discordgo.WithContext(ctx))
		return err
	})
}

func cooldownEmbed(block precondition.CooldownBlock) *discordgo.MessageEmbed {
	hours, minutes, seconds := precondition.SplitDuration(block.Remaining)
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("`%s` cooldown for `%s`", block.Action, block.Subject),
		Color: EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Hours", Value: fmt.Sprint(hours), Inline: true},
			{Name: "Minutes", Value: fmt.Sprint(minutes), Inline: true},
			{Name: "Seconds", Value: fmt.Sprint(seconds), Inline: true},
		},
	}
}
