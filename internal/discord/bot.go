// Package discord connects the game to a Discord gateway session. It turns
// prefixed guild messages into game requests and sends the replies back.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/game"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/pkg/cmd"
	"github.com/keshon/dea-bot/pkg/retrylimit"
)

const limiterIdle = 10 * time.Minute

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    game.Store
	rules    config.Rules
	registry *cmd.Registry
	limiter  *retrylimit.Keyed
}

func NewBot(cfg *config.Config, store game.Store, rules config.Rules) *Bot {
	return &Bot{
		cfg:     cfg,
		store:   store,
		rules:   rules,
		limiter: retrylimit.NewKeyed(cfg.CommandRate, cfg.CommandBurst),
	}
}

// Run opens the session, serves commands until ctx is done and closes the
// session.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.configureIntents()

	engine := precondition.NewEngine(b.store, b.rules.Precondition(b.cfg.OwnerIDs...),
		precondition.WithCooldownNotifier(&cooldownNotifier{s: dg}))
	b.registry = cmd.NewRegistry()
	err = game.New(b.store, b.rules).Register(b.registry,
		game.WithPreconditions(engine, b.rules),
		game.WithRateLimit(b.limiter, time.Now),
		game.WithGuildOnly(),
		game.WithCommandLogger(b.store, time.Now),
	)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
			return nil
		case now := <-ticker.C:
			if n := b.limiter.Prune(limiterIdle, now); n > 0 {
				log.Printf("[INFO] Pruned %d idle rate limit buckets", n)
			}
		}
	}
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] ✅ Discord bot %v is running in %d guilds.", r.User.Username, len(r.Guilds))
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	guild, err := b.store.FetchGuild(ctx, m.GuildID)
	if err != nil {
		log.Printf("[ERR] Failed to load guild %s: %v", m.GuildID, err)
		return
	}
	name, args, ok := parseCommand(m.Content, guild.Prefix, s.State.User.ID)
	if !ok {
		return
	}
	c := b.registry.Get(name)
	if c == nil {
		return
	}

	member, err := memberOf(s, m.GuildID, m.Author, m.Member)
	if err != nil {
		log.Printf("[WARN] Failed to resolve member %s in %s: %v", m.Author.ID, m.GuildID, err)
		return
	}
	req := &game.Request{
		Invocation: precondition.Invocation{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			Member:    member,
		},
		Prefix: guild.Prefix,
		Out:    &channel{s: s, channelID: m.ChannelID},
	}
	// Errors are logged by the command logger middleware.
	_ = c.Run(ctx, &cmd.Invocation{Name: name, Args: args, Data: req})
}

// parseCommand splits content into a command name and its arguments when
// it starts with prefix directly followed by a name, or with a mention of
// the bot.
func parseCommand(content, prefix, botID string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	switch {
	case prefix != "" && strings.HasPrefix(content, prefix):
		content = content[len(prefix):]
		if content == "" || unicode.IsSpace(rune(content[0])) {
			return "", nil, false
		}
	case botID != "" && strings.HasPrefix(content, "<@"+botID+">"):
		content = content[len("<@"+botID+">"):]
	case botID != "" && strings.HasPrefix(content, "<@!"+botID+">"):
		content = content[len("<@!"+botID+">"):]
	default:
		return "", nil, false
	}

	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
