// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/discord"
	"github.com/keshon/dea-bot/internal/storage"
	"github.com/keshon/dea-bot/internal/storage/driver"
	v "github.com/keshon/dea-bot/internal/version"
	"github.com/keshon/dea-bot/pkg/jobmgr"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Fatal(err)
	}

	store, err := driver.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	jobs := jobmgr.NewManager(func(msg string) { log.Println("[INFO] Job", msg) })
	err = jobs.Start(ctx, "cooldown-cleaner", func(ctx context.Context) error {
		storage.RunCooldownCleaner(ctx, store, cfg.CooldownSweep, rules.LongestCooldown())
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	bot := discord.NewBot(cfg, store, rules)
	if err := jobs.Start(ctx, "discord", bot.Run); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
	case err := <-jobs.Errors():
		log.Println("[ERR] Discord bot error:", err)
	}
	cancel()
	jobs.Wait()

	log.Println("[INFO] Discord bot exited cleanly")
}
