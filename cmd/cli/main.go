// cmd/cli/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/keshon/dea-bot/internal/config"
	"github.com/keshon/dea-bot/internal/game"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage/driver"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "commands":
		commandsCmd(os.Args[2:])
	case "rules":
		rulesCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <check|commands|rules> [flags]")
}

func loadRules(path string) config.Rules {
	rules, err := config.LoadRules(path)
	if err != nil {
		fail(err)
	}
	return rules
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// checkCmd evaluates a command's preconditions for a member against the
// configured store without running it.
func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	guildID := fs.String("guild", "", "guild id")
	userID := fs.String("user", "", "user id")
	username := fs.String("name", "", "username shown in cooldown messages (defaults to the id)")
	channelID := fs.String("channel", "", "channel the command is sent in")
	command := fs.String("command", "", "command name or alias")
	roles := fs.String("roles", "", "comma separated role ids held by the member")
	guildOwner := fs.Bool("owner", false, "member owns the guild")
	admin := fs.Bool("admin", false, "member holds the administrator permission")
	_ = fs.Parse(args)

	if *guildID == "" || *userID == "" || *command == "" {
		fmt.Fprintln(os.Stderr, "missing -guild, -user or -command")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	rules := loadRules(cfg.RulesPath)
	store, err := driver.Open(context.Background(), cfg)
	if err != nil {
		fail(err)
	}
	defer store.Close()

	g := game.New(store, rules)
	c, ok := g.Lookup(*command)
	if !ok {
		fail(fmt.Errorf("unknown command %q", *command))
	}

	member := precondition.Member{
		UserID:        *userID,
		Username:      *username,
		IsGuildOwner:  *guildOwner,
		Administrator: *admin || *guildOwner,
	}
	if member.Username == "" {
		member.Username = *userID
	}
	if *roles != "" {
		member.RoleIDs = strings.Split(*roles, ",")
	}

	engine := precondition.NewEngine(store, rules.Precondition(cfg.OwnerIDs...))
	res, err := engine.Check(context.Background(), precondition.Invocation{
		Command:      c.Name(),
		GuildID:      *guildID,
		ChannelID:    *channelID,
		Member:       member,
		Requirements: g.Requirements(c),
	})
	if err != nil {
		fail(err)
	}

	fmt.Printf("command:      %s\n", c.Name())
	fmt.Printf("requirements: %s\n", game.RequirementNames(g.Requirements(c)))
	switch {
	case res.Allowed:
		fmt.Println("decision:     allowed")
	case res.Fault:
		fmt.Printf("decision:     fault\n%s\n", res.Message)
		os.Exit(1)
	default:
		fmt.Printf("decision:     denied\n%s\n", res.Message)
		os.Exit(1)
	}
}

// commandsCmd lists every command with the requirements it runs under.
func commandsCmd(args []string) {
	fs := flag.NewFlagSet("commands", flag.ExitOnError)
	rulesPath := fs.String("rules", "rules.yaml", "rules file")
	_ = fs.Parse(args)

	g := game.New(nil, loadRules(*rulesPath))
	for _, c := range g.Commands() {
		fmt.Printf("%-20s %-14s %s\n", c.Name(), c.Category(), game.RequirementNames(g.Requirements(c)))
	}
}

// rulesCmd validates a rules file.
func rulesCmd(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	rulesPath := fs.String("rules", "rules.yaml", "rules file")
	_ = fs.Parse(args)

	rules := loadRules(*rulesPath)
	fmt.Printf("%s: ok (%d thresholds, %d cooldowns, %d overrides, gang size %d)\n",
		*rulesPath, len(rules.Thresholds), len(rules.Cooldowns), len(rules.Commands), rules.GangSize)
}
