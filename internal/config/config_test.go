package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/keshon/dea-bot/internal/precondition"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverDatastore {
		t.Fatalf("driver = %q, want %q", cfg.StorageDriver, DriverDatastore)
	}
	if cfg.DefaultPrefix != "$" {
		t.Fatalf("prefix = %q, want $", cfg.DefaultPrefix)
	}
	if cfg.CooldownSweep != time.Minute {
		t.Fatalf("sweep = %v, want 1m", cfg.CooldownSweep)
	}
}

func TestLoadOwnersAndDriver(t *testing.T) {
	t.Setenv("OWNER_IDS", "111,222")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsOwner("222") || cfg.IsOwner("333") {
		t.Fatalf("owners = %v", cfg.OwnerIDs)
	}
	if cfg.StorageDriver != DriverSQLite {
		t.Fatalf("driver = %q", cfg.StorageDriver)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"unknown driver":  {"STORAGE_DRIVER", "postgres"},
		"not a rate":      {"COMMAND_RATE", "fast"},
		"zero burst":      {"COMMAND_BURST", "0"},
		"bad sweep value": {"COOLDOWN_SWEEP_INTERVAL", "soon"},
		"zero sweep":      {"COOLDOWN_SWEEP_INTERVAL", "0s"},
		"negative save":   {"DATASTORE_SAVE_INTERVAL", "-1m"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.Thresholds["rob"] != 5000 {
		t.Fatalf("rob threshold = %d, want default 5000", rules.Thresholds["rob"])
	}
}

func TestLoadRulesOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	raw := `
owners: ["42"]
thresholds:
  rob: 7500
cooldowns:
  jump:
    duration: 90m
  heist:
    duration: 12h
    scope: gang
commands:
  rob: [cash:rob, cooldown, nogang]
gang_size: 8
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if rules.Thresholds["rob"] != 7500 || rules.Thresholds["jump"] != 500 {
		t.Fatalf("thresholds = %v", rules.Thresholds)
	}
	if rules.Cooldowns["jump"].Duration != 90*time.Minute {
		t.Fatalf("jump cooldown = %v", rules.Cooldowns["jump"])
	}
	if rules.GangSize != 8 {
		t.Fatalf("gang size = %d", rules.GangSize)
	}

	reqs, ok := rules.Requirements("rob")
	if !ok || len(reqs) != 3 {
		t.Fatalf("rob requirements = %v", reqs)
	}
	if reqs[2] != (precondition.NoGang{}) {
		t.Fatalf("third requirement = %#v", reqs[2])
	}

	pr := rules.Precondition("7", "42")
	if len(pr.OwnerIDs) != 2 || !pr.IsOwner("7") || !pr.IsOwner("42") {
		t.Fatalf("owners = %v", pr.OwnerIDs)
	}
	if pr.Cooldowns["heist"].Scope != precondition.ScopeGang {
		t.Fatalf("heist scope = %v", pr.Cooldowns["heist"].Scope)
	}
	if pr.Cooldowns["raid"].Scope != precondition.ScopeGang || pr.Cooldowns["jump"].Scope != precondition.ScopeActor {
		t.Fatalf("default scopes = %+v", pr.Cooldowns)
	}
}

func TestParseRulesRejects(t *testing.T) {
	tests := map[string]string{
		"unknown requirement": "commands:\n  rob: [cash:rob, sudo]\n",
		"bad scope":           "cooldowns:\n  rob:\n    duration: 1h\n    scope: guild\n",
		"negative floor":      "thresholds:\n  rob: -1\n",
		"inverted payout":     "payouts:\n  jump: {min: 10, max: 5, odds: 50}\n",
		"bad yaml":            "thresholds: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRules([]byte(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := ParseRules([]byte("commands:\n  rob: [sudo]\n"))
	if err == nil || !strings.Contains(err.Error(), `command "rob"`) {
		t.Fatalf("error = %v, want the command named", err)
	}
}

func TestLongestCooldown(t *testing.T) {
	rules := DefaultRules()
	if got := rules.LongestCooldown(); got != 8*time.Hour {
		t.Fatalf("longest = %v, want 8h", got)
	}
	rules.Cooldowns["heist"] = CooldownSpec{Duration: 24 * time.Hour}
	if got := rules.LongestCooldown(); got != 24*time.Hour {
		t.Fatalf("longest = %v, want 24h", got)
	}
}
