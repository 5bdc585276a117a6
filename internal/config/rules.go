package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keshon/dea-bot/internal/precondition"
)

// Rules is the game configuration: cash floors, cooldowns, payouts and
// per-command requirement overrides.
type Rules struct {
	Owners     []string                `yaml:"owners"`
	Sponsors   []string                `yaml:"sponsors"`
	Thresholds map[string]int64        `yaml:"thresholds"`
	Cooldowns  map[string]CooldownSpec `yaml:"cooldowns"`
	RankCash   map[int]int64           `yaml:"rank_cash"`
	Payouts    map[string]Payout       `yaml:"payouts"`
	Commands   map[string][]string     `yaml:"commands"`
	GangSize   int                     `yaml:"gang_size"`
}

type CooldownSpec struct {
	Duration time.Duration `yaml:"duration"`
	Scope    string        `yaml:"scope"`
}

// Payout is the reward range of a gameplay action. Odds is the success
// chance in percent; a failed attempt costs an amount drawn from the same
// range. Actions that stake an amount chosen by the player leave the range
// at zero.
type Payout struct {
	Min  int64 `yaml:"min"`
	Max  int64 `yaml:"max"`
	Odds int   `yaml:"odds"`
}

// DefaultRules returns the stock game balance.
func DefaultRules() Rules {
	return Rules{
		Thresholds: map[string]int64{
			"jump":  500,
			"steal": 2500,
			"rob":   5000,
			"bully": 10000,
			"50x2":  25,
		},
		Cooldowns: map[string]CooldownSpec{
			"whore":    {Duration: 2 * time.Hour, Scope: "actor"},
			"jump":     {Duration: 4 * time.Hour, Scope: "actor"},
			"steal":    {Duration: 6 * time.Hour, Scope: "actor"},
			"rob":      {Duration: 8 * time.Hour, Scope: "actor"},
			"withdraw": {Duration: 4 * time.Hour, Scope: "actor"},
			"raid":     {Duration: 8 * time.Hour, Scope: "gang"},
		},
		RankCash: map[int]int64{1: 500, 2: 2500, 3: 5000, 4: 10000},
		Payouts: map[string]Payout{
			"whore": {Min: 50, Max: 100, Odds: 90},
			"jump":  {Min: 100, Max: 300, Odds: 85},
			"steal": {Min: 500, Max: 1500, Odds: 80},
			"rob":   {Min: 0, Max: 0, Odds: 60},
			"raid":  {Min: 0, Max: 0, Odds: 50},
			"50x2":  {Min: 0, Max: 0, Odds: 45},
		},
		Commands: map[string][]string{},
		GangSize: 5,
	}
}

// LoadRules reads path over DefaultRules. A missing file yields the
// defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(raw)
}

// ParseRules decodes YAML over DefaultRules. Map entries override defaults
// key by key; lists replace them.
func ParseRules(raw []byte) (Rules, error) {
	rules := DefaultRules()

	var file Rules
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return rules, fmt.Errorf("rules.yaml: %w", err)
	}

	if file.Owners != nil {
		rules.Owners = file.Owners
	}
	if file.Sponsors != nil {
		rules.Sponsors = file.Sponsors
	}
	maps.Copy(rules.Thresholds, file.Thresholds)
	maps.Copy(rules.Cooldowns, file.Cooldowns)
	maps.Copy(rules.RankCash, file.RankCash)
	maps.Copy(rules.Payouts, file.Payouts)
	maps.Copy(rules.Commands, file.Commands)
	if file.GangSize > 0 {
		rules.GangSize = file.GangSize
	}

	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// Validate reports the first inconsistency in r.
func (r Rules) Validate() error {
	for action, floor := range r.Thresholds {
		if floor < 0 {
			return fmt.Errorf("threshold %q: negative floor %d", action, floor)
		}
	}
	for action, spec := range r.Cooldowns {
		if spec.Duration < 0 {
			return fmt.Errorf("cooldown %q: negative duration", action)
		}
		if _, err := precondition.ParseScope(spec.Scope); err != nil {
			return fmt.Errorf("cooldown %q: %w", action, err)
		}
	}
	for action, p := range r.Payouts {
		if p.Min > p.Max {
			return fmt.Errorf("payout %q: min %d above max %d", action, p.Min, p.Max)
		}
		if p.Odds < 0 || p.Odds > 100 {
			return fmt.Errorf("payout %q: odds %d outside 0-100", action, p.Odds)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(r.Commands)) {
		if err := precondition.Validate(precondition.ParseRequirements(r.Commands[name])); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
	}
	return nil
}

// Precondition converts r into the engine's rule snapshot. extraOwners are
// appended to the configured owners.
func (r Rules) Precondition(extraOwners ...string) precondition.Rules {
	cooldowns := make(precondition.CooldownTable, len(r.Cooldowns))
	for action, spec := range r.Cooldowns {
		scope, _ := precondition.ParseScope(spec.Scope)
		cooldowns[action] = precondition.CooldownRule{Duration: spec.Duration, Scope: scope}
	}

	owners := slices.Concat(r.Owners, extraOwners)
	slices.Sort(owners)

	return precondition.Rules{
		OwnerIDs:   slices.Compact(owners),
		SponsorIDs: slices.Clone(r.Sponsors),
		Thresholds: maps.Clone(precondition.ThresholdTable(r.Thresholds)),
		Cooldowns:  cooldowns,
		RankCash:   maps.Clone(r.RankCash),
	}
}

// Requirements returns the configured override for command, if any.
func (r Rules) Requirements(command string) ([]precondition.Requirement, bool) {
	names, ok := r.Commands[command]
	if !ok {
		return nil, false
	}
	return precondition.ParseRequirements(names), true
}

// LongestCooldown is the longest configured cooldown. Timestamps older than
// it no longer block anything.
func (r Rules) LongestCooldown() time.Duration {
	var longest time.Duration
	for _, spec := range r.Cooldowns {
		longest = max(longest, spec.Duration)
	}
	return longest
}
