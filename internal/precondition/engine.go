package precondition

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
)

// StateReader loads the state an evaluation needs. Implementations own any
// snapshot isolation and retry policy.
type StateReader interface {
	FetchGuild(ctx context.Context, guildID string) (domain.GuildConfig, error)
	FetchActor(ctx context.Context, guildID, userID string) (domain.ActorState, error)
	FetchGang(ctx context.Context, guildID, gangID string) (domain.GangState, error)
}

// CooldownNotifier delivers a formatted cooldown notice on behalf of the
// engine. After a successful delivery the engine returns a silent denial.
type CooldownNotifier interface {
	NotifyCooldown(ctx context.Context, inv Invocation, block CooldownBlock) error
}

// SnapshotError reports that the state for an invocation could not be
// loaded. It is never turned into a permit or a denial.
type SnapshotError struct {
	Part string // "guild", "actor" or "gang"
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("load %s snapshot: %v", e.Part, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Engine binds Evaluate to its collaborators.
type Engine struct {
	reader   StateReader
	rules    Rules
	now      func() time.Time
	notifier CooldownNotifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCooldownNotifier sets the side channel for cooldown notices.
func WithCooldownNotifier(n CooldownNotifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// NewEngine returns an Engine reading state from reader and evaluating
// against rules.
func NewEngine(reader StateReader, rules Rules, opts ...Option) *Engine {
	e := &Engine{reader: reader, rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Check loads the snapshot for inv and evaluates inv.Requirements against it.
// A non-nil error means the snapshot could not be loaded.
func (e *Engine) Check(ctx context.Context, inv Invocation) (Result, error) {
	snap, err := e.Load(ctx, inv)
	if err != nil {
		return Result{}, err
	}

	res := Evaluate(inv.Requirements, snap, e.now(), e.rules)
	if res.Cooldown == nil {
		return res, nil
	}

	if e.notifier != nil {
		if err := e.notifier.NotifyCooldown(ctx, inv, *res.Cooldown); err == nil {
			res.Message = ""
		}
	}
	return res, nil
}

// Load reads the guild, actor and gang state for inv.
func (e *Engine) Load(ctx context.Context, inv Invocation) (Snapshot, error) {
	snap := Snapshot{Invocation: inv}

	guild, err := e.reader.FetchGuild(ctx, inv.GuildID)
	if err != nil {
		return snap, &SnapshotError{Part: "guild", Err: err}
	}
	snap.Guild = guild

	actor, err := e.reader.FetchActor(ctx, inv.GuildID, inv.Member.UserID)
	if err != nil {
		return snap, &SnapshotError{Part: "actor", Err: err}
	}
	snap.Actor = actor

	if actor.InGang() {
		gang, err := e.reader.FetchGang(ctx, inv.GuildID, actor.GangID)
		if err != nil {
			return snap, &SnapshotError{Part: "gang", Err: err}
		}
		snap.Gang = &gang
	}
	return snap, nil
}
