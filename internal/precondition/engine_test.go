package precondition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
)

type fakeReader struct {
	guild    domain.GuildConfig
	actor    domain.ActorState
	gang     domain.GangState
	guildErr error
	actorErr error
	gangErr  error
}

func (f *fakeReader) FetchGuild(context.Context, string) (domain.GuildConfig, error) {
	return f.guild, f.guildErr
}

func (f *fakeReader) FetchActor(context.Context, string, string) (domain.ActorState, error) {
	return f.actor, f.actorErr
}

func (f *fakeReader) FetchGang(context.Context, string, string) (domain.GangState, error) {
	return f.gang, f.gangErr
}

type fakeNotifier struct {
	sent []CooldownBlock
	err  error
}

func (f *fakeNotifier) NotifyCooldown(_ context.Context, _ Invocation, b CooldownBlock) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, b)
	return nil
}

func fixedClock() time.Time { return testNow }

func TestEngineCheckPermits(t *testing.T) {
	reader := &fakeReader{actor: domain.ActorState{UserID: "u1", Cash: 600}}
	e := NewEngine(reader, testRules(), WithClock(fixedClock))

	res, err := e.Check(context.Background(), Invocation{
		Command:      "jump",
		Member:       Member{UserID: "u1"},
		Requirements: []Requirement{CashFloor{Action: "jump"}, Cooldown{}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("expected permit, got %q", res.Message)
	}
}

func TestEngineCheckPropagatesReadFailures(t *testing.T) {
	boom := errors.New("store offline")
	tests := []struct {
		name   string
		reader *fakeReader
		part   string
	}{
		{"guild", &fakeReader{guildErr: boom}, "guild"},
		{"actor", &fakeReader{actorErr: boom}, "actor"},
		{"gang", &fakeReader{actor: domain.ActorState{GangID: "g"}, gangErr: boom}, "gang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.reader, testRules(), WithClock(fixedClock))
			res, err := e.Check(context.Background(), Invocation{Member: Member{UserID: "u1"}})
			if err == nil {
				t.Fatalf("expected error, got result %+v", res)
			}
			var se *SnapshotError
			if !errors.As(err, &se) || se.Part != tt.part {
				t.Fatalf("error = %v, want snapshot error for %s", err, tt.part)
			}
			if !errors.Is(err, boom) {
				t.Fatal("snapshot error should wrap the reader error")
			}
			if res.Allowed {
				t.Fatal("a failed load must not permit")
			}
		})
	}
}

func TestEngineLoadsGang(t *testing.T) {
	reader := &fakeReader{
		actor: domain.ActorState{UserID: "u1", GangID: "g"},
		gang:  domain.GangState{ID: "g", Name: "Crew", LeaderID: "u1"},
	}
	e := NewEngine(reader, testRules())

	snap, err := e.Load(context.Background(), Invocation{Member: Member{UserID: "u1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Gang == nil || snap.Gang.Name != "Crew" {
		t.Fatalf("gang = %+v", snap.Gang)
	}

	reader.actor.GangID = ""
	snap, err = e.Load(context.Background(), Invocation{Member: Member{UserID: "u1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Gang != nil {
		t.Fatal("actor without gang should load no gang")
	}
}

func TestEngineCooldownNotice(t *testing.T) {
	reader := &fakeReader{actor: domain.ActorState{
		UserID:    "u1",
		Cash:      1000,
		Cooldowns: map[string]time.Time{"jump": testNow.Add(-time.Hour)},
	}}
	inv := Invocation{
		Command:      "jump",
		Member:       Member{UserID: "u1", Username: "alice"},
		Requirements: []Requirement{Cooldown{}},
	}

	notifier := &fakeNotifier{}
	e := NewEngine(reader, testRules(), WithClock(fixedClock), WithCooldownNotifier(notifier))
	res, err := e.Check(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Silent() {
		t.Fatalf("delivered notice should leave a silent denial, got %q", res.Message)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Remaining != 3*time.Hour {
		t.Fatalf("notices = %+v", notifier.sent)
	}

	failing := &fakeNotifier{err: errors.New("channel gone")}
	e = NewEngine(reader, testRules(), WithClock(fixedClock), WithCooldownNotifier(failing))
	res, err = e.Check(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed || res.Silent() {
		t.Fatalf("failed notice should fall back to a visible denial, got %+v", res)
	}
	want := "jump cooldown for alice\nHours: 3\nMinutes: 0\nSeconds: 0"
	if res.Message != want {
		t.Fatalf("message = %q, want %q", res.Message, want)
	}
}
