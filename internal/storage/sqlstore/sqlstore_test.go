package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/internal/storage"
)

var _ precondition.StateReader = (*Store)(nil)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "dea.db"), WithDefaultPrefix("!"), WithHistoryLimit(3))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGuildSettings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	guild, err := s.FetchGuild(ctx, "g1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if guild.Prefix != "!" || len(guild.ModRoles) != 0 || guild.Nsfw {
		t.Fatalf("fresh guild = %+v", guild)
	}

	steps := []error{
		s.SetPrefix(ctx, "g1", "?"),
		s.SetNsfw(ctx, "g1", true),
		s.SetNsfwChannel(ctx, "g1", "c-nsfw"),
		s.SetNsfwRole(ctx, "g1", "r-nsfw"),
		s.SetModRole(ctx, "g1", "r-mod", domain.RankModerator),
		s.SetModRole(ctx, "g1", "r-mod", domain.RankAdmin),
		s.SetRankRole(ctx, "g1", 2, "r-rank2"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	guild, err = s.FetchGuild(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if guild.Prefix != "?" || !guild.Nsfw || guild.NsfwChannelID != "c-nsfw" || guild.NsfwRoleID != "r-nsfw" {
		t.Fatalf("guild = %+v", guild)
	}
	if guild.ModRoles["r-mod"] != domain.RankAdmin || guild.RankRoles[2] != "r-rank2" {
		t.Fatalf("roles = %v / %v", guild.ModRoles, guild.RankRoles)
	}

	if err := s.RemoveModRole(ctx, "g1", "r-mod"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveModRole(ctx, "g1", "r-mod"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second remove = %v, want ErrNotFound", err)
	}
	if err := s.SetRankRole(ctx, "g1", 2, ""); err != nil {
		t.Fatal(err)
	}
	guild, _ = s.FetchGuild(ctx, "g1")
	if len(guild.ModRoles) != 0 || len(guild.RankRoles) != 0 {
		t.Fatalf("roles after removal = %v / %v", guild.ModRoles, guild.RankRoles)
	}
}

func TestCashAndCooldowns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if balance, err := s.AddCash(ctx, "g1", "u1", 1000); err != nil || balance != 1000 {
		t.Fatalf("add = %d, %v", balance, err)
	}
	if _, err := s.AddCash(ctx, "g1", "u1", -2000); !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Fatalf("overdraw = %v", err)
	}
	if moved, err := s.Transfer(ctx, "g1", "u1", "u2", 250); err != nil || moved != 250 {
		t.Fatalf("transfer = %d, %v", moved, err)
	}
	if moved, err := s.Transfer(ctx, "g1", "u1", "u1", 500); err != nil || moved != 0 {
		t.Fatalf("self transfer = %d, %v", moved, err)
	}

	ok, err := s.ClaimCooldown(ctx, "g1", "u1", "jump", testNow, 4*time.Hour)
	if err != nil || !ok {
		t.Fatalf("claim = %v, %v", ok, err)
	}
	if ok, _ := s.ClaimCooldown(ctx, "g1", "u1", "jump", testNow.Add(time.Minute), 4*time.Hour); ok {
		t.Fatal("claim inside the window should lose")
	}

	actor, err := s.FetchActor(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if actor.Cash != 750 || !actor.LastUse("jump").Equal(testNow) {
		t.Fatalf("actor = %+v", actor)
	}

	if err := s.ClearExpiredCooldowns(time.Hour, testNow.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	actor, _ = s.FetchActor(ctx, "g1", "u1")
	if !actor.LastUse("jump").IsZero() {
		t.Fatal("expired stamp should be cleared")
	}

	s.ClaimCooldown(ctx, "g1", "u1", "rob", testNow, time.Hour)
	if err := s.ResetUser(ctx, "g1", "u1"); err != nil {
		t.Fatal(err)
	}
	actor, _ = s.FetchActor(ctx, "g1", "u1")
	if actor.Cash != 0 || len(actor.Cooldowns) != 0 {
		t.Fatalf("after reset = %+v", actor)
	}
}

func TestClaimCooldownConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		claims int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := s.ClaimCooldown(ctx, "g1", "u1", "rob", testNow, 8*time.Hour); err == nil && ok {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if claims != 1 {
		t.Fatalf("claims = %d, want exactly one", claims)
	}
}

func TestGangs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	gang, err := s.CreateGang(ctx, "g1", "leader", "Crew")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateGang(ctx, "g1", "other", "CREW"); !errors.Is(err, storage.ErrNameTaken) {
		t.Fatalf("duplicate = %v", err)
	}
	if _, err := s.JoinGang(ctx, "g1", "m1", "crew", 2); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := s.JoinGang(ctx, "g1", "m2", "crew", 2); !errors.Is(err, storage.ErrGangFull) {
		t.Fatalf("join full = %v", err)
	}

	got, err := s.FetchGang(ctx, "g1", gang.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Members) != 2 || got.Members[0] != "leader" || !got.HasMember("m1") {
		t.Fatalf("members = %v", got.Members)
	}

	s.AddCash(ctx, "g1", "m1", 300)
	if _, err := s.Deposit(ctx, "g1", "m1", 300); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Withdraw(ctx, "g1", "leader", 100, testNow); err != nil {
		t.Fatal(err)
	}
	leader, _ := s.FetchActor(ctx, "g1", "leader")
	if leader.Cash != 100 || !leader.LastUse("withdraw").Equal(testNow) {
		t.Fatalf("leader = %+v", leader)
	}

	if ok, _ := s.ClaimRaid(ctx, "g1", gang.ID, testNow, 8*time.Hour); !ok {
		t.Fatal("first raid should be claimed")
	}
	if ok, _ := s.ClaimRaid(ctx, "g1", gang.ID, testNow.Add(time.Hour), 8*time.Hour); ok {
		t.Fatal("second raid should lose")
	}
	if wealth, err := s.AddGangWealth(ctx, "g1", gang.ID, -1000); err != nil || wealth != 0 {
		t.Fatalf("wealth = %d, %v", wealth, err)
	}

	if disbanded, err := s.LeaveGang(ctx, "g1", "leader"); err != nil || !disbanded {
		t.Fatalf("leader leave = %v, %v", disbanded, err)
	}
	if _, err := s.FetchGang(ctx, "g1", gang.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("fetch disbanded = %v", err)
	}
	member, _ := s.FetchActor(ctx, "g1", "m1")
	if member.InGang() {
		t.Fatal("member should be released")
	}
}

func TestCommandHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c", "d"} {
		if err := s.AppendCommandHistory(ctx, "g1", domain.CommandHistory{Command: name, Datetime: testNow}); err != nil {
			t.Fatal(err)
		}
	}
	history, err := s.FetchCommandHistory(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 || history[0].Command != "b" || history[2].Command != "d" {
		t.Fatalf("history = %+v", history)
	}
}
