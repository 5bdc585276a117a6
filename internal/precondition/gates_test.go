package precondition

import (
	"testing"
	"time"

	"github.com/keshon/dea-bot/internal/domain"
)

func TestResolveRank(t *testing.T) {
	guild := domain.GuildConfig{ModRoles: map[string]int{"mod": 1, "owner": 3, "admin": 2}}

	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{name: "highest of several wins", roles: []string{"mod", "owner"}, want: 3},
		{name: "single role", roles: []string{"admin"}, want: 2},
		{name: "unconfigured roles ignored", roles: []string{"everyone", "mod"}, want: 1},
		{name: "no roles", roles: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRank(tt.roles, guild); got != tt.want {
				t.Fatalf("rank = %d, want %d", got, tt.want)
			}
		})
	}

	if got := ResolveRank([]string{"mod"}, domain.GuildConfig{}); got != 0 {
		t.Fatalf("empty table rank = %d, want 0", got)
	}
}

func TestMemberTier(t *testing.T) {
	owner := Member{UserID: "o", IsGuildOwner: true, Administrator: true}
	native := Member{UserID: "a", Administrator: true}
	staff := Member{UserID: "s", RoleIDs: []string{"admin"}}

	tests := []struct {
		name  string
		m     Member
		guild domain.GuildConfig
		want  int
	}{
		{name: "owner on fallback", m: owner, want: domain.RankOwner},
		{name: "administrator on fallback", m: native, want: domain.RankAdmin},
		{name: "plain member", m: Member{UserID: "u"}, want: domain.RankNone},
		{name: "configured admin role", m: staff, guild: domain.GuildConfig{ModRoles: map[string]int{"admin": 2}}, want: domain.RankAdmin},
		{name: "rank 3 role retires every fallback", m: owner, guild: domain.GuildConfig{ModRoles: map[string]int{"top": 3}}, want: domain.RankNone},
		{name: "moderator role keeps the admin fallback", m: native, guild: domain.GuildConfig{ModRoles: map[string]int{"mod": 1}}, want: domain.RankAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemberTier(tt.m, tt.guild); got != tt.want {
				t.Fatalf("tier = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckFloor(t *testing.T) {
	thresholds := ThresholdTable{"rob": 5000}

	if st := CheckFloor("rob", 5000, thresholds); !st.OK {
		t.Fatal("balance equal to threshold should pass")
	}
	st := CheckFloor("rob", 4999, thresholds)
	if st.OK {
		t.Fatal("balance one below threshold should fail")
	}
	if st.Required != 5000 {
		t.Fatalf("required = %d, want 5000", st.Required)
	}
	if st := CheckFloor("whore", 0, thresholds); !st.OK {
		t.Fatal("action without threshold should pass")
	}
}

func TestCheckCooldown(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	table := CooldownTable{"jump": {Duration: 4 * time.Hour}}

	if st := CheckCooldown("jump", time.Time{}, now, table); !st.Ready {
		t.Fatal("never used action should be ready")
	}
	if st := CheckCooldown("jump", now.Add(-4*time.Hour), now, table); !st.Ready {
		t.Fatal("elapsed equal to duration should be ready")
	}

	st := CheckCooldown("jump", now.Add(-4*time.Hour+time.Millisecond), now, table)
	if st.Ready {
		t.Fatal("1ms short of duration should be blocked")
	}
	if st.Remaining != time.Millisecond {
		t.Fatalf("remaining = %v, want 1ms", st.Remaining)
	}

	if st := CheckCooldown("unknown", now, now, table); !st.Ready {
		t.Fatal("action missing from the table should be ready")
	}
}

func TestCheckRestrictedOrder(t *testing.T) {
	guild := domain.GuildConfig{NsfwChannelID: "nsfw-chan", NsfwRoleID: "nsfw-role"}

	if got := CheckRestricted(guild, "general", nil); got != RestrictedDisabled {
		t.Fatalf("disabled guild = %v, want RestrictedDisabled", got)
	}

	guild.Nsfw = true
	if got := CheckRestricted(guild, "general", nil); got != RestrictedChannel {
		t.Fatalf("wrong channel = %v, want RestrictedChannel", got)
	}
	if got := CheckRestricted(guild, "nsfw-chan", nil); got != RestrictedRole {
		t.Fatalf("missing role = %v, want RestrictedRole", got)
	}
	if got := CheckRestricted(guild, "nsfw-chan", []string{"nsfw-role"}); got != Unrestricted {
		t.Fatalf("all satisfied = %v, want Unrestricted", got)
	}

	open := domain.GuildConfig{Nsfw: true}
	if got := CheckRestricted(open, "anywhere", nil); got != Unrestricted {
		t.Fatalf("unset channel and role = %v, want Unrestricted", got)
	}
}

func TestSplitDuration(t *testing.T) {
	h, m, s := SplitDuration(2*time.Hour + 3*time.Minute + 4*time.Second + 900*time.Millisecond)
	if h != 2 || m != 3 || s != 4 {
		t.Fatalf("split = %d:%d:%d, want 2:3:4", h, m, s)
	}
	h, m, s = SplitDuration(-time.Second)
	if h != 0 || m != 0 || s != 0 {
		t.Fatalf("negative split = %d:%d:%d, want zeros", h, m, s)
	}
}

func TestFormatCash(t *testing.T) {
	tests := map[int64]string{
		0:       "$0",
		25:      "$25",
		999:     "$999",
		1000:    "$1,000",
		2500:    "$2,500",
		1234567: "$1,234,567",
		-5000:   "-$5,000",
	}
	for in, want := range tests {
		if got := FormatCash(in); got != want {
			t.Errorf("FormatCash(%d) = %q, want %q", in, got, want)
		}
	}
}
