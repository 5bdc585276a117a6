package discord

import (
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dea-bot/internal/precondition"
	"github.com/keshon/dea-bot/pkg/retrylimit"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantArgs []string
		ok       bool
	}{
		{"prefixed", "$rob <@2> 500", "rob", []string{"<@2>", "500"}, true},
		{"case folded", "$Cash", "cash", []string{}, true},
		{"mention", "<@42> help rob", "help", []string{"rob"}, true},
		{"nick mention", "<@!42>   cash", "cash", []string{}, true},
		{"space after prefix", "$ 5 bucks", "", nil, false},
		{"bare prefix", "$", "", nil, false},
		{"plain chat", "hello there", "", nil, false},
		{"other mention", "<@7> cash", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := parseCommand(tt.content, "$", "42")
			if ok != tt.ok || name != tt.wantName {
				t.Fatalf("parseCommand(%q) = %q, %v; want %q, %v", tt.content, name, ok, tt.wantName, tt.ok)
			}
			if ok && !slices.Equal(args, tt.wantArgs) {
				t.Fatalf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

func TestResolveMember(t *testing.T) {
	guild := &discordgo.Guild{
		OwnerID: "1",
		Roles: []*discordgo.Role{
			{ID: "admins", Permissions: discordgo.PermissionAdministrator | discordgo.PermissionManageMessages},
			{ID: "mods", Permissions: discordgo.PermissionManageMessages},
		},
	}

	owner := resolveMember(guild, &discordgo.User{ID: "1", Username: "boss"}, nil)
	if !owner.IsGuildOwner || !owner.Administrator || owner.Username != "boss" {
		t.Fatalf("owner = %+v", owner)
	}
	admin := resolveMember(guild, &discordgo.User{ID: "2"}, []string{"mods", "admins"})
	if admin.IsGuildOwner || !admin.Administrator {
		t.Fatalf("admin = %+v", admin)
	}
	mod := resolveMember(guild, &discordgo.User{ID: "3"}, []string{"mods"})
	if mod.Administrator || !mod.HasRole("mods") {
		t.Fatalf("mod = %+v", mod)
	}
}

func TestCooldownEmbed(t *testing.T) {
	embed := cooldownEmbed(precondition.CooldownBlock{
		Action:    "raid",
		Subject:   "The Crew",
		Remaining: 5*time.Hour + 4*time.Minute + 3*time.Second,
	})
	if embed.Title != "`raid` cooldown for `The Crew`" {
		t.Fatalf("title = %q", embed.Title)
	}
	var got []string
	for _, f := range embed.Fields {
		got = append(got, f.Name+"="+f.Value)
	}
	if want := []string{"Hours=5", "Minutes=4", "Seconds=3"}; !slices.Equal(got, want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
}

func TestWrapREST(t *testing.T) {
	rest := func(code int, retryAfter string) error {
		resp := &http.Response{StatusCode: code, Header: http.Header{}}
		if retryAfter != "" {
			resp.Header.Set("Retry-After", retryAfter)
		}
		return &discordgo.RESTError{Response: resp}
	}

	limited := wrapREST(rest(http.StatusTooManyRequests, "1.5"))
	if !retrylimit.Retryable(limited) {
		t.Fatal("429 should be retried")
	}
	var ra retrylimit.RetryAfterError
	if !errors.As(limited, &ra) || ra.RetryAfter() != 1500*time.Millisecond {
		t.Fatalf("retry after not exposed: %v", limited)
	}

	if retrylimit.Retryable(wrapREST(rest(http.StatusForbidden, ""))) {
		t.Fatal("403 should be final")
	}
	if !retrylimit.Retryable(wrapREST(rest(http.StatusBadGateway, ""))) {
		t.Fatal("502 should be retried")
	}

	plain := errors.New("boom")
	if wrapREST(plain) != plain {
		t.Fatal("non-REST errors pass through")
	}
	var re *discordgo.RESTError
	if !errors.As(wrapREST(rest(http.StatusBadRequest, "")), &re) {
		t.Fatal("wrapped error should unwrap to the REST error")
	}
}
