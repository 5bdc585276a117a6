package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/keshon/dea-bot/internal/config"
)

func TestOpenEachDriver(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{config.DriverDatastore, config.DriverSQLite} {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{
				StorageDriver: name,
				StoragePath:   filepath.Join(dir, "datastore.json"),
				SQLitePath:    filepath.Join(dir, "dea.db"),
				DefaultPrefix: "!",
				HistoryLimit:  5,
			}
			store, err := Open(context.Background(), cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer store.Close()

			guild, err := store.FetchGuild(context.Background(), "g1")
			if err != nil {
				t.Fatalf("fetch guild: %v", err)
			}
			if guild.Prefix != "!" {
				t.Fatalf("prefix = %q, want the configured default", guild.Prefix)
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{StorageDriver: "postgres"}); err == nil {
		t.Fatal("expected error")
	}
}
