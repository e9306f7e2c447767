package main

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "guild_settings" {
		t.Fatalf("unexpected first migration: %d %s", migrations[0].Version, migrations[0].Name)
	}
	if migrations[1].Version != 2 || migrations[1].Name != "price_alerts" {
		t.Fatalf("unexpected second migration: %d %s", migrations[1].Version, migrations[1].Name)
	}
	if !strings.Contains(migrations[1].UpSQL, "CREATE TABLE IF NOT EXISTS price_alerts") || migrations[1].DownSQL == "" {
		t.Fatal("expected price_alerts up/down sql")
	}
}

func TestLoadMigrationsRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name": {
			"migrations/one.up.sql": {Data: []byte("SELECT 1")},
		},
		"missing down": {
			"migrations/0001_a.up.sql": {Data: []byte("SELECT 1")},
		},
		"empty file": {
			"migrations/0001_a.up.sql":   {Data: []byte("  ")},
			"migrations/0001_a.down.sql": {Data: []byte("SELECT 1")},
		},
		"conflicting names": {
			"migrations/0001_a.up.sql":   {Data: []byte("SELECT 1")},
			"migrations/0001_b.down.sql": {Data: []byte("SELECT 1")},
		},
		"no files": {},
	}
	for name, fsys := range cases {
		if _, err := loadMigrations(fsys); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPendingMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := pendingMigrations(migrations, map[int64]struct{}{1: {}})
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("unexpected pending migrations: %+v", pending)
	}
	if got := pendingMigrations(migrations, nil); len(got) != 2 {
		t.Fatalf("expected every migration pending, got %d", len(got))
	}
}

func TestParseSteps(t *testing.T) {
	if n, err := parseSteps(nil); err != nil || n != 1 {
		t.Fatalf("expected default of 1, got %d %v", n, err)
	}
	if n, err := parseSteps([]string{"3"}); err != nil || n != 3 {
		t.Fatalf("expected 3, got %d %v", n, err)
	}
	for _, bad := range []string{"0", "-1", "x"} {
		if _, err := parseSteps([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
