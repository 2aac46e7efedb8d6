package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/crucial707/blog-api/internal/config"
)

func TestMigrations_Paired(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", n)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("%s has no down migration", base)
		}
	}
	if len(ups) != len(downs) {
		t.Errorf("got %d up and %d down migrations", len(ups), len(downs))
	}
}

func TestMigrate_Unreachable(t *testing.T) {
	cfg := config.DB{Host: "127.0.0.1", Port: "1", Name: "blogdb", User: "u", Pass: "p"}

	_, err := Migrate(cfg)
	if err == nil {
		t.Fatal("expected an error for an unreachable database")
	}
	if !strings.Contains(err.Error(), "open migrator for 127.0.0.1/blogdb") {
		t.Errorf("unexpected error: %v", err)
	}
}
