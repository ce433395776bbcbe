package migration

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %d, %d", migs[0].Version, migs[1].Version)
	}
	if migs[0].Name != "first" || migs[0].Checksum == "" {
		t.Fatalf("unexpected migration: %+v", migs[0])
	}
}

func TestLoadMigrations_RejectsEmptyAndDuplicates(t *testing.T) {
	if _, err := loadMigrations(fstest.MapFS{"V1__empty.sql": {Data: []byte("  ")}}); err == nil {
		t.Fatalf("expected error for empty migration")
	}

	dup := fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1;")},
		"V1__b.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(dup); err == nil {
		t.Fatalf("expected error for duplicate version")
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	src, err := Runner{}.source()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	migs, err := loadMigrations(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) < 3 {
		t.Fatalf("expected embedded migrations, got %d", len(migs))
	}
}
