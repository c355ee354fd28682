package postgres

import (
	"context"
	"testing"
	"time"
)

func TestStore_PostgresPingAndMigrationStatus(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if version == 0 || count == 0 {
		t.Fatalf("expected applied migrations, got version=%d count=%d", version, count)
	}
}

func TestStore_PostgresMigrateDownAndUpRoundTrip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	versionBefore, countBefore, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status before: %v", err)
	}

	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}

	_, countAfterDown, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status after down: %v", err)
	}
	if countAfterDown != countBefore-1 {
		t.Fatalf("expected %d applied migrations after down, got %d", countBefore-1, countAfterDown)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	versionAfter, countAfter, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status after up: %v", err)
	}
	if versionAfter != versionBefore || countAfter != countBefore {
		t.Fatalf("migration round trip mismatch: version=%d/%d count=%d/%d",
			versionAfter, versionBefore, countAfter, countBefore)
	}
}
