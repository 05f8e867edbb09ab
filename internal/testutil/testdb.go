package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-today/internal/infra/store"
)

// TestDB is a throwaway postgres container opened through the same path the
// service uses, so the reminder tables are already migrated.
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("today"),
		postgres.WithUsername("today"),
		postgres.WithPassword("today"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := store.OpenPostgres(store.PostgresConfig{
		DSN:             dsn,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	return &TestDB{
		Container: pgContainer,
		DB:        db,
		DSN:       dsn,
	}
}

func (tdb *TestDB) TeardownTestDB(t *testing.T) {
	t.Helper()

	if sqlDB, err := tdb.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if err := tdb.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// CleanTable empties the reminder and access grant tables.
func (tdb *TestDB) CleanTable(t *testing.T) {
	t.Helper()

	if err := tdb.DB.Exec("TRUNCATE TABLE reminders, reminder_access_grants").Error; err != nil {
		t.Fatalf("failed to clean table: %v", err)
	}
}

// Seed inserts rows directly, bypassing the store. Rows without a due date
// can only be created this way.
func (tdb *TestDB) Seed(t *testing.T, rows ...store.ReminderModel) {
	t.Helper()

	if len(rows) == 0 {
		return
	}

	if err := tdb.DB.Create(&rows).Error; err != nil {
		t.Fatalf("failed to seed reminders: %v", err)
	}
}
