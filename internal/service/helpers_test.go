package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/factcheck/internal/domain"
	"github.com/msomdec/factcheck/internal/repository/sqlite"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestUsers(t *testing.T) domain.UserRepository {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db.Users()
}
