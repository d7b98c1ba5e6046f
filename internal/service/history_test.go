package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/factcheck/internal/domain"
	"github.com/msomdec/factcheck/internal/service"
)

func TestHistoryService_NewestFirst(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	auth := service.NewAuthService(users, testJWTSecret, 4)
	if _, err := auth.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)}
	history := service.NewHistoryService(users).WithClock(clock.Now)

	for _, resp := range []string{"A", "B", "C"} {
		if _, err := history.Record(ctx, "bob", domain.KindNewsAnalysis, domain.SourcePastedText, resp); err != nil {
			t.Fatalf("Record %s: %v", resp, err)
		}
		clock.Advance(time.Second)
	}

	entries, err := history.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"C", "B", "A"} {
		if entries[i].Response != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, entries[i].Response)
		}
	}
}

func TestHistoryService_RecordStampsEntry(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	auth := service.NewAuthService(users, testJWTSecret, 4)
	if _, err := auth.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	now := time.Date(2024, 5, 1, 14, 3, 9, 500_000_000, time.Local)
	history := service.NewHistoryService(users).WithClock(func() time.Time { return now })

	entry, err := history.Record(ctx, "bob", domain.KindNewsAnalysis, "https://example.com/a", "critique")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := entry.Date.Format(domain.HistoryDateLayout); got != "2024-05-01 14:03:09" {
		t.Fatalf("unexpected date %q", got)
	}
	if entry.Type != domain.KindNewsAnalysis {
		t.Fatalf("unexpected type %q", entry.Type)
	}

	entries, err := history.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Input != "https://example.com/a" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if !entries[0].Date.Equal(entry.Date) {
		t.Fatalf("stored date %v != recorded %v", entries[0].Date, entry.Date)
	}
}

func TestHistoryService_UnknownUser(t *testing.T) {
	history := service.NewHistoryService(newTestUsers(t))

	_, err := history.Record(context.Background(), "nobody", domain.KindNewsAnalysis, domain.SourcePastedText, "x")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryService_EmptyHistory(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	auth := service.NewAuthService(users, testJWTSecret, 4)
	if _, err := auth.Register(ctx, "dave", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	entries, err := service.NewHistoryService(users).List(ctx, "dave")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d", len(entries))
	}
}
