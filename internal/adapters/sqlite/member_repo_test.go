package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/frontdesk/internal/adapters/sqlite"
	"github.com/example/frontdesk/internal/ports/secondary"
)

func TestMemberRepository(t *testing.T) {
	conn := setupTestDB(t)
	clock := newTestClock()
	repo := sqlite.NewMemberRepository(conn, clock.Now)
	ctx := context.Background()

	t.Run("unknown number is not a member", func(t *testing.T) {
		got, err := repo.GetByPhone(ctx, "5551234567")
		if err != nil {
			t.Fatalf("GetByPhone failed: %v", err)
		}
		if got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})

	t.Run("creates member", func(t *testing.T) {
		created, err := repo.Create(ctx, "5551234567")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected generated ID")
		}

		got, err := repo.GetByPhone(ctx, "5551234567")
		if err != nil {
			t.Fatalf("GetByPhone failed: %v", err)
		}
		if got == nil || got.CreatedAt != created.CreatedAt {
			t.Errorf("GetByPhone = %+v, want %+v", got, created)
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := repo.Create(ctx, "5551234567")
		if !errors.Is(err, secondary.ErrMemberExists) {
			t.Errorf("err = %v, want ErrMemberExists", err)
		}
	})
}
