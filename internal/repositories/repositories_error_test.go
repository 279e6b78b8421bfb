package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
	tu "github.com/desertthunder/ncmx/internal/testing"
)

func TestKVRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyKey", func(t *testing.T) {
		repo := NewKVRepository(tu.MemoryDB(t))
		if err := repo.Set(ctx, "", "v"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UnencodableValue", func(t *testing.T) {
		repo := NewKVRepository(tu.MemoryDB(t))
		if err := repo.Set(ctx, "ch", make(chan int)); err == nil {
			t.Error("expected encode error for a channel")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewKVRepository(tu.MemoryDB(t))
		var v string
		if err := repo.Get(ctx, "missing", &v); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
		if err := repo.Delete(ctx, "missing"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound on delete, got %v", err)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		repo := NewKVRepository(tu.MemoryDB(t))
		repo.Set(ctx, "k", "text")
		var n []int
		if err := repo.Get(ctx, "k", &n); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := tu.MemoryDB(t)
		repo := NewKVRepository(db)
		db.Close()

		if err := repo.Set(ctx, "k", 1); err == nil {
			t.Error("expected Set to fail on a closed database")
		}
		if _, err := repo.Keys(ctx); err == nil {
			t.Error("expected Keys to fail on a closed database")
		}
	})
}

func TestLoginHistoryRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidationError", func(t *testing.T) {
		repo := NewLoginHistoryRepository(tu.MemoryDB(t))
		if err := repo.Create(ctx, models.NewLoginRecord("", models.Profile{})); err == nil {
			t.Fatal("expected validation error for empty username")
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := tu.MemoryDB(t)
		repo := NewLoginHistoryRepository(db)
		db.Close()

		if _, err := repo.List(ctx, 5); err == nil {
			t.Error("expected List to fail on a closed database")
		}
	})
}

func TestSessionCacheAdapterErrors(t *testing.T) {
	db := tu.MemoryDB(t)
	adapter := NewSessionCacheAdapter(db)
	db.Close()

	if err := adapter.SaveSession(context.Background(), "user", models.Profile{}, "c=1"); err == nil {
		t.Error("expected SaveSession to fail on a closed database")
	}
	if _, err := adapter.Restore(context.Background(), nil); err == nil {
		t.Error("expected Restore to fail on a closed database")
	}
}
