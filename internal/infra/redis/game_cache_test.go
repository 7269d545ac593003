package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"millionenspiel-service/internal/domain"
	"millionenspiel-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestGameCacheHitsRedisOnSecondLoad(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := memory.NewStore()
	id, err := store.CreateGame(context.Background(), domain.Game{Title: "Testspiel", Topic: "Thema"})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}

	loader := &countingLoader{loader: store}
	cache := NewGameCache(newClient(mr), loader, time.Minute)

	game, err := cache.GetGame(context.Background(), id)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.Title != "Testspiel" {
		t.Fatalf("wrong game: %+v", game)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call is served from Redis.
	if _, err := cache.GetGame(context.Background(), id); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	// Expiry falls back to the loader again.
	mr.FastForward(2 * time.Minute)
	if _, err := cache.GetGame(context.Background(), id); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected loader refetch, calls=%d", loader.calls)
	}
}

func TestGameCachePropagatesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewGameCache(newClient(mr), memory.NewStore(), time.Minute)
	if _, err := cache.GetGame(context.Background(), "missing"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

type countingLoader struct {
	loader GameLoader
	calls  int
}

func (l *countingLoader) GetGame(ctx context.Context, id string) (domain.Game, error) {
	l.calls++
	return l.loader.GetGame(ctx, id)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
