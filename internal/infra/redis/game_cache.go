// Package redis caches game documents in front of the record store for the
// play path, where the same game is loaded once per session.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"millionenspiel-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// GameLoader fetches a game from the backing store on cache miss.
type GameLoader interface {
	GetGame(ctx context.Context, id string) (domain.Game, error)
}

// GameCache stores the full game JSON under game:{id} with a jittered TTL.
// Cache write failures are ignored; the loader result is authoritative.
type GameCache struct {
	client *redis.Client
	loader GameLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewGameCache(client *redis.Client, loader GameLoader, ttl time.Duration) *GameCache {
	return &GameCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *GameCache) GetGame(ctx context.Context, id string) (domain.Game, error) {
	if game, ok := c.cached(ctx, id); ok {
		return game, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if game, ok := c.cached(ctx, id); ok {
			return game, nil
		}

		game, err := c.loader.GetGame(ctx, id)
		if err != nil {
			return domain.Game{}, err
		}

		if raw, err := json.Marshal(game); err == nil {
			_ = c.client.Set(ctx, c.key(id), raw, c.ttlWithJitter()).Err()
		}
		return game, nil
	})
	if err != nil {
		return domain.Game{}, err
	}
	return result.(domain.Game), nil
}

func (c *GameCache) cached(ctx context.Context, id string) (domain.Game, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return domain.Game{}, false
	}
	var game domain.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return domain.Game{}, false
	}
	return game, true
}

func (c *GameCache) key(id string) string {
	return fmt.Sprintf("game:%s", id)
}

func (c *GameCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
