package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizroom/internal/model"
)

// LeaderboardCache mirrors room standings into Redis ZSETs for read-only consumers.
type LeaderboardCache interface {
	Record(ctx context.Context, roomCode string, standings []model.PlayerResult) error
	GetTop(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, roomCode, playerID string) (int64, error)
	Clear(ctx context.Context, roomCode string) error
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *leaderboardCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:lb", roomCode)
}

func (c *leaderboardCache) namesKey(roomCode string) string {
	return fmt.Sprintf("room:%s:names", roomCode)
}

// Record overwrites every player's score and display name in one pipeline.
func (c *leaderboardCache) Record(ctx context.Context, roomCode string, standings []model.PlayerResult) error {
	if len(standings) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(standings))
	names := make(map[string]interface{}, len(standings))
	for _, r := range standings {
		members = append(members, redis.Z{Score: float64(r.Score), Member: r.ID})
		names[r.ID] = r.Name
	}

	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, c.key(roomCode), members...)
	pipe.HSet(ctx, c.namesKey(roomCode), names)
	pipe.Expire(ctx, c.key(roomCode), c.ttl)
	pipe.Expire(ctx, c.namesKey(roomCode), c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *leaderboardCache) GetTop(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(results))
	for i, z := range results {
		ids[i] = z.Member.(string)
	}
	names, err := c.client.HMGet(ctx, c.namesKey(roomCode), ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			PlayerID: ids[i],
			Score:    int(z.Score),
			Rank:     i + 1,
		}
		if name, ok := names[i].(string); ok {
			entries[i].Name = name
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, roomCode, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(roomCode), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leaderboardCache) Clear(ctx context.Context, roomCode string) error {
	return c.client.Del(ctx, c.key(roomCode), c.namesKey(roomCode)).Err()
}
