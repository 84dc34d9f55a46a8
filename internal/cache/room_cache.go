package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoomMeta is the externally visible record of a live room.
type RoomMeta struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	LastRound int       `json:"lastRound"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomCache handles Redis operations for room metadata
type RoomCache interface {
	SetMeta(ctx context.Context, code string, meta *RoomMeta) error
	GetMeta(ctx context.Context, code string) (*RoomMeta, error)
	SetRound(ctx context.Context, code string, round int, at time.Time) error
	Delete(ctx context.Context, code string) error
}

type roomCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoomCache creates a new room cache
func NewRoomCache(client *redis.Client) RoomCache {
	return &roomCache{
		client: client,
		ttl:    24 * time.Hour, // Rooms expire after 24h
	}
}

func (c *roomCache) key(code string) string {
	return fmt.Sprintf("room:%s", code)
}

func (c *roomCache) SetMeta(ctx context.Context, code string, meta *RoomMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(code), data, c.ttl).Err()
}

func (c *roomCache) GetMeta(ctx context.Context, code string) (*RoomMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta RoomMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *roomCache) SetRound(ctx context.Context, code string, round int, at time.Time) error {
	meta, err := c.GetMeta(ctx, code)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("room %s not found", code)
	}
	meta.LastRound = round
	meta.UpdatedAt = at
	return c.SetMeta(ctx, code, meta)
}

func (c *roomCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
