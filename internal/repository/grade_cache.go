package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursehub_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// GradeCache keeps computed grade snapshots in redis so dashboard and
// certificate checks do not recompute aggregates on every request. Every
// submission mutation invalidates the (user, course) entry.
type GradeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewGradeCache(client *redis.Client) *GradeCache {
	return &GradeCache{Client: client, TTL: 10 * time.Minute}
}

func (c *GradeCache) key(userID, courseID uint) string {
	return fmt.Sprintf("grade:%d:%d", userID, courseID)
}

func (c *GradeCache) Get(userID, courseID uint) (*model.GradeSnapshot, bool) {
	if c.Client == nil {
		return nil, false
	}
	data, err := c.Client.Get(context.Background(), c.key(userID, courseID)).Bytes()
	if err != nil {
		return nil, false
	}
	var snap model.GradeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func (c *GradeCache) Set(userID, courseID uint, snap *model.GradeSnapshot) {
	if c.Client == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	c.Client.Set(context.Background(), c.key(userID, courseID), data, c.TTL)
}

func (c *GradeCache) Invalidate(userID, courseID uint) {
	if c.Client == nil {
		return
	}
	c.Client.Del(context.Background(), c.key(userID, courseID))
}
