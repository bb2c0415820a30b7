package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores computed birthday windows per owner. A nil Cache (or nil
// client) is a no-op, so the service works without Redis in tests.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func birthdayKey(ownerID int64, day time.Time) string {
	return fmt.Sprintf("contacts:birthdays:%d:%s", ownerID, day.Format("2006-01-02"))
}

// GetBirthdays returns the cached window for the owner and day, or false on
// a miss. Cache errors degrade to a miss.
func (c *Cache) GetBirthdays(ctx context.Context, ownerID int64, day time.Time) ([]Contact, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, birthdayKey(ownerID, day)).Bytes()
	if err != nil {
		return nil, false
	}
	var out []Contact
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// SetBirthdays stores the computed window for the owner and day.
func (c *Cache) SetBirthdays(ctx context.Context, ownerID int64, day time.Time, list []Contact) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, birthdayKey(ownerID, day), raw, c.ttl).Err()
}

// Invalidate drops every cached window for the owner. Called on any contact
// write so stale windows never outlive an edit.
func (c *Cache) Invalidate(ctx context.Context, ownerID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	pattern := fmt.Sprintf("contacts:birthdays:%d:*", ownerID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
