package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/rolodex-app/rolodex/testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestBirthdayCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	day := date(2026, time.June, 10)

	_, ok := cache.GetBirthdays(ctx, 1, day)
	require.False(t, ok)

	list := []Contact{birthdayContact(4, date(1990, time.June, 12))}
	require.NoError(t, cache.SetBirthdays(ctx, 1, day, list))

	got, ok := cache.GetBirthdays(ctx, 1, day)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)

	// Another owner or day is a separate entry.
	_, ok = cache.GetBirthdays(ctx, 2, day)
	assert.False(t, ok)
	_, ok = cache.GetBirthdays(ctx, 1, day.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestBirthdayCacheInvalidateScopedToOwner(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	day := date(2026, time.June, 10)

	require.NoError(t, cache.SetBirthdays(ctx, 1, day, []Contact{}))
	require.NoError(t, cache.SetBirthdays(ctx, 1, day.AddDate(0, 0, 1), []Contact{}))
	require.NoError(t, cache.SetBirthdays(ctx, 2, day, []Contact{}))

	require.NoError(t, cache.Invalidate(ctx, 1))

	_, ok := cache.GetBirthdays(ctx, 1, day)
	assert.False(t, ok)
	_, ok = cache.GetBirthdays(ctx, 1, day.AddDate(0, 0, 1))
	assert.False(t, ok)
	_, ok = cache.GetBirthdays(ctx, 2, day)
	assert.True(t, ok)
}

func TestBirthdayCacheNilIsNoOp(t *testing.T) {
	ctx := context.Background()
	var cache *Cache
	day := date(2026, time.June, 10)

	_, ok := cache.GetBirthdays(ctx, 1, day)
	assert.False(t, ok)
	assert.NoError(t, cache.SetBirthdays(ctx, 1, day, nil))
	assert.NoError(t, cache.Invalidate(ctx, 1))
}

func TestUpcomingBirthdaysCachesPerDay(t *testing.T) {
	repo := newMockContactRepo()
	cache := newTestCache(t)
	svc := NewService(repo, cache, 7, nil)
	ctx := context.Background()
	now := date(2026, time.June, 10)

	soon := date(1990, time.June, 12)
	created, err := svc.Create(ctx, 1, NewContact{FirstName: "soon", Birthday: &soon})
	require.NoError(t, err)

	first, err := svc.UpcomingBirthdays(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Served from the cache even after the backing record disappears.
	delete(repo.byID, created.ID)
	second, err := svc.UpcomingBirthdays(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, second, 1)

	// A write invalidates the owner's cached windows.
	_, err = svc.Create(ctx, 1, NewContact{FirstName: "other"})
	require.NoError(t, err)
	third, err := svc.UpcomingBirthdays(ctx, 1, now)
	require.NoError(t, err)
	assert.Empty(t, third)
}
