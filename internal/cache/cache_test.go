package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

type entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, time.Minute, logging.Default()), mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "patients:p1", entity{ID: "p1", Name: "Ahmed"})

	var got entity
	require.True(t, c.Get(ctx, "patients:p1", &got))
	assert.Equal(t, "Ahmed", got.Name)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got entity
	assert.False(t, c.Get(context.Background(), "patients:absent", &got))
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "patients:all", []entity{{ID: "p1"}})
	c.Set(ctx, "patients:p1", entity{ID: "p1"})
	c.Invalidate(ctx, "patients:all", "patients:p1")

	var list []entity
	assert.False(t, c.Get(ctx, "patients:all", &list))
	var one entity
	assert.False(t, c.Get(ctx, "patients:p1", &one))
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "services:all", []entity{{ID: "s1"}})
	mr.FastForward(2 * time.Minute)

	var list []entity
	assert.False(t, c.Get(ctx, "services:all", &list))
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.Set(ctx, "k", entity{})
	c.Invalidate(ctx, "k")
	var got entity
	assert.False(t, c.Get(ctx, "k", &got))
	assert.NoError(t, c.Close())
}

func TestDisabledWhenNoAddr(t *testing.T) {
	assert.Nil(t, New("", "", false, time.Minute, logging.Default()))
}

func TestUnreachableRedisDegrades(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k", entity{ID: "x"})
	mr.Close()

	var got entity
	assert.False(t, c.Get(ctx, "k", &got), "read failures degrade to a miss")
	c.Set(ctx, "k2", entity{}) // write failures only log
}
