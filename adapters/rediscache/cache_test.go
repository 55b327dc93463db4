package rediscache

import (
	"context"
	"testing"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/errors"
	"luckystat/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable returns a client pointed at a closed local port
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "luckystat:results:2025-W2870", Key("2025-W2870"))
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "http://not-redis", time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestOpenReportsUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Open(ctx, "redis://127.0.0.1:1/0", time.Minute)
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestOperationsSurfaceConnectionErrors(t *testing.T) {
	cache := New(unreachable(), time.Minute)
	defer cache.Close()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "2025-W2870")
	assert.False(t, ok)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))

	at := time.Date(2025, 1, 2, 16, 30, 0, 0, week.Zone)
	id := week.Current(at)
	rec := models.NewResultRecord(id, week.SeedFor(id), lotto.ResultSet{}, nil, at)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(cache.Set(ctx, rec)))
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(cache.Invalidate(ctx, id.Key())))
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(cache.Ping(ctx)))
}
