package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			}
		})
	}
}

func TestClient_GetSet(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	err := client.Set(ctx, "test:key1", "value1", time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)

	ttl := mr.TTL("test:key1")
	assert.Greater(t, ttl, time.Duration(0))

	// Missing key returns an error
	_, err = client.Get(ctx, "test:missing")
	assert.Error(t, err)
}

func TestClient_SetNX(t *testing.T) {
	_, client := setupTestRedis(t)

	ctx := context.Background()

	ok, err := client.SetNX(ctx, "test:guard", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "first SetNX should acquire")

	ok, err = client.SetNX(ctx, "test:guard", "1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second SetNX should be rejected")
}

func TestClient_Exists(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	mr.Set("test:exists1", "value1")
	mr.Set("test:exists2", "value2")

	tests := []struct {
		name          string
		keys          []string
		expectedCount int64
	}{
		{
			name:          "single existing key",
			keys:          []string{"test:exists1"},
			expectedCount: 1,
		},
		{
			name:          "multiple existing keys",
			keys:          []string{"test:exists1", "test:exists2"},
			expectedCount: 2,
		},
		{
			name:          "non-existent key",
			keys:          []string{"test:nonexistent"},
			expectedCount: 0,
		},
		{
			name:          "mixed existing and non-existent",
			keys:          []string{"test:exists1", "test:nonexistent"},
			expectedCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := client.Exists(ctx, tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, count)
		})
	}
}

func TestClient_Delete(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	mr.Set("test:key1", "value1")
	mr.Set("test:key2", "value2")

	err := client.Delete(ctx, "test:key1", "test:key2", "test:nonexistent")
	require.NoError(t, err)

	for _, key := range []string{"test:key1", "test:key2"} {
		val, _ := mr.Get(key)
		assert.Empty(t, val)
	}
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)

	ctx := context.Background()

	err := client.Health(ctx)
	assert.NoError(t, err)

	mr.Close()
	err = client.Health(ctx)
	assert.Error(t, err)
}

func TestKeyBuilder(t *testing.T) {
	kb := NewKeyBuilder("test")
	assert.Equal(t, "staging", kb.GetPrefix())

	assert.Equal(t, "staging:entry:receipt:REC001:seen", kb.KeyReceiptSeen("REC001"))
	assert.Equal(t, "staging:entry:winners", kb.KeyWinnerList())
	assert.Equal(t, "staging:entry:idem:REC001", kb.KeyIdempotency("REC001"))

	prod := NewKeyBuilder("production")
	assert.Equal(t, "prod", prod.GetPrefix())
	assert.Equal(t, "prod:entry:winners", prod.KeyWinnerList())
}
