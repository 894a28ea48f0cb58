package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zepome/news-discord-bot/internal/cache"
	"github.com/zepome/news-discord-bot/internal/news"
)

func TestKeyIsStableAndSensitive(t *testing.T) {
	k1 := cache.Key("首相が会見", "官邸で記者会見を開いた")
	k2 := cache.Key("首相が会見", "官邸で記者会見を開いた")
	k3 := cache.Key("首相が会見", "別の本文")

	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.Len(t, k1, 64)
}

func TestSetGet(t *testing.T) {
	c := cache.New(time.Hour)
	key := cache.Key("増税法案", "")

	_, hit := c.Get(key)
	require.False(t, hit)

	c.Set(key, news.Assessment{Score: 85, Reason: "政策決定"})

	got, hit := c.Get(key)
	require.True(t, hit)
	require.Equal(t, 85, got.Score)
	require.Equal(t, "政策決定", got.Reason)
	require.Equal(t, 1, c.Len())
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := cache.New(time.Millisecond)
	key := cache.Key("国会審議", "")
	c.Set(key, news.Assessment{Score: 75})

	time.Sleep(5 * time.Millisecond)

	_, hit := c.Get(key)
	require.False(t, hit)
	require.Equal(t, 0, c.Len())
}
