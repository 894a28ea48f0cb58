package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zepome/news-discord-bot/internal/ratelimit"
)

func TestBudgetExhaustion(t *testing.T) {
	b := ratelimit.NewBudget(3)

	for i := 0; i < 3; i++ {
		require.True(t, b.Allow(), "request %d should fit the budget", i+1)
	}
	require.False(t, b.Allow())
	require.False(t, b.Allow(), "denied requests must not consume budget")

	require.Equal(t, 3, b.Used())
	require.Equal(t, 0, b.Remaining())
	require.Equal(t, "3/3", b.String())
}

func TestBudgetUnlimited(t *testing.T) {
	b := ratelimit.NewBudget(0)

	for i := 0; i < 100; i++ {
		require.True(t, b.Allow())
	}
	require.Equal(t, 100, b.Used())
	require.Equal(t, -1, b.Remaining())
	require.Equal(t, "100/unlimited", b.String())
}
