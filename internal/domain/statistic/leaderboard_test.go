package statistic

import (
	"fmt"
	"testing"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_Top(t *testing.T) {
	ctx := testutil.MockMemoryContext()
	repos := testutil.NewMemoryRepositories()

	for i := 0; i < 5; i++ {
		require.NoError(t, repos.Entry.Create(ctx, &entity.WaitlistEntry{
			Email:        fmt.Sprintf("user%d@example.com", i),
			ReferralCode: fmt.Sprintf("CODE%d", i),
			Level:        1,
			Points:       i * 10,
		}))
	}

	redisClient := testutil.NewFakeRedisClient()
	boards := map[string]Leaderboard{
		"db":    NewDBLeaderboard(repos.Entry),
		"redis": NewRedisLeaderboard(repos.Entry, redisClient),
	}

	for name, board := range boards {
		t.Run(name, func(t *testing.T) {
			top, err := board.Top(ctx, 3)
			require.NoError(t, err)
			require.Len(t, top, 3)
			require.Equal(t, "user4@example.com", top[0].Email)
			require.Equal(t, "user3@example.com", top[1].Email)
			require.Equal(t, "user2@example.com", top[2].Email)
		})
	}
}

func TestRedisLeaderboard_IncreaseAndRemove(t *testing.T) {
	ctx := testutil.MockMemoryContext()
	repos := testutil.NewMemoryRepositories()

	a := &entity.WaitlistEntry{Email: "a@example.com", ReferralCode: "A", Level: 1, Points: 50}
	b := &entity.WaitlistEntry{Email: "b@example.com", ReferralCode: "B", Level: 1, Points: 100}
	require.NoError(t, repos.Entry.Create(ctx, a))
	require.NoError(t, repos.Entry.Create(ctx, b))

	redisClient := testutil.NewFakeRedisClient()
	board := NewRedisLeaderboard(repos.Entry, redisClient)

	// Increase before the set is loaded does nothing.
	require.NoError(t, board.Increase(ctx, a.ID, 1000))
	ok, err := redisClient.Exist(ctx, leaderboardKey)
	require.NoError(t, err)
	require.False(t, ok)

	top, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b@example.com", "a@example.com"}, emails(top))

	require.NoError(t, board.Increase(ctx, a.ID, 100))
	top, err = board.Top(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, emails(top))

	require.NoError(t, board.Remove(ctx, a.ID))
	top, err = board.Top(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b@example.com"}, emails(top))

	// The reloaded set reflects the store again.
	require.NoError(t, board.Invalidate(ctx))
	ok, err = redisClient.Exist(ctx, leaderboardKey)
	require.NoError(t, err)
	require.False(t, ok)

	top, err = board.Top(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b@example.com", "a@example.com"}, emails(top))
}

func emails(entries []entity.WaitlistEntry) []string {
	result := []string{}
	for _, e := range entries {
		result = append(result, e.Email)
	}
	return result
}
