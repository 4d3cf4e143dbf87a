package level

import (
	"testing"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestEngine_CheckLevelUp(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			engine := NewEngine(threeLevels(t), repos.Entry)

			entry := &entity.WaitlistEntry{
				Email:        "user@example.com",
				ReferralCode: "ABCDEF12",
				Level:        1,
				Points:       260,
			}
			require.NoError(t, repos.Entry.Create(ctx, entry))

			updated, result, err := engine.CheckLevelUp(ctx, "user@example.com")
			require.NoError(t, err)
			require.True(t, result.LeveledUp)
			require.Equal(t, 3, result.NewLevel)
			require.Equal(t, 3, updated.Level)

			stored, err := repos.Entry.GetByEmail(ctx, "user@example.com")
			require.NoError(t, err)
			require.Equal(t, 3, stored.Level)
			require.Equal(t, []string{"exclusive_preview", "5_percent_discount"}, []string(stored.UnlockedRewards))

			// A second check is a no-op.
			_, result, err = engine.CheckLevelUp(ctx, "user@example.com")
			require.NoError(t, err)
			require.False(t, result.LeveledUp)

			_, _, err = engine.CheckLevelUp(ctx, "unknown@example.com")
			require.True(t, errorx.Is(err, errorx.NotFound))
		})
	}
}

func TestEngine_Recheck(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			engine := NewEngine(threeLevels(t), repos.Entry)

			for _, entry := range []*entity.WaitlistEntry{
				{Email: "a@example.com", ReferralCode: "AAAAAAAA", Level: 1, Points: 50},
				{Email: "b@example.com", ReferralCode: "BBBBBBBB", Level: 1, Points: 120},
				{Email: "c@example.com", ReferralCode: "CCCCCCCC", Level: 1, Points: 300},
			} {
				require.NoError(t, repos.Entry.Create(ctx, entry))
			}

			count, err := engine.Recheck(ctx)
			require.NoError(t, err)
			require.Equal(t, 2, count)

			levels := map[string]int{}
			entries, err := repos.Entry.GetList(ctx)
			require.NoError(t, err)
			for _, entry := range entries {
				levels[entry.Email] = entry.Level
			}
			require.Equal(t, map[string]int{"a@example.com": 1, "b@example.com": 2, "c@example.com": 3}, levels)

			count, err = engine.Recheck(ctx)
			require.NoError(t, err)
			require.Zero(t, count)
		})
	}
}
