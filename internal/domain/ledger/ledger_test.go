package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/klede-lab/waitlist/internal/domain/level"
	"github.com/klede-lab/waitlist/internal/domain/statistic"
	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, repos testutil.Repositories) *Ledger {
	table, err := level.NewTableFromCatalog(testutil.MockCatalog())
	require.NoError(t, err)

	return New(
		repos.Entry,
		repos.Task,
		level.NewEngine(table, repos.Entry),
		statistic.NewDBLeaderboard(repos.Entry),
	)
}

func createEntry(t *testing.T, ctx context.Context, repos testutil.Repositories, email, code string) *entity.WaitlistEntry {
	entry := &entity.WaitlistEntry{Email: email, ReferralCode: code, Level: 1}
	require.NoError(t, repos.Entry.Create(ctx, entry))
	return entry
}

func TestLedger_CompleteTask(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			l := newLedger(t, repos)
			createEntry(t, ctx, repos, "user@example.com", "AAAA0001")

			// social_share awards 75 points.
			result, err := l.CompleteTask(ctx, "user@example.com", 3, "")
			require.NoError(t, err)
			require.False(t, result.AlreadyCompleted)
			require.Equal(t, 75, result.Entry.Points)
			require.Equal(t, 1, result.Entry.Level)
			require.True(t, result.Entry.HasCompleted(3))
			require.False(t, result.LevelUp.LeveledUp)

			// Completing it again awards nothing.
			result, err = l.CompleteTask(ctx, "user@example.com", 3, "")
			require.NoError(t, err)
			require.True(t, result.AlreadyCompleted)
			require.Equal(t, 75, result.Entry.Points)

			// survey awards 50 points, 125 crosses level 2.
			result, err = l.CompleteTask(ctx, "user@example.com", 4, "")
			require.NoError(t, err)
			require.Equal(t, 125, result.Entry.Points)
			require.True(t, result.LevelUp.LeveledUp)
			require.Equal(t, 2, result.LevelUp.NewLevel)
			require.Equal(t, []string{"exclusive_preview"}, result.LevelUp.UnlockedRewards)

			stored, err := repos.Entry.GetByEmail(ctx, "user@example.com")
			require.NoError(t, err)
			require.Equal(t, 125, stored.Points)
			require.Equal(t, 2, stored.Level)
			require.Equal(t, []string{"exclusive_preview"}, []string(stored.UnlockedRewards))
			require.Equal(t, map[string]bool{"3": true, "4": true}, map[string]bool(stored.TaskCompletions))
		})
	}
}

func TestLedger_CompleteTask_NotFound(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			l := newLedger(t, repos)
			createEntry(t, ctx, repos, "user@example.com", "AAAA0001")

			_, err := l.CompleteTask(ctx, "unknown@example.com", 3, "")
			require.True(t, errorx.Is(err, errorx.NotFound))

			_, err = l.CompleteTask(ctx, "user@example.com", 999, "")
			require.True(t, errorx.Is(err, errorx.NotFound))
		})
	}
}

func TestLedger_CompleteTask_Inactive(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			l := newLedger(t, repos)
			createEntry(t, ctx, repos, "user@example.com", "AAAA0001")

			require.NoError(t, repos.Task.Create(ctx, &entity.Task{
				ID:            43,
				Name:          "Retired task",
				PointsAwarded: 10,
				Type:          entity.TaskTypeSocialShare,
				IsActive:      false,
			}))

			_, err := l.CompleteTask(ctx, "user@example.com", 43, "")
			require.True(t, errorx.Is(err, errorx.BadRequest))

			stored, err := repos.Entry.GetByEmail(ctx, "user@example.com")
			require.NoError(t, err)
			require.Zero(t, stored.Points)
			require.False(t, stored.HasCompleted(43))
		})
	}
}

func TestLedger_CompleteTask_ProofRequired(t *testing.T) {
	ctx := testutil.MockMemoryContext()
	repos := testutil.NewMemoryRepositories()
	testutil.CreateFixture(ctx, repos)
	l := newLedger(t, repos)
	createEntry(t, ctx, repos, "user@example.com", "AAAA0001")

	require.NoError(t, repos.Task.Create(ctx, &entity.Task{
		ID:            42,
		Name:          "Post a photo",
		PointsAwarded: 30,
		Type:          entity.TaskTypeSocialShare,
		Requirements:  map[string]any{"proof_required": true},
		IsActive:      true,
	}))

	_, err := l.CompleteTask(ctx, "user@example.com", 42, " ")
	require.True(t, errorx.Is(err, errorx.BadRequest))

	result, err := l.CompleteTask(ctx, "user@example.com", 42, "https://example.com/post/1")
	require.NoError(t, err)
	require.Equal(t, 30, result.Entry.Points)
}

func TestLedger_CompleteTask_Concurrent(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			l := newLedger(t, repos)
			createEntry(t, ctx, repos, "user@example.com", "AAAA0001")
			createEntry(t, ctx, repos, "other@example.com", "AAAA0002")

			wg := sync.WaitGroup{}
			errs := make(chan error, 20)
			for i := 0; i < 10; i++ {
				for _, email := range []string{"user@example.com", "other@example.com"} {
					wg.Add(1)
					go func(email string) {
						defer wg.Done()
						_, err := l.CompleteTask(ctx, email, 3, "")
						errs <- err
					}(email)
				}
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}

			for _, email := range []string{"user@example.com", "other@example.com"} {
				stored, err := repos.Entry.GetByEmail(ctx, email)
				require.NoError(t, err)
				require.Equal(t, 75, stored.Points)
				require.Equal(t, int64(1), stored.Version)
			}
		})
	}
}

func TestLedger_CompleteSignup(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			l := newLedger(t, repos)

			referrer := createEntry(t, ctx, repos, "referrer@example.com", "REF00001")
			result, err := l.CompleteSignup(ctx, referrer, nil)
			require.NoError(t, err)
			require.Equal(t, 50, result.Entry.Entry.Points)
			require.Nil(t, result.Referrer)

			first := createEntry(t, ctx, repos, "first@example.com", "REF00002")
			result, err = l.CompleteSignup(ctx, first, referrer)
			require.NoError(t, err)
			require.Equal(t, 50, result.Entry.Entry.Points)
			require.NotNil(t, result.Referrer)
			require.False(t, result.Referrer.AlreadyCompleted)
			require.Equal(t, 150, result.Referrer.Entry.Points)
			require.True(t, result.Referrer.LevelUp.LeveledUp)
			require.Equal(t, 2, result.Referrer.Entry.Level)

			// The referral task has a fixed id, so a referrer is credited by
			// its first referee only.
			second := createEntry(t, ctx, repos, "second@example.com", "REF00003")
			result, err = l.CompleteSignup(ctx, second, referrer)
			require.NoError(t, err)
			require.True(t, result.Referrer.AlreadyCompleted)
			require.Equal(t, 150, result.Referrer.Entry.Points)

			stored, err := repos.Entry.GetByEmail(ctx, "referrer@example.com")
			require.NoError(t, err)
			require.Equal(t, 150, stored.Points)
		})
	}
}
