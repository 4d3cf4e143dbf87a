package referral

import (
	"testing"
	"time"

	"github.com/klede-lab/waitlist/internal/entity"
	"github.com/klede-lab/waitlist/pkg/errorx"
	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	code := GenerateCode("user@example.com", now)
	require.Len(t, code, 8)
	require.Regexp(t, "^[0-9A-F]{8}$", code)

	require.Equal(t, code, GenerateCode("user@example.com", now))
	require.NotEqual(t, code, GenerateCode("user@example.com", now.Add(time.Millisecond)))
	require.NotEqual(t, code, GenerateCode("other@example.com", now))
}

func TestResolver_Resolve(t *testing.T) {
	for _, tc := range testutil.StoreCases() {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, repos := tc.Setup()
			resolver := NewResolver(repos.Entry)

			require.NoError(t, repos.Entry.Create(ctx, &entity.WaitlistEntry{
				Email:        "referrer@example.com",
				Name:         "Referrer",
				ReferralCode: "CAFEBABE",
				Level:        1,
			}))

			entry, err := resolver.Resolve(ctx, "CAFEBABE")
			require.NoError(t, err)
			require.Equal(t, "referrer@example.com", entry.Email)

			_, err = resolver.Resolve(ctx, "DEADBEEF")
			require.True(t, errorx.Is(err, errorx.NotFound))

			_, err = resolver.Resolve(ctx, "")
			require.True(t, errorx.Is(err, errorx.NotFound))
		})
	}
}

func TestResolver_NewCode_Collision(t *testing.T) {
	ctx := testutil.MockMemoryContext()
	repos := testutil.NewMemoryRepositories()

	now := time.UnixMilli(1700000000000)
	resolver := NewResolver(repos.Entry)
	resolver.now = func() time.Time { return now }

	taken := GenerateCode("user@example.com", now)
	require.NoError(t, repos.Entry.Create(ctx, &entity.WaitlistEntry{
		Email:        "someone@example.com",
		ReferralCode: taken,
		Level:        1,
	}))

	code, err := resolver.NewCode(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotEqual(t, taken, code)
	require.Equal(t, GenerateCode("user@example.com", now.Add(time.Millisecond)), code)
}
