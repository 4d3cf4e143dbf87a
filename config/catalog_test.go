package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Default(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)

	require.Len(t, catalog.Levels, 5)
	require.Equal(t, 1000, catalog.Levels[4].RequiredPoints)
	require.Equal(t, []string{"early_access"}, catalog.Levels[4].Rewards)

	require.Len(t, catalog.Tasks, 5)
	require.Equal(t, "signup", catalog.Tasks[0].Type)
	require.Equal(t, 50, catalog.Tasks[0].PointsAwarded)
	require.Equal(t, "referral", catalog.Tasks[1].Type)
	require.Equal(t, 100, catalog.Tasks[1].PointsAwarded)

	require.Len(t, catalog.Rewards, 4)
	require.Equal(t, "KLEDE5", catalog.Rewards[1].Value)
}

func TestParseCatalog_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{
			name: "no levels",
			data: ``,
		},
		{
			name: "first level is not zero",
			data: `
[[levels]]
level = 1
required_points = 10
`,
		},
		{
			name: "not increasing",
			data: `
[[levels]]
level = 1
required_points = 0

[[levels]]
level = 2
required_points = 0
`,
		},
		{
			name: "duplicated task",
			data: `
[[levels]]
level = 1
required_points = 0

[[tasks]]
id = 1
points_awarded = 10

[[tasks]]
id = 1
points_awarded = 20
`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			require.Error(t, err)
		})
	}
}
