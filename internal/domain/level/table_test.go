package level

import (
	"testing"

	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func threeLevels(t *testing.T) *Table {
	table, err := NewTable([]Threshold{
		{Level: 1, RequiredPoints: 0},
		{Level: 2, RequiredPoints: 100, Rewards: []string{"exclusive_preview"}},
		{Level: 3, RequiredPoints: 250, Rewards: []string{"5_percent_discount"}},
	})
	require.NoError(t, err)
	return table
}

func TestNewTable_Invalid(t *testing.T) {
	_, err := NewTable(nil)
	require.Error(t, err)

	_, err = NewTable([]Threshold{{Level: 1, RequiredPoints: 5}})
	require.Error(t, err)

	_, err = NewTable([]Threshold{{Level: 1}, {Level: 2, RequiredPoints: 100}, {Level: 3, RequiredPoints: 100}})
	require.Error(t, err)
}

func TestTable_LevelFor(t *testing.T) {
	table := threeLevels(t)

	require.Equal(t, 1, table.LevelFor(0))
	require.Equal(t, 1, table.LevelFor(99))
	require.Equal(t, 2, table.LevelFor(100))
	require.Equal(t, 2, table.LevelFor(249))
	require.Equal(t, 3, table.LevelFor(250))
	require.Equal(t, 3, table.LevelFor(100000))
}

func TestTable_CheckLevelUp(t *testing.T) {
	table := threeLevels(t)

	testCases := []struct {
		name     string
		level    int
		points   int
		unlocked []string
		want     Result
	}{
		{
			name:   "crosses level 2",
			level:  1,
			points: 110,
			want: Result{
				LeveledUp:       true,
				NewLevel:        2,
				UnlockedRewards: []string{"exclusive_preview"},
				AllRewards:      []string{"exclusive_preview"},
			},
		},
		{
			name:   "crosses two levels at once",
			level:  1,
			points: 300,
			want: Result{
				LeveledUp:       true,
				NewLevel:        3,
				UnlockedRewards: []string{"exclusive_preview", "5_percent_discount"},
				AllRewards:      []string{"exclusive_preview", "5_percent_discount"},
			},
		},
		{
			name:     "no change",
			level:    2,
			points:   150,
			unlocked: []string{"exclusive_preview"},
			want: Result{
				NewLevel:        2,
				UnlockedRewards: []string{},
				AllRewards:      []string{"exclusive_preview"},
			},
		},
		{
			name:     "never lowers the level",
			level:    3,
			points:   10,
			unlocked: []string{"exclusive_preview", "5_percent_discount"},
			want: Result{
				NewLevel:        3,
				UnlockedRewards: []string{},
				AllRewards:      []string{"exclusive_preview", "5_percent_discount"},
			},
		},
		{
			name:     "does not duplicate rewards",
			level:    1,
			points:   100,
			unlocked: []string{"exclusive_preview"},
			want: Result{
				LeveledUp:       true,
				NewLevel:        2,
				UnlockedRewards: []string{},
				AllRewards:      []string{"exclusive_preview"},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, table.CheckLevelUp(tt.level, tt.points, tt.unlocked))
		})
	}
}

func TestTable_CheckLevelUp_AddPoints(t *testing.T) {
	table := threeLevels(t)

	points := 90
	require.Equal(t, 1, table.LevelFor(points))

	points += 20
	result := table.CheckLevelUp(1, points, nil)
	require.True(t, result.LeveledUp)
	require.Equal(t, 2, result.NewLevel)
}

func TestTable_Progress(t *testing.T) {
	table := threeLevels(t)

	require.Equal(t, Progress{
		CurrentLevel:    2,
		CurrentPoints:   175,
		NextLevelPoints: 250,
		LevelProgress:   50,
		HasNext:         true,
	}, table.Progress(2, 175))

	require.Equal(t, 0, table.Progress(1, 0).LevelProgress)
	require.Equal(t, 100, table.Progress(1, 150).LevelProgress)
	require.Equal(t, 0, table.Progress(2, 50).LevelProgress)

	maxLevel := table.Progress(3, 1000)
	require.Equal(t, 100, maxLevel.LevelProgress)
	require.Equal(t, 0, maxLevel.NextLevelPoints)
	require.False(t, maxLevel.HasNext)
}

func TestNewTableFromCatalog(t *testing.T) {
	table, err := NewTableFromCatalog(testutil.MockCatalog())
	require.NoError(t, err)

	require.Len(t, table.Thresholds(), 5)
	require.Equal(t, 5, table.LevelFor(1000))
	require.Equal(t, 4, table.LevelFor(999))
}
