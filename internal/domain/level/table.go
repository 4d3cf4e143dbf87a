package level

import (
	"fmt"
	"math"

	"github.com/klede-lab/waitlist/config"
	"golang.org/x/exp/slices"
)

type Threshold struct {
	Level          int
	RequiredPoints int
	Rewards        []string
}

// Table is an ordered list of thresholds, strictly increasing in both level
// and required points, starting at level 1 with 0 points.
type Table struct {
	thresholds []Threshold
}

func NewTable(thresholds []Threshold) (*Table, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("no threshold")
	}

	if thresholds[0].Level != 1 || thresholds[0].RequiredPoints != 0 {
		return nil, fmt.Errorf("the first threshold must be level 1 at 0 points")
	}

	for i := 1; i < len(thresholds); i++ {
		if thresholds[i].Level <= thresholds[i-1].Level ||
			thresholds[i].RequiredPoints <= thresholds[i-1].RequiredPoints {
			return nil, fmt.Errorf("threshold of level %d is not increasing", thresholds[i].Level)
		}
	}

	copied := make([]Threshold, len(thresholds))
	for i, t := range thresholds {
		copied[i] = Threshold{
			Level:          t.Level,
			RequiredPoints: t.RequiredPoints,
			Rewards:        append([]string{}, t.Rewards...),
		}
	}

	return &Table{thresholds: copied}, nil
}

func NewTableFromCatalog(catalog *config.Catalog) (*Table, error) {
	thresholds := []Threshold{}
	for _, l := range catalog.Levels {
		thresholds = append(thresholds, Threshold{
			Level:          l.Level,
			RequiredPoints: l.RequiredPoints,
			Rewards:        l.Rewards,
		})
	}

	return NewTable(thresholds)
}

func (t *Table) Thresholds() []Threshold {
	result := make([]Threshold, len(t.thresholds))
	for i, threshold := range t.thresholds {
		result[i] = Threshold{
			Level:          threshold.Level,
			RequiredPoints: threshold.RequiredPoints,
			Rewards:        append([]string{}, threshold.Rewards...),
		}
	}

	return result
}

func (t *Table) threshold(level int) (Threshold, bool) {
	for _, threshold := range t.thresholds {
		if threshold.Level == level {
			return threshold, true
		}
	}

	return Threshold{}, false
}

// LevelFor returns the highest level whose required points are reached.
func (t *Table) LevelFor(points int) int {
	level := t.thresholds[0].Level
	for _, threshold := range t.thresholds {
		if points < threshold.RequiredPoints {
			break
		}
		level = threshold.Level
	}

	return level
}

type Result struct {
	LeveledUp bool
	NewLevel  int

	// UnlockedRewards contains only the rewards unlocked by this check.
	UnlockedRewards []string

	// AllRewards is the unlocked list extended with UnlockedRewards.
	AllRewards []string
}

// CheckLevelUp computes the level reached with points. The level is never
// lowered and rewards are never removed.
func (t *Table) CheckLevelUp(currentLevel, points int, unlocked []string) Result {
	result := Result{
		NewLevel:        currentLevel,
		UnlockedRewards: []string{},
		AllRewards:      append([]string{}, unlocked...),
	}

	for _, threshold := range t.thresholds {
		if points < threshold.RequiredPoints {
			break
		}

		if threshold.Level <= result.NewLevel {
			continue
		}

		result.LeveledUp = true
		result.NewLevel = threshold.Level
		for _, reward := range threshold.Rewards {
			if !slices.Contains(result.AllRewards, reward) {
				result.AllRewards = append(result.AllRewards, reward)
				result.UnlockedRewards = append(result.UnlockedRewards, reward)
			}
		}
	}

	return result
}

type Progress struct {
	CurrentLevel    int
	CurrentPoints   int
	NextLevelPoints int
	LevelProgress   int
	HasNext         bool
}

// Progress returns how far the points are between the current level and the
// next one, as a percentage in [0, 100]. At the maximum level the progress is
// 100 and NextLevelPoints is 0.
func (t *Table) Progress(level, points int) Progress {
	progress := Progress{
		CurrentLevel:  level,
		CurrentPoints: points,
		LevelProgress: 100,
	}

	next, ok := t.threshold(level + 1)
	if !ok {
		return progress
	}

	prevPoints := 0
	if current, ok := t.threshold(level); ok {
		prevPoints = current.RequiredPoints
	}

	progress.HasNext = true
	progress.NextLevelPoints = next.RequiredPoints

	percent := math.Round(100 * float64(points-prevPoints) / float64(next.RequiredPoints-prevPoints))
	progress.LevelProgress = int(math.Max(0, math.Min(100, percent)))
	return progress
}
