package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var defaultCatalog []byte

type Catalog struct {
	Levels  []LevelDefinition  `toml:"levels"`
	Tasks   []TaskDefinition   `toml:"tasks"`
	Rewards []RewardDefinition `toml:"rewards"`
}

type LevelDefinition struct {
	Level          int      `toml:"level"`
	RequiredPoints int      `toml:"required_points"`
	Rewards        []string `toml:"rewards"`
}

type TaskDefinition struct {
	ID            int            `toml:"id"`
	Name          string         `toml:"name"`
	Description   string         `toml:"description"`
	PointsAwarded int            `toml:"points_awarded"`
	Type          string         `toml:"type"`
	Requirements  map[string]any `toml:"requirements"`
	Inactive      bool           `toml:"inactive"`
}

type RewardDefinition struct {
	Name           string `toml:"name"`
	Description    string `toml:"description"`
	RequiredLevel  int    `toml:"required_level"`
	RequiredPoints int    `toml:"required_points"`
	Type           string `toml:"type"`
	Value          string `toml:"value"`
	Inactive       bool   `toml:"inactive"`
}

// LoadCatalog decodes the catalog at path, or the embedded default catalog
// if path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if _, err := toml.Decode(string(data), &catalog); err != nil {
		return nil, err
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("catalog has no levels")
	}

	if c.Levels[0].Level != 1 || c.Levels[0].RequiredPoints != 0 {
		return fmt.Errorf("the first level must be level 1 at 0 points")
	}

	for i := 1; i < len(c.Levels); i++ {
		prev, cur := c.Levels[i-1], c.Levels[i]
		if cur.Level <= prev.Level || cur.RequiredPoints <= prev.RequiredPoints {
			return fmt.Errorf("level %d is not strictly greater than level %d", cur.Level, prev.Level)
		}
	}

	taskIDs := map[int]bool{}
	for _, t := range c.Tasks {
		if t.ID <= 0 {
			return fmt.Errorf("task %q has an invalid id", t.Name)
		}

		if taskIDs[t.ID] {
			return fmt.Errorf("duplicated task id %d", t.ID)
		}
		taskIDs[t.ID] = true

		if t.PointsAwarded <= 0 {
			return fmt.Errorf("task %d must award a positive number of points", t.ID)
		}
	}

	return nil
}
