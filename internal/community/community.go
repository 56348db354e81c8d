// Package community loads the static shared-grids feed.
package community

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifeweeks/lifeweeks/internal/model"
)

// Feed models the on-disk community.yaml schema.
type Feed struct {
	Grids []model.CommunityGrid `yaml:"grids"`
}

// Load reads and validates a community feed file. A missing file is not
// an error; the view shows a placeholder instead.
func Load(path string) (Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Feed{}, nil
		}
		return Feed{}, fmt.Errorf("community: read %s: %w", path, err)
	}
	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return Feed{}, fmt.Errorf("community: parse %s: %w", path, err)
	}
	if err := feed.validate(); err != nil {
		return Feed{}, fmt.Errorf("community: %s: %w", path, err)
	}
	return feed, nil
}

func (f Feed) validate() error {
	for i, g := range f.Grids {
		if g.Name == "" {
			return fmt.Errorf("grid %d: name is required", i)
		}
		if g.TotalWeeks <= 0 {
			return fmt.Errorf("grid %d: total_weeks must be positive", i)
		}
		if g.WeeksLived < 0 || g.WeeksLived > g.TotalWeeks {
			return fmt.Errorf("grid %d: weeks_lived out of range", i)
		}
	}
	return nil
}

// PercentComplete returns the lived share of a grid as a percentage.
func PercentComplete(g model.CommunityGrid) float64 {
	if g.TotalWeeks <= 0 {
		return 0
	}
	return float64(g.WeeksLived) / float64(g.TotalWeeks) * 100
}
