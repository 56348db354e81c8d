package community

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	feed, err := Load(filepath.Join(t.TempDir(), "community.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if len(feed.Grids) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}

func TestLoadFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.yaml")
	doc := `grids:
  - name: test
    weeks_lived: 2239
    total_weeks: 4000
    likes: 0
    comments: 0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	feed, err := Load(path)
	if err != nil {
		t.Fatalf("load feed: %v", err)
	}
	if len(feed.Grids) != 1 {
		t.Fatalf("expected 1 grid, got %d", len(feed.Grids))
	}
	g := feed.Grids[0]
	if g.Name != "test" || g.WeeksLived != 2239 || g.TotalWeeks != 4000 {
		t.Fatalf("unexpected grid: %+v", g)
	}
	if got := PercentComplete(g); got < 55.9 || got > 56.1 {
		t.Fatalf("unexpected percent complete: %f", got)
	}
}

func TestLoadRejectsInvalidGrid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing name", "grids:\n  - weeks_lived: 1\n    total_weeks: 10\n"},
		{"zero total", "grids:\n  - name: x\n    weeks_lived: 1\n    total_weeks: 0\n"},
		{"lived beyond total", "grids:\n  - name: x\n    weeks_lived: 11\n    total_weeks: 10\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "community.yaml")
			if err := os.WriteFile(path, []byte(tc.doc), 0o644); err != nil {
				t.Fatalf("write feed: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
