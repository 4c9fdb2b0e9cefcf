package store

import "fmt"

type sample struct {
	title       string
	description string
	tags        []string
}

var samples = []sample{
	{
		"Indie coffee map",
		"An interactive map of independent coffee shops with community reviews.",
		[]string{"maps", "community", "coffee"},
	},
	{
		"AI palette generator",
		"A tool that suggests color palettes from an image.",
		[]string{"ai", "ux", "colors"},
	},
	{
		"Focus radio",
		"An endless playlist that minimizes distractions based on your schedule.",
		[]string{"audio", "productivity"},
	},
}

// Seed inserts a few sample ideas and returns how many were added
func (s *Store) Seed() (int, error) {
	for i, smp := range samples {
		if _, err := s.AddIdea(smp.title, smp.description, smp.tags); err != nil {
			return i, fmt.Errorf("seed %q: %w", smp.title, err)
		}
	}
	return len(samples), nil
}
