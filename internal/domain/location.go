package domain

import (
	"fmt"
	"strings"
)

// A Location is a display name bound to its position in the run's ordered
// location list. Identity is the index; names are unique within a run.
type Location struct {
	Index int
	Name  string
}

// NewLocations indexes names in order and rejects blanks and duplicates.
// Runs of whitespace inside a name collapse to one space.
func NewLocations(names []string) ([]Location, error) {
	out := make([]Location, 0, len(names))
	seen := make(map[string]int, len(names))
	for i, n := range names {
		n = canonical(n)
		if n == "" {
			return nil, fmt.Errorf("new locations: name at index %d is empty", i)
		}
		if prev, ok := seen[n]; ok {
			return nil, fmt.Errorf("new locations: %q at index %d and %d: %w", n, prev, i, ErrDuplicateLocation)
		}
		seen[n] = i
		out = append(out, Location{Index: i, Name: n})
	}
	return out, nil
}

// Names returns the display names in index order.
func Names(locations []Location) []string {
	out := make([]string, len(locations))
	for i, l := range locations {
		out[i] = l.Name
	}
	return out
}

// IndexOf resolves a display name to its location index.
func IndexOf(locations []Location, name string) (int, error) {
	name = canonical(name)
	for _, l := range locations {
		if l.Name == name {
			return l.Index, nil
		}
	}
	return -1, fmt.Errorf("index of %q: %w", name, ErrUnknownLocation)
}

func canonical(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
