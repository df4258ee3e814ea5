package domain

import (
	"errors"
	"fmt"
)

var errUnknownUnit = errors.New("unknown unit")

// Units maps display labels to the integer divisors applied to provider
// meters and seconds.
type Units struct {
	DistanceLabel   string
	DistanceDivisor int
	DurationLabel   string
	DurationDivisor int
}

// DefaultUnits are kilometres and minutes.
var DefaultUnits = Units{DistanceLabel: "km", DistanceDivisor: 1000, DurationLabel: "min", DurationDivisor: 60}

// UnitsFor resolves unit labels ("m", "km" and "s", "min", "h").
func UnitsFor(distance, duration string) (Units, error) {
	u := Units{DistanceLabel: distance, DurationLabel: duration}
	switch distance {
	case "m":
		u.DistanceDivisor = 1
	case "km":
		u.DistanceDivisor = 1000
	default:
		return Units{}, fmt.Errorf("distance unit %q: %w", distance, errUnknownUnit)
	}
	switch duration {
	case "s":
		u.DurationDivisor = 1
	case "min":
		u.DurationDivisor = 60
	case "h":
		u.DurationDivisor = 3600
	default:
		return Units{}, fmt.Errorf("duration unit %q: %w", duration, errUnknownUnit)
	}
	return u, nil
}
