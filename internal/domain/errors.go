package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when matrices, locations and depot indices
	// do not describe the same N×N problem.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyComparisonSet is returned when every location is a depot,
	// leaving nothing to aggregate.
	ErrEmptyComparisonSet = errors.New("empty comparison set")

	ErrDuplicateLocation = errors.New("duplicate location")
	ErrUnknownLocation   = errors.New("unknown location")

	ErrDuplicateRegion = errors.New("duplicate region")
	ErrUnknownRegion   = errors.New("unknown region")

	ErrRunNotFound = errors.New("run not found")
)

// Metric names a matrix kind.
type Metric string

const (
	MetricDistance Metric = "distance"
	MetricDuration Metric = "duration"
)

// MissingDistance marks a (depot, location) pair the provider could not
// resolve. It is recoverable: the pair is left out of the depot's aggregates.
type MissingDistance struct {
	Metric   Metric
	Depot    Location
	Location Location
}

func (m MissingDistance) Error() string {
	return fmt.Sprintf("missing %s from %q to %q", m.Metric, m.Depot.Name, m.Location.Name)
}
