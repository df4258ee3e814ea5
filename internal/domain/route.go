package domain

// Represents the visiting order produced by the route optimizer for a single
// vehicle leaving from Depot.
// Stops include the depot at the start and, for closed tours, at the end.
// A Tour with Found == false is the explicit "no solution" outcome: Stops is
// empty and Cost is zero, and callers must not read it as an empty route.
type Tour struct {
	Depot  Location
	Stops  []Location
	Cost   int
	Found  bool
	Closed bool
}

// Analysis bundles everything one depot comparison run produced.
type Analysis struct {
	RunID      string
	Locations  []Location
	Distances  Matrix
	Durations  Matrix
	Comparison *Comparison
	Tours      []Tour
}
