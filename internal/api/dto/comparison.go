package dto

import "time"

type ComparisonRequest struct {
	Locations     []string `json:"locations"`
	Depots        []string `json:"depots"`
	Mode          string   `json:"mode"`
	Units         string   `json:"units"`
	Region        string   `json:"region"`
	DistanceUnit  string   `json:"distance_unit"`
	DurationUnit  string   `json:"duration_unit"`
	Strategy      string   `json:"strategy"`
	LocalSearch   *bool    `json:"local_search"`
	ReturnToDepot *bool    `json:"return_to_depot"`
	SkipRoutes    bool     `json:"skip_routes"`
}

// MatrixComparisonRequest carries precomputed matrices. A null cell marks
// an unavailable pair.
type MatrixComparisonRequest struct {
	Locations []string `json:"locations"`
	Distances [][]*int `json:"distances"`
	Durations [][]*int `json:"durations"`
	Depots    []string `json:"depots"`
}

type UnitsResponse struct {
	Distance string `json:"distance"`
	Duration string `json:"duration"`
}

type RowResponse struct {
	Location  string `json:"location"`
	Distances []*int `json:"distances"`
	Durations []*int `json:"durations"`
}

type AggregateResponse struct {
	Sum   int     `json:"sum"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

type SummaryResponse struct {
	Depot    string            `json:"depot"`
	Distance AggregateResponse `json:"distance"`
	Duration AggregateResponse `json:"duration"`
}

type MissingResponse struct {
	Metric   string `json:"metric"`
	Depot    string `json:"depot"`
	Location string `json:"location"`
}

type ComparisonResponse struct {
	RunID     string            `json:"run_id,omitempty"`
	Units     *UnitsResponse    `json:"units,omitempty"`
	Depots    []string          `json:"depots"`
	Rows      []RowResponse     `json:"rows"`
	Summaries []SummaryResponse `json:"summaries"`
	Missing   []MissingResponse `json:"missing"`
	Tours     []TourResponse    `json:"tours,omitempty"`
}

type RunResponse struct {
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Summaries []SummaryResponse `json:"summaries"`
	Missing   int               `json:"missing"`
}
