package ports

import "context"

// MatrixResponse holds one DistanceResult per ordered (origin, destination)
// pair, indexed like the request's location list.
type MatrixResponse struct {
	Elements [][]DistanceResult
}

// Optional extension of DistanceProvider that returns the full pairwise
// matrix in one logical call.
type DistanceMatrixProvider interface {
	DistanceProvider
	GetMatrix(ctx context.Context, locations []string, opts TravelOptions) (*MatrixResponse, error)
}
