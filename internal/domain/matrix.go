package domain

import "fmt"

// Unavailable marks a matrix cell the distance provider could not resolve.
const Unavailable = -1

// Matrix is an N×N table of non-negative integers indexed by
// (origin, destination). It is not assumed symmetric; the diagonal is zero.
// Distance and duration matrices share this type and differ only in unit.
type Matrix [][]int

// NewMatrix allocates an n×n matrix with every off-diagonal cell Unavailable.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = Unavailable
			}
		}
	}
	return m
}

// At returns the cell value and whether it is available.
func (m Matrix) At(i, j int) (int, bool) {
	v := m[i][j]
	return v, v >= 0
}

// CheckSquare verifies the matrix is n×n without reading any cell value.
func (m Matrix) CheckSquare(n int) error {
	if len(m) != n {
		return fmt.Errorf("matrix has %d rows, want %d: %w", len(m), n, ErrShapeMismatch)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d columns, want %d: %w", i, len(row), n, ErrShapeMismatch)
		}
	}
	return nil
}

// Row returns a copy of the origin's row.
func (m Matrix) Row(i int) []int {
	out := make([]int, len(m[i]))
	copy(out, m[i])
	return out
}
