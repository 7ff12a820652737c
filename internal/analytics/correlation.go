// Package analytics holds numeric checks over analysis payloads.
package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tolerance is the absolute tolerance used when comparing matrix entries.
const Tolerance = 1e-9

// ValidateCorrelation checks that rows form a square, symmetric matrix with a unit diagonal.
func ValidateCorrelation(rows [][]float64) error {
	n := len(rows)
	if n == 0 {
		return fmt.Errorf("correlation matrix is empty")
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return fmt.Errorf("correlation matrix is not square: row %d has %d columns, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}
	m := mat.NewDense(n, n, data)

	for i := 0; i < n; i++ {
		if d := m.At(i, i); math.Abs(d-1) > Tolerance {
			return fmt.Errorf("correlation matrix diagonal [%d][%d] = %v, want 1", i, i, d)
		}
	}
	if !mat.EqualApprox(m, m.T(), Tolerance) {
		return fmt.Errorf("correlation matrix is not symmetric")
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := m.At(i, j); v < -1-Tolerance || v > 1+Tolerance {
				return fmt.Errorf("correlation [%d][%d] = %v outside [-1, 1]", i, j, v)
			}
		}
	}
	return nil
}
