package regression

import (
	"fmt"
	"math"
)

// fit holds an ordinary least squares solution. coef[0] is the intercept;
// coef[1:] follow the design-matrix column order.
type fit struct {
	coef     []float64
	stderr   []float64
	pvalue   []float64
	rsquared float64
	n        int
}

// olsFit solves y = b0 + b1*x1 + ... by the normal equations. columns holds
// the regressors column-major, each of length n. Requires more observations
// than parameters and a non-singular design.
func olsFit(columns [][]float64, y []float64) (fit, error) {
	n := len(y)
	p := len(columns) + 1
	if n <= p {
		return fit{}, fmt.Errorf("ols: %d observations for %d parameters", n, p)
	}

	// X'X and X'y with an implicit leading column of ones.
	xtx := make([][]float64, p)
	for i := range xtx {
		xtx[i] = make([]float64, p)
	}
	xty := make([]float64, p)

	col := func(j int, row int) float64 {
		if j == 0 {
			return 1
		}
		return columns[j-1][row]
	}

	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			sum := 0.0
			for r := 0; r < n; r++ {
				sum += col(i, r) * col(j, r)
			}
			xtx[i][j] = sum
			xtx[j][i] = sum
		}
		sum := 0.0
		for r := 0; r < n; r++ {
			sum += col(i, r) * y[r]
		}
		xty[i] = sum
	}

	inv, err := invert(xtx)
	if err != nil {
		return fit{}, fmt.Errorf("ols: %w", err)
	}

	coef := make([]float64, p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			coef[i] += inv[i][j] * xty[j]
		}
	}

	rss := 0.0
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	tss := 0.0
	for r := 0; r < n; r++ {
		pred := 0.0
		for j := 0; j < p; j++ {
			pred += coef[j] * col(j, r)
		}
		resid := y[r] - pred
		rss += resid * resid
		dev := y[r] - mean
		tss += dev * dev
	}

	rsquared := 0.0
	if tss > 0 {
		rsquared = 1 - rss/tss
	}

	s2 := rss / float64(n-p)
	stderr := make([]float64, p)
	pvalue := make([]float64, p)
	for j := 0; j < p; j++ {
		stderr[j] = math.Sqrt(s2 * inv[j][j])
		if stderr[j] > 0 {
			t := coef[j] / stderr[j]
			// Normal approximation to the t distribution; adequate for the
			// panel sizes this engine sees.
			pvalue[j] = math.Erfc(math.Abs(t) / math.Sqrt2)
		} else {
			pvalue[j] = 0
		}
	}

	return fit{coef: coef, stderr: stderr, pvalue: pvalue, rsquared: rsquared, n: n}, nil
}

// invert performs Gauss-Jordan elimination with partial pivoting.
func invert(m [][]float64) ([][]float64, error) {
	p := len(m)
	aug := make([][]float64, p)
	for i := range aug {
		aug[i] = make([]float64, 2*p)
		copy(aug[i], m[i])
		aug[i][p+i] = 1
	}

	for c := 0; c < p; c++ {
		pivot := c
		for r := c + 1; r < p; r++ {
			if math.Abs(aug[r][c]) > math.Abs(aug[pivot][c]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][c]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix")
		}
		aug[c], aug[pivot] = aug[pivot], aug[c]

		scale := aug[c][c]
		for j := 0; j < 2*p; j++ {
			aug[c][j] /= scale
		}
		for r := 0; r < p; r++ {
			if r == c {
				continue
			}
			factor := aug[r][c]
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*p; j++ {
				aug[r][j] -= factor * aug[c][j]
			}
		}
	}

	inv := make([][]float64, p)
	for i := range inv {
		inv[i] = aug[i][p:]
	}
	return inv, nil
}
