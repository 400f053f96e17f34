// Package glm fits binomial generalized linear models with a probit link by
// iteratively reweighted least squares on gonum matrices.
package glm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "atheroeval/internal/errors"
)

const (
	maxIterations = 100
	// Convergence is judged on relative deviance change, as in standard GLM
	// implementations. Coefficient deltas are a poor criterion here: under
	// quasi-separation the deviance plateaus while coefficients keep
	// drifting, and the plateau is the correct stopping point.
	devianceTolerance = 1e-8
	// Fitted means are clamped away from {0, 1} to keep working weights and
	// the deviance finite.
	meanClamp    = 1e-10
	densityFloor = 1e-10
)

var stdNormal = distuv.UnitNormal

// Model holds fitted probit-link coefficients: intercept first, then one
// coefficient per covariate in design-matrix order.
type Model struct {
	Coefficients []float64
	Deviance     float64
	Iterations   int
	numCovs      int
}

// Fit estimates probit-link binomial coefficients for the row-major design
// matrix x (p covariates per row, no intercept column) against binary
// outcomes y. An intercept is added internally. Returns an error on
// dimension mismatch, singular working systems, or non-convergence.
func Fit(x []float64, y []float64, p int) (*Model, error) {
	n := len(y)
	if p < 1 {
		return nil, apperrors.InvalidInput("design matrix must have at least one covariate")
	}
	if len(x) != n*p {
		return nil, apperrors.InvalidInput(fmt.Sprintf("design matrix size %d does not match %d rows x %d covariates", len(x), n, p))
	}
	if n <= p+1 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cannot fit %d coefficients to %d observations", p+1, n))
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("outcome at row %d is %v, expected 0 or 1", i, v))
		}
	}

	// Design matrix with leading intercept column.
	cols := p + 1
	design := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, x[i*p+j])
		}
	}

	beta := make([]float64, cols)
	weighted := mat.NewDense(n, cols, nil)
	workingResp := mat.NewVecDense(n, nil)

	prevDeviance := math.Inf(1)
	for iter := 1; iter <= maxIterations; iter++ {
		deviance := 0.0
		for i := 0; i < n; i++ {
			e := 0.0
			for j := 0; j < cols; j++ {
				e += design.At(i, j) * beta[j]
			}

			mu := clamp(stdNormal.CDF(e), meanClamp, 1-meanClamp)
			density := math.Max(stdNormal.Prob(e), densityFloor)

			w := density * density / (mu * (1 - mu))
			z := e + (y[i]-mu)/density

			sw := math.Sqrt(w)
			for j := 0; j < cols; j++ {
				weighted.Set(i, j, sw*design.At(i, j))
			}
			workingResp.SetVec(i, sw*z)

			if y[i] == 1 {
				deviance += -2 * math.Log(mu)
			} else {
				deviance += -2 * math.Log(1-mu)
			}
		}

		var sol mat.VecDense
		if err := sol.SolveVec(weighted, workingResp); err != nil {
			// A Condition error still carries a usable solution; anything
			// else (true singularity) is fatal.
			if _, ok := err.(mat.Condition); !ok {
				return nil, apperrors.WrapCode(err, apperrors.CodeFitError,
					fmt.Sprintf("weighted least squares solve failed at iteration %d", iter))
			}
		}
		for j := 0; j < cols; j++ {
			beta[j] = sol.AtVec(j)
		}

		if math.Abs(deviance-prevDeviance)/(math.Abs(deviance)+0.1) < devianceTolerance {
			return &Model{
				Coefficients: beta,
				Deviance:     deviance,
				Iterations:   iter,
				numCovs:      p,
			}, nil
		}
		prevDeviance = deviance
	}

	return nil, apperrors.FitError(fmt.Sprintf("probit fit did not converge in %d iterations (deviance %.6f)", maxIterations, prevDeviance))
}

// Predict maps rows of the row-major covariate matrix x through the inverse
// probit link, returning one probability per row.
func (m *Model) Predict(x []float64) ([]float64, error) {
	p := m.numCovs
	if p == 0 {
		// Model constructed outside Fit; infer from coefficient count.
		p = len(m.Coefficients) - 1
	}
	if p < 1 {
		return nil, apperrors.InvalidInput("model has no covariate coefficients")
	}
	if len(x)%p != 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("covariate matrix size %d is not a multiple of %d covariates", len(x), p))
	}

	n := len(x) / p
	probs := make([]float64, n)
	for i := 0; i < n; i++ {
		eta := m.Coefficients[0]
		for j := 0; j < p; j++ {
			eta += m.Coefficients[j+1] * x[i*p+j]
		}
		probs[i] = stdNormal.CDF(eta)
	}
	return probs, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
