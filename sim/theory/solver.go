// Package theory implements Bianchi's analytical model of the 802.11 DCF
// under saturation, used to cross-check simulated results.
//
// The per-slot transmission probability tao and the conditional collision
// probability p are coupled:
//
//	tao = 2 / (1 + W + p·W·Σ_{i=0}^{m-1} (2p)^i)
//	p   = 1 - (1 - tao)^(n-1)
//
// where W is the minimum contention window, m the maximum backoff stage and n
// the number of stations. The system is solved by fixed-point iteration on p.
package theory

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTolerance is the convergence threshold on |p_next - p|.
	DefaultTolerance = 1e-4
	// DefaultMaxIterations caps the fixed-point iteration.
	DefaultMaxIterations = 10000
	// FallbackDamping is the relaxation Solve retries with when plain iteration
	// settles into a 2-cycle, which happens for large station counts.
	FallbackDamping = 0.5

	initialCollisionProb = 0.5
	// singularityEpsilon is how close to 1/2 p must be to use the limit form of the stage sum.
	singularityEpsilon = 1e-12
)

// ErrNoConvergence is returned when the iteration cap is hit before the
// collision probability settles.
var ErrNoConvergence = errors.New("fixed-point iteration did not converge")

// Options tunes the fixed-point iteration. Zero fields use the defaults.
type Options struct {
	Tolerance     float64
	MaxIterations int
	// Damping in (0, 1] blends each update: p <- (1-d)·p + d·p_next.
	// Zero means 1 (plain iteration).
	Damping float64
}

// Result is the solved operating point.
type Result struct {
	Tao                  float64 // per-slot transmission probability of one station
	CollisionProbability float64 // p
	SuccessProbability   float64 // 1 - p
	Iterations           int
}

// Calculate solves the model with default options.
func Calculate(stationCount, cwMin, maxBackoffStage int) (Result, error) {
	return CalculateWithOptions(stationCount, cwMin, maxBackoffStage, Options{})
}

// CalculateWithOptions solves the model starting from p = 0.5 and iterating
// until successive collision probabilities differ by less than the tolerance.
func CalculateWithOptions(stationCount, cwMin, maxBackoffStage int, opts Options) (Result, error) {
	if stationCount <= 0 {
		return Result{}, fmt.Errorf("station count must be positive, got %d", stationCount)
	}
	if cwMin <= 0 {
		return Result{}, fmt.Errorf("cw_min must be positive, got %d", cwMin)
	}
	if maxBackoffStage < 0 {
		return Result{}, fmt.Errorf("max backoff stage must be non-negative, got %d", maxBackoffStage)
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Damping == 0 {
		opts.Damping = 1
	}
	if opts.Damping < 0 || opts.Damping > 1 {
		return Result{}, fmt.Errorf("damping must be in (0, 1], got %f", opts.Damping)
	}

	w := float64(cwMin)
	m := float64(maxBackoffStage)
	p := initialCollisionProb
	for i := 1; i <= opts.MaxIterations; i++ {
		tao := 2.0 / denominator(p, w, m)
		pNext := 1.0 - math.Pow(1.0-tao, float64(stationCount-1))
		delta := math.Abs(pNext - p)
		p = (1-opts.Damping)*p + opts.Damping*pNext
		if delta < opts.Tolerance {
			return Result{
				Tao:                  tao,
				CollisionProbability: p,
				SuccessProbability:   1.0 - p,
				Iterations:           i,
			}, nil
		}
	}
	return Result{}, fmt.Errorf("%w after %d iterations (n=%d, W=%d, m=%d)",
		ErrNoConvergence, opts.MaxIterations, stationCount, cwMin, maxBackoffStage)
}

// denominator returns 1 + W + p·W·(1 - (2p)^m)/(1 - 2p). At p = 1/2 the
// geometric sum has the removable singularity Σ 1 = m.
func denominator(p, w, m float64) float64 {
	if math.Abs(1.0-2.0*p) < singularityEpsilon {
		return 1.0 + w + m*w*0.5
	}
	stageSum := (1.0 - math.Pow(2.0*p, m)) / (1.0 - 2.0*p)
	return 1.0 + w + p*w*stageSum
}

// Solve runs Calculate and, if plain iteration does not converge, retries
// with FallbackDamping.
func Solve(stationCount, cwMin, maxBackoffStage int) (Result, error) {
	r, err := Calculate(stationCount, cwMin, maxBackoffStage)
	if !errors.Is(err, ErrNoConvergence) {
		return r, err
	}
	logrus.Warnf("theory: plain iteration did not converge for n=%d; retrying with damping %.2f", stationCount, FallbackDamping)
	return CalculateWithOptions(stationCount, cwMin, maxBackoffStage, Options{Damping: FallbackDamping})
}
