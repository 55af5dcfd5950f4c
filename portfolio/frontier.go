// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"errors"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	numTargets   = 30
	numCMLPoints = 50
)

// FrontierPoint is a single efficient frontier solution
type FrontierPoint struct {
	Risk    float64            `json:"risk"`
	Return  float64            `json:"return"`
	Weights map[string]float64 `json:"weights"`
}

// TangencyPortfolio is the frontier point maximizing the Sharpe ratio
type TangencyPortfolio struct {
	Risk    float64            `json:"risk"`
	Return  float64            `json:"return"`
	Sharpe  float64            `json:"sharpe"`
	Weights map[string]float64 `json:"weights"`
}

// CMLPoint is a point on the capital market line
type CMLPoint struct {
	Risk   float64 `json:"risk"`
	Return float64 `json:"return"`
}

// Frontier is the complete efficient frontier result
type Frontier struct {
	Points   []FrontierPoint   `json:"frontier"`
	Tangency TangencyPortfolio `json:"tangency"`
	CML      []CMLPoint        `json:"cml"`
}

// Options configure the optimizer sweep
type Options struct {
	Rf            float64
	AllowShort    bool
	MaxWeight     float64
	Annualization float64
}

// EfficientFrontier computes the efficient frontier, the tangency
// portfolio and the capital market line from per-asset periodic return
// series.
//
// The sweep runs a fixed number of target returns from the minimum
// variance portfolio's return to max(μ)×1.5. Targets that are infeasible
// under the constraints (common when short selling is disabled) are
// dropped and the sweep continues; consumers receive a shorter but valid
// frontier. When every target fails, the tangency falls back to the
// minimum variance portfolio.
func EfficientFrontier(series map[string][]float64, opts Options) (*Frontier, error) {
	if opts.MaxWeight == 0 {
		opts.MaxWeight = 1
	}
	if opts.MaxWeight < 0 {
		return nil, ErrInvalidRequest
	}
	if opts.Annualization == 0 {
		opts.Annualization = 252
	}

	est, err := Estimate(series, opts.Annualization)
	if err != nil {
		return nil, err
	}

	n := len(est.Assets)
	if !opts.AllowShort && opts.MaxWeight*float64(n) < 1-sumTol {
		// the full budget cannot be allocated under the cap
		return nil, ErrInvalidRequest
	}

	lower := 0.0
	if opts.AllowShort {
		lower = math.Inf(-1)
	}
	upper := math.Inf(1)
	if opts.MaxWeight < 1 {
		upper = opts.MaxWeight
	}

	minVarProb := &qp{sigma: est.Sigma, mu: est.Mu, lower: lower, upper: upper}
	minVarW, minVarErr := minVarProb.solve()
	if minVarErr != nil {
		log.Warn().Err(minVarErr).Msg("minimum variance solve failed; sweeping from min(mu)")
	}

	minRet := floats.Min(est.Mu)
	if minVarErr == nil {
		minRet = dot(est.Mu, minVarW)
	}
	maxRet := floats.Max(est.Mu) * 1.5
	if minRet >= maxRet {
		// keep the sweep non-degenerate
		maxRet = minRet * 1.5
	}

	targets := make([]float64, numTargets)
	floats.Span(targets, minRet, maxRet)

	points := make([]FrontierPoint, 0, numTargets)
	for _, target := range targets {
		w, err := solveTarget(est, target, lower, upper, minVarW, minVarErr)
		if err != nil {
			// infeasible or failed targets are dropped, not reported
			continue
		}

		risk := math.Sqrt(quadForm(est.Sigma, w))
		if !(risk > 0) {
			continue
		}

		points = append(points, FrontierPoint{
			Risk:    risk,
			Return:  dot(est.Mu, w),
			Weights: weightMap(est.Assets, w),
		})
	}

	tangency, err := selectTangency(est, points, opts.Rf, minVarW, minVarErr)
	if err != nil {
		return nil, err
	}

	return &Frontier{
		Points:   points,
		Tangency: tangency,
		CML:      capitalMarketLine(points, tangency, opts.Rf),
	}, nil
}

// solveTarget solves the variance minimization at a fixed target return.
// A singular KKT system (single asset, perfectly collinear assets) is
// recovered by checking whether the minimum variance portfolio already
// attains the target.
func solveTarget(est *Estimates, target, lower, upper float64, minVarW []float64, minVarErr error) ([]float64, error) {
	prob := &qp{sigma: est.Sigma, mu: est.Mu, target: &target, lower: lower, upper: upper}
	w, err := prob.solve()
	if err == nil {
		return w, nil
	}
	if errors.Is(err, errInfeasible) {
		return nil, err
	}

	if minVarErr == nil && math.Abs(dot(est.Mu, minVarW)-target) <= targetTol {
		return minVarW, nil
	}

	return nil, err
}

// selectTangency picks the accepted frontier point with the highest
// Sharpe ratio. When the frontier is empty the minimum variance portfolio
// is the documented fallback; if that solve failed too the optimizer has
// no answer and reports failure.
func selectTangency(est *Estimates, points []FrontierPoint, rf float64, minVarW []float64, minVarErr error) (TangencyPortfolio, error) {
	best := -1
	bestSharpe := math.Inf(-1)
	for ii, pt := range points {
		if pt.Risk <= 0 {
			continue
		}
		sharpe := (pt.Return - rf) / pt.Risk
		if sharpe > bestSharpe {
			best = ii
			bestSharpe = sharpe
		}
	}

	if best >= 0 {
		pt := points[best]
		return TangencyPortfolio{
			Risk:    pt.Risk,
			Return:  pt.Return,
			Sharpe:  bestSharpe,
			Weights: pt.Weights,
		}, nil
	}

	if minVarErr != nil {
		return TangencyPortfolio{}, ErrOptimization
	}

	risk := math.Sqrt(quadForm(est.Sigma, minVarW))
	ret := dot(est.Mu, minVarW)
	sharpe := 0.0
	if risk > 0 {
		sharpe = (ret - rf) / risk
	}

	return TangencyPortfolio{
		Risk:    risk,
		Return:  ret,
		Sharpe:  sharpe,
		Weights: weightMap(est.Assets, minVarW),
	}, nil
}

// capitalMarketLine sweeps risk from zero to 1.5× the maximum frontier
// risk (2× the tangency risk when the frontier is empty). A zero-risk
// tangency has no defined slope; the line collapses to the single point
// (0, rf).
func capitalMarketLine(points []FrontierPoint, tangency TangencyPortfolio, rf float64) []CMLPoint {
	if tangency.Risk <= 0 {
		return []CMLPoint{{Risk: 0, Return: rf}}
	}

	maxRisk := tangency.Risk * 2
	if len(points) > 0 {
		maxRisk = 0
		for _, pt := range points {
			if pt.Risk > maxRisk {
				maxRisk = pt.Risk
			}
		}
		maxRisk *= 1.5
	}

	slope := (tangency.Return - rf) / tangency.Risk

	risks := make([]float64, numCMLPoints)
	floats.Span(risks, 0, maxRisk)

	cml := make([]CMLPoint, numCMLPoints)
	for ii, risk := range risks {
		cml[ii] = CMLPoint{Risk: risk, Return: rf + slope*risk}
	}
	return cml
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for ii := range a {
		sum += a[ii] * b[ii]
	}
	return sum
}

func quadForm(sigma *mat.SymDense, w []float64) float64 {
	n := len(w)
	sum := 0.0
	for ii := 0; ii < n; ii++ {
		for jj := 0; jj < n; jj++ {
			sum += w[ii] * w[jj] * sigma.At(ii, jj)
		}
	}
	return sum
}

func weightMap(assets []string, w []float64) map[string]float64 {
	out := make(map[string]float64, len(assets))
	for ii, asset := range assets {
		out[asset] = w[ii]
	}
	return out
}
