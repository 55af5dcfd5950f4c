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

package factors

import (
	"sort"
	"time"

	"github.com/invest-lab/ail-api/data"
	"github.com/invest-lab/ail-api/regression"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GRSResult is the Gibbons-Ross-Shanken joint alpha test
type GRSResult struct {
	Model           Model   `json:"model"`
	Statistic       float64 `json:"grsStatistic"`
	PValue          float64 `json:"pValue"`
	NumPortfolios   int     `json:"numPortfolios"`
	NumObservations int     `json:"numObservations"`
	Interpretation  string  `json:"interpretation"`
}

// GRS runs the Gibbons-Ross-Shanken test of whether the factor model's
// alphas are jointly zero across the supplied portfolios:
//
//	GRS = (T/N)·((T−N−K)/(N·(K+1)))·(αᵀΣ⁻¹α)/(1+μ_fᵀΣ_f⁻¹μ_f) ~ F(N, T−N−K)
//
// using only the months where every portfolio and the factor table all
// have observations.
func (l *Library) GRS(portfolios map[string][]data.Return, model Model, begin, end *time.Time) (*GRSResult, error) {
	table, err := l.Table(model)
	if err != nil {
		return nil, err
	}
	table = table.Slice(begin, end)

	names := make([]string, 0, len(portfolios))
	for name := range portfolios {
		names = append(names, name)
	}
	sort.Strings(names)

	nPort := len(names)
	k := len(table.Factors)

	// common months across the factor table and every portfolio
	tableIdx := make(map[int]int, len(table.Dates))
	for ii, date := range table.Dates {
		tableIdx[monthKey(date)] = ii
	}

	perPortfolio := make([]map[int]float64, nPort)
	for pp, name := range names {
		byMonth := make(map[int]float64, len(portfolios[name]))
		for _, r := range portfolios[name] {
			byMonth[monthKey(r.Date)] = r.Ret
		}
		perPortfolio[pp] = byMonth
	}

	months := make([]int, 0, len(table.Dates))
	for key := range tableIdx {
		all := true
		for _, byMonth := range perPortfolio {
			if _, ok := byMonth[key]; !ok {
				all = false
				break
			}
		}
		if all {
			months = append(months, key)
		}
	}
	sort.Ints(months)

	nObs := len(months)
	if nObs == 0 {
		return nil, ErrNoOverlap
	}
	if nObs < nPort+k+1 {
		return nil, ErrInsufficientObservations
	}

	factorCols := make([][]float64, k)
	for jj := 0; jj < k; jj++ {
		col := make([]float64, nObs)
		for ii, key := range months {
			col[ii] = table.Rows[tableIdx[key]][jj]
		}
		factorCols[jj] = col
	}

	// per-portfolio excess-return regressions; collect alphas and residuals
	alphas := make([]float64, nPort)
	residuals := make([][]float64, nPort)
	for pp := range names {
		excess := make([]float64, nObs)
		for ii, key := range months {
			excess[ii] = perPortfolio[pp][key] - table.RF[tableIdx[key]]
		}

		fit, err := regression.OLS(excess, factorCols, true)
		if err != nil {
			return nil, err
		}
		alphas[pp] = fit.Coeff[0]
		residuals[pp] = fit.Residuals
	}

	// sample covariance of the stacked residuals (N×N)
	residObs := mat.NewDense(nObs, nPort, nil)
	for pp := 0; pp < nPort; pp++ {
		residObs.SetCol(pp, residuals[pp])
	}
	sigma := mat.NewSymDense(nPort, nil)
	stat.CovarianceMatrix(sigma, residObs, nil)

	// factor moments (K-vector mean, K×K sample covariance)
	factorObs := mat.NewDense(nObs, k, nil)
	muF := make([]float64, k)
	for jj := 0; jj < k; jj++ {
		factorObs.SetCol(jj, factorCols[jj])
		muF[jj] = stat.Mean(factorCols[jj], nil)
	}
	sigmaF := mat.NewSymDense(k, nil)
	stat.CovarianceMatrix(sigmaF, factorObs, nil)

	numerator, err := invQuadForm(sigma, alphas)
	if err != nil {
		return nil, err
	}
	factorTerm, err := invQuadForm(sigmaF, muF)
	if err != nil {
		return nil, err
	}

	tt := float64(nObs)
	nn := float64(nPort)
	kk := float64(k)
	grs := (tt / nn) * ((tt - nn - kk) / (nn * (kk + 1))) * (numerator / (1 + factorTerm))

	fDist := distuv.F{D1: nn, D2: tt - nn - kk}
	pValue := 1 - fDist.CDF(grs)

	return &GRSResult{
		Model:           model,
		Statistic:       grs,
		PValue:          pValue,
		NumPortfolios:   nPort,
		NumObservations: nObs,
		Interpretation:  interpretGRS(pValue),
	}, nil
}

// invQuadForm computes xᵀA⁻¹x via a linear solve. A rank-deficient
// covariance (duplicate portfolios, residuals spanned by the factors)
// cannot support the quadratic form, so any solve failure including a
// near-singular condition estimate is an error.
func invQuadForm(a *mat.SymDense, x []float64) (float64, error) {
	vec := mat.NewVecDense(len(x), x)
	var sol mat.VecDense
	if err := sol.SolveVec(a, vec); err != nil {
		return 0, ErrSingular
	}
	return mat.Dot(vec, &sol), nil
}

func interpretGRS(pValue float64) string {
	switch {
	case pValue < 0.01:
		return "Strong evidence against the model (p < 0.01). The model fails to explain asset returns."
	case pValue < 0.05:
		return "Moderate evidence against the model (p < 0.05). The model has some pricing errors."
	case pValue < 0.10:
		return "Weak evidence against the model (p < 0.10). The model explains returns reasonably well."
	default:
		return "Model cannot be rejected (p >= 0.10). The model prices assets well."
	}
}
