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
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Estimates holds the annualized moments of the aligned return matrix.
// Assets defines the ordering of Mu and Sigma rows/columns; it is the
// sorted asset identifier list so identical requests produce identical
// output regardless of map iteration order.
type Estimates struct {
	Assets []string
	Mu     []float64
	Sigma  *mat.SymDense
}

// Estimate builds the annualized mean vector and covariance matrix from
// per-asset periodic return series. Series are truncated to the shortest
// length and any row containing a NaN is dropped before estimation.
func Estimate(series map[string][]float64, annualization float64) (*Estimates, error) {
	if len(series) == 0 {
		return nil, ErrInvalidRequest
	}

	assets := make([]string, 0, len(series))
	for asset := range series {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	minLen := math.MaxInt32
	for _, rets := range series {
		if len(rets) < minLen {
			minLen = len(rets)
		}
	}

	n := len(assets)
	rows := make([][]float64, 0, minLen)
	for tt := 0; tt < minLen; tt++ {
		row := make([]float64, n)
		ok := true
		for ii, asset := range assets {
			v := series[asset][tt]
			if math.IsNaN(v) {
				ok = false
				break
			}
			row[ii] = v
		}
		if ok {
			rows = append(rows, row)
		}
	}

	if len(rows) < 2 {
		return nil, ErrInsufficientData
	}

	flat := make([]float64, 0, len(rows)*n)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	obs := mat.NewDense(len(rows), n, flat)

	mu := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		mu[ii] = stat.Mean(mat.Col(nil, ii, obs), nil) * annualization
	}

	sigma := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(sigma, obs, nil)
	for ii := 0; ii < n; ii++ {
		for jj := ii; jj < n; jj++ {
			sigma.SetSym(ii, jj, sigma.At(ii, jj)*annualization)
		}
	}

	return &Estimates{Assets: assets, Mu: mu, Sigma: sigma}, nil
}
