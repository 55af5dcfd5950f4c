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

// Package regression implements ordinary least squares with the
// inferential statistics the analysis endpoints report.
package regression

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData indicates too few observations for the number of
	// regressors (no residual degrees of freedom)
	ErrInsufficientData = errors.New("insufficient observations for regression")

	// ErrSingularDesign indicates a rank-deficient design matrix
	ErrSingularDesign = errors.New("design matrix is singular")
)

// Model holds a fitted OLS regression. Coeff[0] is the intercept when the
// model was fit with one; TStat, PValue and StdErr are index-aligned with
// Coeff.
type Model struct {
	Coeff       []float64
	StdErr      []float64
	TStat       []float64
	PValue      []float64
	R2          float64
	AdjR2       float64
	Residuals   []float64
	ResidualStd float64
	N           int
	K           int
}

// OLS fits y = Xβ + ε by ordinary least squares. X is column-major: each
// element of cols is one regressor series. When intercept is true a
// constant column is prepended. Inputs are truncated to the shortest
// series; a NaN anywhere in a row drops that observation.
func OLS(y []float64, cols [][]float64, intercept bool) (*Model, error) {
	minLen := len(y)
	for _, col := range cols {
		if len(col) < minLen {
			minLen = len(col)
		}
	}

	k := len(cols)
	if intercept {
		k++
	}

	yy := make([]float64, 0, minLen)
	rows := make([][]float64, 0, minLen)
	for tt := 0; tt < minLen; tt++ {
		if math.IsNaN(y[tt]) {
			continue
		}
		row := make([]float64, 0, k)
		if intercept {
			row = append(row, 1)
		}
		ok := true
		for _, col := range cols {
			if math.IsNaN(col[tt]) {
				ok = false
				break
			}
			row = append(row, col[tt])
		}
		if !ok {
			continue
		}
		yy = append(yy, y[tt])
		rows = append(rows, row)
	}

	n := len(yy)
	if n <= k {
		return nil, ErrInsufficientData
	}

	flat := make([]float64, 0, n*k)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	design := mat.NewDense(n, k, flat)
	target := mat.NewVecDense(n, yy)

	var beta mat.VecDense
	if err := beta.SolveVec(design, target); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, ErrSingularDesign
		}
	}

	coeff := make([]float64, k)
	for jj := 0; jj < k; jj++ {
		coeff[jj] = beta.AtVec(jj)
	}

	residuals := make([]float64, n)
	ssr := 0.0
	for ii := 0; ii < n; ii++ {
		fit := 0.0
		for jj := 0; jj < k; jj++ {
			fit += rows[ii][jj] * coeff[jj]
		}
		residuals[ii] = yy[ii] - fit
		ssr += residuals[ii] * residuals[ii]
	}

	// total sum of squares is centered only when the model has a constant
	sst := 0.0
	if intercept {
		mean := stat.Mean(yy, nil)
		for _, v := range yy {
			sst += (v - mean) * (v - mean)
		}
	} else {
		for _, v := range yy {
			sst += v * v
		}
	}

	r2 := 0.0
	if sst > 0 {
		r2 = 1 - ssr/sst
	}

	dof := float64(n - k)
	var adjR2 float64
	if intercept {
		adjR2 = 1 - (1-r2)*float64(n-1)/dof
	} else {
		adjR2 = 1 - (1-r2)*float64(n)/dof
	}

	sigma2 := ssr / dof

	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, ErrSingularDesign
		}
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}

	stdErr := make([]float64, k)
	tStat := make([]float64, k)
	pValue := make([]float64, k)
	for jj := 0; jj < k; jj++ {
		stdErr[jj] = math.Sqrt(sigma2 * xtxInv.At(jj, jj))
		if stdErr[jj] > 0 {
			tStat[jj] = coeff[jj] / stdErr[jj]
		}
		pValue[jj] = 2 * (1 - tDist.CDF(math.Abs(tStat[jj])))
	}

	return &Model{
		Coeff:       coeff,
		StdErr:      stdErr,
		TStat:       tStat,
		PValue:      pValue,
		R2:          r2,
		AdjR2:       adjR2,
		Residuals:   residuals,
		ResidualStd: stat.PopStdDev(residuals, nil),
		N:           n,
		K:           k,
	}, nil
}
