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

	"gonum.org/v1/gonum/stat"
)

// LPMParams configure the lower partial moment calculation. Tau is the
// annualized minimum acceptable return and N the moment order.
type LPMParams struct {
	Tau float64 `json:"tau"`
	N   float64 `json:"n"`
}

// PerformanceStats bundles risk-adjusted performance ratios and return
// distribution statistics. Benchmark-relative ratios are nil when no
// benchmark series was supplied; LPM is nil unless requested.
type PerformanceStats struct {
	Sharpe           float64  `json:"sharpe"`
	Treynor          *float64 `json:"treynor,omitempty"`
	InformationRatio *float64 `json:"informationRatio,omitempty"`
	JensenAlpha      *float64 `json:"jensenAlpha,omitempty"`
	M2               *float64 `json:"m2,omitempty"`
	Skew             float64  `json:"skew"`
	Kurtosis         float64  `json:"kurtosis"`
	JB               float64  `json:"jb"`
	LPM              *float64 `json:"lpm,omitempty"`
}

// Performance computes Sharpe, benchmark-relative ratios, and return
// distribution statistics from periodic portfolio returns. Annualization
// uses periodsPerYear; rf is the annual risk-free rate. Distribution
// moments are population moments so the Jarque-Bera statistic matches its
// textbook form n/6·(S² + K²/4).
func Performance(portfolio, benchmark []float64, rf, periodsPerYear float64, lpm *LPMParams) (*PerformanceStats, error) {
	if len(portfolio) < 2 {
		return nil, ErrInsufficientData
	}

	meanRet := stat.Mean(portfolio, nil) * periodsPerYear
	stdRet := stat.PopStdDev(portfolio, nil) * math.Sqrt(periodsPerYear)

	sharpe := 0.0
	if stdRet > 0 {
		sharpe = (meanRet - rf) / stdRet
	}

	skew, exKurt := popMoments(portfolio)
	nObs := float64(len(portfolio))
	jb := nObs / 6 * (skew*skew + exKurt*exKurt/4)

	stats := &PerformanceStats{
		Sharpe:   sharpe,
		Skew:     skew,
		Kurtosis: exKurt,
		JB:       jb,
	}

	if len(benchmark) > 0 {
		minLen := len(portfolio)
		if len(benchmark) < minLen {
			minLen = len(benchmark)
		}
		port := portfolio[:minLen]
		bench := benchmark[:minLen]

		covariance := stat.Covariance(port, bench, nil)
		benchVar := stat.PopVariance(bench, nil)
		beta := 1.0
		if benchVar > 0 {
			beta = covariance / benchVar
		}

		treynor := 0.0
		if beta != 0 {
			treynor = (meanRet - rf) / beta
		}
		stats.Treynor = &treynor

		active := make([]float64, minLen)
		for ii := range active {
			active[ii] = port[ii] - bench[ii]
		}
		trackingError := stat.PopStdDev(active, nil) * math.Sqrt(periodsPerYear)
		ir := 0.0
		if trackingError > 0 {
			ir = stat.Mean(active, nil) * periodsPerYear / trackingError
		}
		stats.InformationRatio = &ir

		benchMean := stat.Mean(bench, nil) * periodsPerYear
		alpha := meanRet - (rf + beta*(benchMean-rf))
		stats.JensenAlpha = &alpha

		if stdRet > 0 {
			benchStd := stat.PopStdDev(bench, nil) * math.Sqrt(periodsPerYear)
			m2 := rf + sharpe*benchStd - benchMean
			stats.M2 = &m2
		}
	}

	if lpm != nil {
		tau := lpm.Tau / periodsPerYear
		sum := 0.0
		for _, r := range portfolio {
			if shortfall := r - tau; shortfall < 0 {
				sum += math.Pow(-shortfall, lpm.N)
			}
		}
		val := sum / nObs
		stats.LPM = &val
	}

	return stats, nil
}

// popMoments returns the population skewness and excess kurtosis
func popMoments(x []float64) (float64, float64) {
	m2 := stat.Moment(2, x, nil)
	m3 := stat.Moment(3, x, nil)
	m4 := stat.Moment(4, x, nil)
	if m2 <= 0 {
		return 0, 0
	}
	skew := m3 / math.Pow(m2, 1.5)
	exKurt := m4/(m2*m2) - 3
	return skew, exKurt
}
