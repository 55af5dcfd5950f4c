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

// Package theory generates synthetic factor model worlds with known true
// parameters, used to demonstrate estimation against a known data
// generating process. Generation is seeded so the same request always
// produces the same world.
package theory

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrBadWorld indicates world parameters that cannot generate data
var ErrBadWorld = errors.New("invalid world parameters")

const monthsPerYear = 12

// CAPMWorldParams configure the single-factor world
type CAPMWorldParams struct {
	NumAssets      int     `json:"num_assets"`
	SampleLength   int     `json:"sample_length"`
	Rf             float64 `json:"rf"`
	MuMarket       float64 `json:"mu_market"`
	SigmaMarket    float64 `json:"sigma_market"`
	BetaDispersion float64 `json:"beta_dispersion"`
	IdioVolMin     float64 `json:"idio_vol_min"`
	IdioVolMax     float64 `json:"idio_vol_max"`
	Seed           uint64  `json:"seed"`
}

// DefaultCAPMWorldParams are the lecture defaults
func DefaultCAPMWorldParams() CAPMWorldParams {
	return CAPMWorldParams{
		NumAssets:      25,
		SampleLength:   120,
		Rf:             0.02,
		MuMarket:       0.06,
		SigmaMarket:    0.16,
		BetaDispersion: 0.4,
		IdioVolMin:     0.10,
		IdioVolMax:     0.25,
		Seed:           42,
	}
}

// CAPMAsset is one synthetic asset with its true market beta
type CAPMAsset struct {
	Ticker   string    `json:"ticker"`
	Returns  []float64 `json:"returns"`
	TrueBeta float64   `json:"true_beta"`
}

// MarketReturn wraps the simulated market factor series
type MarketReturn struct {
	Returns []float64 `json:"returns"`
}

// CAPMWorld is a synthetic single-factor economy
type CAPMWorld struct {
	Assets    []CAPMAsset  `json:"assets"`
	Market    MarketReturn `json:"market"`
	RfMonthly float64      `json:"rf_monthly"`
	Dates     []string     `json:"dates"`
}

// GenerateCAPMWorld simulates monthly asset returns that follow the CAPM
// exactly: r_i = rf + β_i·f_M + ε_i with normal market factor and
// idiosyncratic noise
func GenerateCAPMWorld(params CAPMWorldParams) (*CAPMWorld, error) {
	if params.NumAssets <= 0 || params.SampleLength <= 0 {
		return nil, ErrBadWorld
	}
	if params.SigmaMarket <= 0 || params.IdioVolMin < 0 || params.IdioVolMax < params.IdioVolMin {
		return nil, ErrBadWorld
	}

	src := rand.NewSource(params.Seed)
	tt := params.SampleLength
	nn := params.NumAssets

	rfMonthly := params.Rf / monthsPerYear

	marketDist := distuv.Normal{
		Mu:    params.MuMarket / monthsPerYear,
		Sigma: params.SigmaMarket / math.Sqrt(monthsPerYear),
		Src:   src,
	}
	market := make([]float64, tt)
	for ii := range market {
		market[ii] = marketDist.Rand()
	}

	betaDist := distuv.Normal{Mu: 1, Sigma: params.BetaDispersion, Src: src}
	betas := make([]float64, nn)
	for ii := range betas {
		betas[ii] = betaDist.Rand()
	}

	volDist := distuv.Uniform{
		Min: params.IdioVolMin / math.Sqrt(monthsPerYear),
		Max: params.IdioVolMax / math.Sqrt(monthsPerYear),
		Src: src,
	}
	idioVols := make([]float64, nn)
	for ii := range idioVols {
		idioVols[ii] = volDist.Rand()
	}

	assets := make([]CAPMAsset, nn)
	for ii := 0; ii < nn; ii++ {
		noiseDist := distuv.Normal{Mu: 0, Sigma: idioVols[ii], Src: src}
		returns := make([]float64, tt)
		for jj := 0; jj < tt; jj++ {
			returns[jj] = rfMonthly + betas[ii]*market[jj] + noiseDist.Rand()
		}
		assets[ii] = CAPMAsset{
			Ticker:   fmt.Sprintf("Asset_%d", ii+1),
			Returns:  returns,
			TrueBeta: betas[ii],
		}
	}

	return &CAPMWorld{
		Assets:    assets,
		Market:    MarketReturn{Returns: market},
		RfMonthly: rfMonthly,
		Dates:     monthEndDates(tt),
	}, nil
}

// FFWorldParams configure the multi-factor world
type FFWorldParams struct {
	NumAssets      int                `json:"num_assets"`
	SampleLength   int                `json:"sample_length"`
	Rf             float64            `json:"rf"`
	FactorMeans    map[string]float64 `json:"factor_means"`
	IncludeFactors []string           `json:"include_factors"`
	Seed           uint64             `json:"seed"`
}

// DefaultFFWorldParams are the lecture defaults
func DefaultFFWorldParams() FFWorldParams {
	return FFWorldParams{
		NumAssets:    25,
		SampleLength: 240,
		Rf:           0.02,
		FactorMeans: map[string]float64{
			"MKT": 0.06,
			"SMB": 0.02,
			"HML": 0.03,
			"RMW": 0.02,
			"CMA": 0.02,
		},
		IncludeFactors: []string{"MKT", "SMB", "HML"},
		Seed:           43,
	}
}

// FFFactor is one simulated factor series
type FFFactor struct {
	Name    string    `json:"name"`
	Returns []float64 `json:"returns"`
}

// FFAsset is one synthetic asset with its true factor loadings
type FFAsset struct {
	Ticker    string             `json:"ticker"`
	Returns   []float64          `json:"returns"`
	TrueBetas map[string]float64 `json:"true_betas"`
}

// FFWorld is a synthetic multi-factor economy
type FFWorld struct {
	Assets    []FFAsset  `json:"assets"`
	Factors   []FFFactor `json:"factors"`
	RfMonthly float64    `json:"rf_monthly"`
	Dates     []string   `json:"dates"`
}

const (
	factorCorrelation = 0.3
	marketAnnualVol   = 0.16
	styleAnnualVol    = 0.10
	ffIdioAnnualVol   = 0.05
)

// GenerateFFWorld simulates a multi-factor economy. Factors draw from a
// multivariate normal with pairwise correlation 0.3; the market factor
// carries 16% annual volatility, style factors 10%.
func GenerateFFWorld(params FFWorldParams) (*FFWorld, error) {
	if params.NumAssets <= 0 || params.SampleLength <= 0 || len(params.IncludeFactors) == 0 {
		return nil, ErrBadWorld
	}
	for _, name := range params.IncludeFactors {
		if _, ok := params.FactorMeans[name]; !ok {
			return nil, ErrBadWorld
		}
	}

	src := rand.NewSource(params.Seed)
	tt := params.SampleLength
	nn := params.NumAssets
	k := len(params.IncludeFactors)

	rfMonthly := params.Rf / monthsPerYear

	means := make([]float64, k)
	vols := make([]float64, k)
	for ii, name := range params.IncludeFactors {
		means[ii] = params.FactorMeans[name] / monthsPerYear
		if name == "MKT" {
			vols[ii] = marketAnnualVol / math.Sqrt(monthsPerYear)
		} else {
			vols[ii] = styleAnnualVol / math.Sqrt(monthsPerYear)
		}
	}

	cov := mat.NewSymDense(k, nil)
	for ii := 0; ii < k; ii++ {
		for jj := ii; jj < k; jj++ {
			corr := factorCorrelation
			if ii == jj {
				corr = 1
			}
			cov.SetSym(ii, jj, vols[ii]*vols[jj]*corr)
		}
	}

	factorDist, ok := distmv.NewNormal(means, cov, src)
	if !ok {
		return nil, ErrBadWorld
	}

	factorRows := make([][]float64, tt)
	for ii := range factorRows {
		factorRows[ii] = factorDist.Rand(nil)
	}

	factors := make([]FFFactor, k)
	for jj, name := range params.IncludeFactors {
		col := make([]float64, tt)
		for ii := range factorRows {
			col[ii] = factorRows[ii][jj]
		}
		factors[jj] = FFFactor{Name: name, Returns: col}
	}

	marketBetaDist := distuv.Normal{Mu: 1, Sigma: 0.4, Src: src}
	styleBetaDist := distuv.Normal{Mu: 0, Sigma: 0.5, Src: src}
	otherBetaDist := distuv.Normal{Mu: 0, Sigma: 0.3, Src: src}
	noiseDist := distuv.Normal{Mu: 0, Sigma: ffIdioAnnualVol / math.Sqrt(monthsPerYear), Src: src}

	assets := make([]FFAsset, nn)
	for ii := 0; ii < nn; ii++ {
		betas := make([]float64, k)
		betaMap := make(map[string]float64, k)
		for jj, name := range params.IncludeFactors {
			switch name {
			case "MKT":
				betas[jj] = marketBetaDist.Rand()
			case "SMB", "HML":
				betas[jj] = styleBetaDist.Rand()
			default:
				betas[jj] = otherBetaDist.Rand()
			}
			betaMap[name] = betas[jj]
		}

		returns := make([]float64, tt)
		for row := 0; row < tt; row++ {
			r := rfMonthly + noiseDist.Rand()
			for jj := 0; jj < k; jj++ {
				r += betas[jj] * factorRows[row][jj]
			}
			returns[row] = r
		}

		assets[ii] = FFAsset{
			Ticker:    fmt.Sprintf("Asset_%d", ii+1),
			Returns:   returns,
			TrueBetas: betaMap,
		}
	}

	return &FFWorld{
		Assets:    assets,
		Factors:   factors,
		RfMonthly: rfMonthly,
		Dates:     monthEndDates(tt),
	}, nil
}

// monthEndDates generates month end dates starting January 2020
func monthEndDates(n int) []string {
	out := make([]string, n)
	for ii := 0; ii < n; ii++ {
		// day 0 of the following month is the last day of this one
		first := time.Date(2020, time.Month(1+ii), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		out[ii] = last.Format("2006-01-02")
	}
	return out
}
