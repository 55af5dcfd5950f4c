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

package handler

import (
	"fmt"
	"math"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/invest-lab/ail-api/data"
	"github.com/invest-lab/ail-api/regression"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const capmMinObservations = 10

type capmRequest struct {
	Returns  map[string][]ReturnDataPoint `json:"returns"`
	Market   string                       `json:"market"`
	Rf       float64                      `json:"rf"`
	Interval string                       `json:"interval"`
}

// CAPMResult is the per-asset market model estimate
type CAPMResult struct {
	Ticker         string  `json:"ticker"`
	Alpha          float64 `json:"alpha"`
	Beta           float64 `json:"beta"`
	TAlpha         float64 `json:"t_alpha"`
	TBeta          float64 `json:"t_beta"`
	R2             float64 `json:"r2"`
	ExpectedReturn float64 `json:"expected_return"`
}

// SMLPoint is one point on the security market line
type SMLPoint struct {
	Beta           float64 `json:"beta"`
	ExpectedReturn float64 `json:"expectedReturn"`
}

type capmResponse struct {
	Results []CAPMResult       `json:"results"`
	SML     []SMLPoint         `json:"sml"`
	Summary map[string]float64 `json:"summary"`
}

const numSMLPoints = 50

// RunCAPM estimates the market model for each asset against the chosen
// market proxy and builds the security market line. Assets with fewer
// than 10 clean observations are skipped.
func RunCAPM(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "RunCAPM").Logger()

	req := capmRequest{Rf: 0.025, Interval: string(data.FrequencyWeekly)}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	marketPoints, ok := req.Returns[req.Market]
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Market proxy %s not found in returns data", req.Market))
	}

	// CAPM requests default to weekly data, so an unrecognized interval
	// tag keeps the weekly annualization rather than the daily fallback
	freq := data.Frequency(req.Interval)
	switch freq {
	case data.FrequencyDaily, data.FrequencyWeekly, data.FrequencyMonthly:
	default:
		freq = data.FrequencyWeekly
	}
	annualization := freq.Annualization()
	rfPeriod := req.Rf / annualization

	market := rets(marketPoints)
	marketExcess := make([]float64, len(market))
	for ii, r := range market {
		marketExcess[ii] = r - rfPeriod
	}

	marketReturnAnnual := stat.Mean(market, nil) * annualization
	marketPremium := marketReturnAnnual - req.Rf

	tickers := make([]string, 0, len(req.Returns))
	for ticker := range req.Returns {
		if ticker != req.Market {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	results := make([]CAPMResult, 0, len(tickers))
	betas := make([]float64, 0, len(tickers))
	for _, ticker := range tickers {
		asset := rets(req.Returns[ticker])
		assetExcess := make([]float64, len(asset))
		for ii, r := range asset {
			assetExcess[ii] = r - rfPeriod
		}

		model, err := regression.OLS(assetExcess, [][]float64{marketExcess}, true)
		if err != nil || model.N < capmMinObservations {
			continue
		}

		alpha := model.Coeff[0]
		beta := model.Coeff[1]
		results = append(results, CAPMResult{
			Ticker:         ticker,
			Alpha:          alpha * annualization,
			Beta:           beta,
			TAlpha:         model.TStat[0],
			TBeta:          model.TStat[1],
			R2:             model.R2,
			ExpectedReturn: alpha*annualization + beta*marketPremium,
		})
		betas = append(betas, beta)
	}

	sml := make([]SMLPoint, 0, numSMLPoints)
	if len(betas) > 0 {
		grid := make([]float64, numSMLPoints)
		floats.Span(grid, floats.Min(betas)-0.5, floats.Max(betas)+0.5)
		for _, b := range grid {
			sml = append(sml, SMLPoint{Beta: b, ExpectedReturn: req.Rf + b*marketPremium})
		}
	}

	return c.JSON(capmResponse{
		Results: results,
		SML:     sml,
		Summary: map[string]float64{
			"market_return":     marketReturnAnnual,
			"market_volatility": stat.PopStdDev(market, nil) * math.Sqrt(annualization),
			"risk_free_rate":    req.Rf,
			"market_premium":    marketPremium,
		},
	})
}

// known factor columns for the multi-factor endpoint, in reporting order
var knownFactors = []string{"MKT_RF", "SMB", "HML", "MOM", "RMW", "CMA", "TERM", "CREDIT"}

// FactorDataPoint carries one period of factor observations; absent
// factors stay nil
type FactorDataPoint struct {
	Date   string   `json:"date"`
	MktRF  *float64 `json:"MKT_RF"`
	SMB    *float64 `json:"SMB"`
	HML    *float64 `json:"HML"`
	MOM    *float64 `json:"MOM"`
	RMW    *float64 `json:"RMW"`
	CMA    *float64 `json:"CMA"`
	TERM   *float64 `json:"TERM"`
	CREDIT *float64 `json:"CREDIT"`
}

func (pt *FactorDataPoint) value(name string) *float64 {
	switch name {
	case "MKT_RF":
		return pt.MktRF
	case "SMB":
		return pt.SMB
	case "HML":
		return pt.HML
	case "MOM":
		return pt.MOM
	case "RMW":
		return pt.RMW
	case "CMA":
		return pt.CMA
	case "TERM":
		return pt.TERM
	case "CREDIT":
		return pt.CREDIT
	}
	return nil
}

type factorAnalysisRequest struct {
	Portfolio []ReturnDataPoint `json:"portfolio"`
	Factors   []FactorDataPoint `json:"factors"`
}

// FactorLoading is one estimated exposure with its t-statistic
type FactorLoading struct {
	Factor string  `json:"factor"`
	Beta   float64 `json:"beta"`
	T      float64 `json:"t"`
}

type factorAnalysisResponse struct {
	Loadings    []FactorLoading    `json:"loadings"`
	Alpha       float64            `json:"alpha"`
	R2          float64            `json:"r2"`
	Corr        [][]float64        `json:"corr"`
	FactorMeans map[string]float64 `json:"factorMeans"`
}

// RunFactorAnalysis regresses a portfolio on the factor columns present
// in the request and reports loadings, the factor correlation matrix and
// factor means
func RunFactorAnalysis(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "RunFactorAnalysis").Logger()

	var req factorAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}
	if len(req.Factors) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no factor data provided")
	}

	// a factor participates when the first observation carries it; later
	// gaps become NaN rows the regression drops
	names := make([]string, 0, len(knownFactors))
	for _, name := range knownFactors {
		if req.Factors[0].value(name) != nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no factor data provided")
	}

	cols := make([][]float64, len(names))
	for jj, name := range names {
		col := make([]float64, len(req.Factors))
		for ii := range req.Factors {
			if v := req.Factors[ii].value(name); v != nil {
				col[ii] = *v
			} else {
				col[ii] = math.NaN()
			}
		}
		cols[jj] = col
	}

	model, err := regression.OLS(rets(req.Portfolio), cols, true)
	if err != nil {
		subLog.Warn().Err(err).Msg("factor regression failed")
		return apiError(err)
	}

	loadings := make([]FactorLoading, len(names))
	means := make(map[string]float64, len(names))
	for jj, name := range names {
		loadings[jj] = FactorLoading{Factor: name, Beta: model.Coeff[jj+1], T: model.TStat[jj+1]}
		means[name] = nanMean(cols[jj])
	}

	return c.JSON(factorAnalysisResponse{
		Loadings:    loadings,
		Alpha:       model.Coeff[0],
		R2:          model.R2,
		Corr:        correlationGrid(cols),
		FactorMeans: means,
	})
}

type factorModelRequest struct {
	AssetReturns     []ReturnDataPoint    `json:"asset_returns"`
	Factors          map[string][]float64 `json:"factors"`
	IncludeIntercept *bool                `json:"include_intercept"`
}

// FactorLoadingResult is a loading with full inference output
type FactorLoadingResult struct {
	Factor     string  `json:"factor"`
	Beta       float64 `json:"beta"`
	TStat      float64 `json:"t_stat"`
	PValue     float64 `json:"p_value"`
	MeanReturn float64 `json:"mean_return"`
}

type factorModelResponse struct {
	Loadings    []FactorLoadingResult `json:"loadings"`
	Alpha       float64               `json:"alpha"`
	AlphaTStat  float64               `json:"alpha_t_stat"`
	AlphaPValue float64               `json:"alpha_p_value"`
	R2          float64               `json:"r_squared"`
	AdjR2       float64               `json:"adj_r_squared"`
	ResidualStd float64               `json:"residual_std"`
}

// RunFactorModel fits a generic factor model with user-supplied factor
// series. Factors are processed in name order so responses are stable.
func RunFactorModel(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "RunFactorModel").Logger()

	var req factorModelRequest
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}
	if len(req.Factors) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no factor data provided")
	}

	intercept := true
	if req.IncludeIntercept != nil {
		intercept = *req.IncludeIntercept
	}

	names := make([]string, 0, len(req.Factors))
	for name := range req.Factors {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([][]float64, len(names))
	for jj, name := range names {
		cols[jj] = req.Factors[name]
	}

	model, err := regression.OLS(rets(req.AssetReturns), cols, intercept)
	if err != nil {
		subLog.Warn().Err(err).Msg("factor model regression failed")
		return apiError(err)
	}

	offset := 0
	resp := factorModelResponse{
		R2:          model.R2,
		AdjR2:       model.AdjR2,
		ResidualStd: model.ResidualStd,
		AlphaPValue: 1,
	}
	if intercept {
		offset = 1
		resp.Alpha = model.Coeff[0]
		resp.AlphaTStat = model.TStat[0]
		resp.AlphaPValue = model.PValue[0]
	}

	resp.Loadings = make([]FactorLoadingResult, len(names))
	for jj, name := range names {
		resp.Loadings[jj] = FactorLoadingResult{
			Factor:     name,
			Beta:       model.Coeff[jj+offset],
			TStat:      model.TStat[jj+offset],
			PValue:     model.PValue[jj+offset],
			MeanReturn: stat.Mean(req.Factors[name], nil),
		}
	}

	return c.JSON(resp)
}

// nanMean averages the non-NaN entries
func nanMean(x []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// correlationGrid computes the pairwise correlation matrix of the factor
// columns, truncated to the shortest column
func correlationGrid(cols [][]float64) [][]float64 {
	n := len(cols)
	minLen := len(cols[0])
	for _, col := range cols {
		if len(col) < minLen {
			minLen = len(col)
		}
	}

	grid := make([][]float64, n)
	for ii := 0; ii < n; ii++ {
		grid[ii] = make([]float64, n)
		for jj := 0; jj < n; jj++ {
			if ii == jj {
				grid[ii][jj] = 1
				continue
			}
			grid[ii][jj] = stat.Correlation(cols[ii][:minLen], cols[jj][:minLen], nil)
		}
	}
	return grid
}
