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
	"github.com/gofiber/fiber/v2"
	"github.com/invest-lab/ail-api/data"
	"github.com/invest-lab/ail-api/factors"
	"github.com/rs/zerolog/log"
)

// ffPoint is one month of factor observations on the wire
type ffPoint struct {
	Date  string   `json:"date"`
	MktRF float64  `json:"Mkt-RF"`
	SMB   float64  `json:"SMB"`
	HML   float64  `json:"HML"`
	RMW   *float64 `json:"RMW,omitempty"`
	CMA   *float64 `json:"CMA,omitempty"`
	RF    float64  `json:"RF"`
}

type factorDataResponse struct {
	FF3      []ffPoint                  `json:"ff3"`
	FF5      []ffPoint                  `json:"ff5"`
	StatsFF3 []factors.DescriptiveStats `json:"descriptive_stats_ff3"`
	StatsFF5 []factors.DescriptiveStats `json:"descriptive_stats_ff5"`
	CorrFF3  *factors.CorrelationMatrix `json:"correlation_ff3"`
	CorrFF5  *factors.CorrelationMatrix `json:"correlation_ff5"`
}

func tableToPoints(table *factors.Table) []ffPoint {
	ff5 := len(table.Factors) == 5
	points := make([]ffPoint, len(table.Dates))
	for ii, date := range table.Dates {
		row := table.Rows[ii]
		pt := ffPoint{
			Date:  date.Format("2006-01-02"),
			MktRF: row[0],
			SMB:   row[1],
			HML:   row[2],
			RF:    table.RF[ii],
		}
		if ff5 {
			rmw, cma := row[3], row[4]
			pt.RMW = &rmw
			pt.CMA = &cma
		}
		points[ii] = pt
	}
	return points
}

// GetFactorData serves the FF3 and FF5 factor series with descriptive
// statistics and correlation matrices, optionally date filtered via the
// start_date and end_date query parameters
func GetFactorData(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "GetFactorData").Logger()

	begin, err := parseDate(c.Query("start_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(c.Query("end_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}

	library, err := factors.GetLibrary()
	if err != nil {
		subLog.Error().Err(err).Msg("factor library unavailable")
		return fiber.ErrInternalServerError
	}

	ff3, _ := library.Table(factors.FF3)
	ff5, _ := library.Table(factors.FF5)
	ff3 = ff3.Slice(begin, end)
	ff5 = ff5.Slice(begin, end)

	return c.JSON(factorDataResponse{
		FF3:      tableToPoints(ff3),
		FF5:      tableToPoints(ff5),
		StatsFF3: ff3.Stats(),
		StatsFF5: ff5.Stats(),
		CorrFF3:  ff3.Correlation(),
		CorrFF5:  ff5.Correlation(),
	})
}

type ffAnalysisRequest struct {
	Portfolios map[string][]ReturnDataPoint `json:"portfolios"`
	Model      string                       `json:"model"`
	StartDate  string                       `json:"start_date"`
	EndDate    string                       `json:"end_date"`
}

// AnalyzePortfolios runs FF3 or FF5 time-series regressions for each
// submitted portfolio
func AnalyzePortfolios(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "AnalyzePortfolios").Logger()

	var req ffAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	begin, err := parseDate(req.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}

	library, err := factors.GetLibrary()
	if err != nil {
		subLog.Error().Err(err).Msg("factor library unavailable")
		return fiber.ErrInternalServerError
	}

	portfolios := make(map[string][]data.Return, len(req.Portfolios))
	for name, points := range req.Portfolios {
		portfolios[name] = toReturns(points)
	}

	report, err := library.Analyze(portfolios, factors.Model(req.Model), begin, end)
	if err != nil {
		subLog.Warn().Err(err).Str("Model", req.Model).Msg("factor analysis failed")
		return apiError(err)
	}

	return c.JSON(report)
}

// GRSTest runs the Gibbons-Ross-Shanken joint alpha test across the
// submitted portfolios
func GRSTest(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "GRSTest").Logger()

	var req ffAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	begin, err := parseDate(req.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}

	library, err := factors.GetLibrary()
	if err != nil {
		subLog.Error().Err(err).Msg("factor library unavailable")
		return fiber.ErrInternalServerError
	}

	portfolios := make(map[string][]data.Return, len(req.Portfolios))
	for name, points := range req.Portfolios {
		portfolios[name] = toReturns(points)
	}

	result, err := library.GRS(portfolios, factors.Model(req.Model), begin, end)
	if err != nil {
		subLog.Warn().Err(err).Str("Model", req.Model).Msg("grs test failed")
		return apiError(err)
	}

	return c.JSON(result)
}
