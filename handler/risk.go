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
	"github.com/invest-lab/ail-api/portfolio"
	"github.com/rs/zerolog/log"
)

type performanceRequest struct {
	Portfolio []ReturnDataPoint    `json:"portfolio"`
	Benchmark []ReturnDataPoint    `json:"benchmark"`
	Rf        float64              `json:"rf"`
	LPM       *portfolio.LPMParams `json:"lpm"`
	Interval  string               `json:"interval"`
}

// Performance computes risk-adjusted performance ratios and return
// distribution statistics for a portfolio, optionally relative to a
// benchmark
func Performance(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "Performance").Logger()

	req := performanceRequest{Rf: 0.02, Interval: string(data.FrequencyDaily)}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	stats, err := portfolio.Performance(
		rets(req.Portfolio), rets(req.Benchmark),
		req.Rf, data.Frequency(req.Interval).Annualization(), req.LPM)
	if err != nil {
		subLog.Warn().Err(err).Int("NumObservations", len(req.Portfolio)).Msg("cannot compute performance")
		return apiError(err)
	}

	return c.JSON(stats)
}
