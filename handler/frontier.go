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

type efficientFrontierRequest struct {
	Returns    map[string][]ReturnDataPoint `json:"returns"`
	Rf         float64                      `json:"rf"`
	AllowShort bool                         `json:"allow_short"`
	MaxWeight  float64                      `json:"max_weight"`
	Interval   string                       `json:"interval"`
}

// EfficientFrontier computes the mean-variance frontier, tangency
// portfolio and capital market line for the requested asset universe
func EfficientFrontier(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "EfficientFrontier").Logger()

	req := efficientFrontierRequest{MaxWeight: 1, Interval: string(data.FrequencyDaily)}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	series := make(map[string][]float64, len(req.Returns))
	for ticker, points := range req.Returns {
		series[ticker] = rets(points)
	}

	frontier, err := portfolio.EfficientFrontier(series, portfolio.Options{
		Rf:            req.Rf,
		AllowShort:    req.AllowShort,
		MaxWeight:     req.MaxWeight,
		Annualization: data.Frequency(req.Interval).Annualization(),
	})
	if err != nil {
		subLog.Warn().Err(err).Int("NumAssets", len(series)).Msg("optimization failed")
		return apiError(err)
	}

	return c.JSON(frontier)
}
