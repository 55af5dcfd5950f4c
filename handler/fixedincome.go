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
	"github.com/invest-lab/ail-api/fixedincome"
	"github.com/rs/zerolog/log"
)

// FixedIncomeData serves the yield curve snapshots, spread series and
// bond sensitivities
func FixedIncomeData(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "FixedIncomeData").Logger()

	ds, err := fixedincome.GetDataset()
	if err != nil {
		subLog.Error().Err(err).Msg("fixed income dataset unavailable")
		return fiber.ErrInternalServerError
	}

	return c.JSON(ds.Report())
}

// RiskNeutral prices a one-period call option on the binomial lattice
func RiskNeutral(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "RiskNeutral").Logger()

	params := fixedincome.BinomialParams{S: 100, K: 100, U: 1.1, D: 0.9, R: 0.03}
	if err := c.BodyParser(&params); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	result, err := fixedincome.RiskNeutral(params)
	if err != nil {
		subLog.Warn().Err(err).
			Float64("U", params.U).Float64("D", params.D).
			Msg("cannot price lattice")
		return apiError(err)
	}

	return c.JSON(result)
}
