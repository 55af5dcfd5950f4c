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
	"github.com/invest-lab/ail-api/theory"
	"github.com/rs/zerolog/log"
)

// CAPMWorld generates a seeded synthetic single-factor economy with
// known true betas
func CAPMWorld(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "CAPMWorld").Logger()

	params := theory.DefaultCAPMWorldParams()
	if err := c.BodyParser(&params); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	world, err := theory.GenerateCAPMWorld(params)
	if err != nil {
		subLog.Warn().Err(err).Int("NumAssets", params.NumAssets).Msg("cannot generate capm world")
		return apiError(err)
	}

	return c.JSON(world)
}

// FFWorld generates a seeded synthetic multi-factor economy with known
// true loadings
func FFWorld(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "FFWorld").Logger()

	params := theory.DefaultFFWorldParams()
	if err := c.BodyParser(&params); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	world, err := theory.GenerateFFWorld(params)
	if err != nil {
		subLog.Warn().Err(err).Int("NumAssets", params.NumAssets).Msg("cannot generate ff world")
		return apiError(err)
	}

	return c.JSON(world)
}
