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

package router

import (
	"github.com/invest-lab/ail-api/handler"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", handler.Health)

	// Market data
	api.Post("/data/prices", handler.FetchPrices)

	// Mean-variance optimization
	api.Post("/portfolio/efficient-frontier", handler.EfficientFrontier)

	// Asset pricing models
	api.Post("/model/capm", handler.RunCAPM)
	api.Post("/model/factors", handler.RunFactorAnalysis)
	api.Post("/factor/model", handler.RunFactorModel)

	// Fama-French lab
	api.Get("/ff/data", handler.GetFactorData)
	api.Post("/ff/analyze", handler.AnalyzePortfolios)
	api.Post("/ff/grs", handler.GRSTest)

	// Performance and risk
	api.Post("/risk/performance", handler.Performance)

	// Utility theory
	api.Post("/utility/curves", handler.UtilityCurves)
	api.Post("/utility/sdf", handler.SDF)

	// Fixed income
	api.Get("/fixedincome/data", handler.FixedIncomeData)
	api.Post("/fixedincome/risk-neutral", handler.RiskNeutral)

	// Synthetic worlds
	api.Post("/theory/capm-world", handler.CAPMWorld)
	api.Post("/theory/ff-world", handler.FFWorld)
}
