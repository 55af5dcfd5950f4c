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

// Package handler implements the HTTP endpoints. Handlers parse and
// validate request bodies, delegate to the computation packages and map
// their sentinel errors onto HTTP status codes.
package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/invest-lab/ail-api/common"
	"github.com/invest-lab/ail-api/data"
	"github.com/invest-lab/ail-api/factors"
	"github.com/invest-lab/ail-api/fixedincome"
	"github.com/invest-lab/ail-api/portfolio"
	"github.com/invest-lab/ail-api/regression"
	"github.com/invest-lab/ail-api/theory"
	"github.com/invest-lab/ail-api/utility"
)

// ReturnDataPoint is a dated return observation as it appears in request
// and response bodies
type ReturnDataPoint struct {
	Date string  `json:"date"`
	Ret  float64 `json:"ret"`
}

// toReturns converts wire observations to the data layer representation.
// Dates that do not parse are dropped rather than failing the request.
func toReturns(points []ReturnDataPoint) []data.Return {
	out := make([]data.Return, 0, len(points))
	for _, pt := range points {
		date, err := time.Parse("2006-01-02", pt.Date)
		if err != nil {
			continue
		}
		out = append(out, data.Return{Date: date, Ret: pt.Ret})
	}
	return out
}

// rets extracts the bare return values from wire observations
func rets(points []ReturnDataPoint) []float64 {
	out := make([]float64, len(points))
	for ii, pt := range points {
		out[ii] = pt.Ret
	}
	return out
}

// badRequestErrors map to HTTP 400; anything else a computation package
// returns is a 500
var badRequestErrors = []error{
	data.ErrUnknownTicker,
	data.ErrNoData,
	data.ErrBeginAfterEnd,
	data.ErrNoTickers,
	portfolio.ErrInvalidRequest,
	portfolio.ErrInsufficientData,
	regression.ErrInsufficientData,
	factors.ErrUnknownModel,
	factors.ErrNoOverlap,
	factors.ErrInsufficientObservations,
	utility.ErrUnknownUtility,
	fixedincome.ErrDegenerateLattice,
	theory.ErrBadWorld,
}

// apiError converts a computation error to a fiber error with the right
// status code, preserving the sentinel's message
func apiError(err error) error {
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

// parseDate parses an optional YYYY-MM-DD value; empty means unset
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Health reports service liveness and the running version
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": common.CurrentVersion.String(),
	})
}
