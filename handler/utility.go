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
	"github.com/invest-lab/ail-api/utility"
	"github.com/rs/zerolog/log"
)

type utilityCurvesRequest struct {
	UtilityType string  `json:"utility_type"`
	Gamma       float64 `json:"gamma"`
	B           float64 `json:"b"`
	XMin        float64 `json:"x_min"`
	XMax        float64 `json:"x_max"`
	NPoints     int     `json:"n_points"`
}

type utilityCurvesResponse struct {
	UtilityType string               `json:"utility_type"`
	Gamma       float64              `json:"gamma"`
	B           float64              `json:"b"`
	Curves      []utility.CurvePoint `json:"curves"`
}

// UtilityCurves evaluates a utility function with its marginal utility
// and risk aversion measures on a wealth grid
func UtilityCurves(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "UtilityCurves").Logger()

	req := utilityCurvesRequest{Gamma: 3, B: 0.001, XMin: 0.1, XMax: 10, NPoints: 100}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	curves, err := utility.Curves(utility.CurveParams{
		Kind:    utility.Kind(req.UtilityType),
		Gamma:   req.Gamma,
		B:       req.B,
		XMin:    req.XMin,
		XMax:    req.XMax,
		NPoints: req.NPoints,
	})
	if err != nil {
		subLog.Warn().Err(err).Str("UtilityType", req.UtilityType).Msg("cannot compute utility curves")
		return apiError(err)
	}

	return c.JSON(utilityCurvesResponse{
		UtilityType: req.UtilityType,
		Gamma:       req.Gamma,
		B:           req.B,
		Curves:      curves,
	})
}

type sdfRequest struct {
	UtilityType string  `json:"utility_type"`
	Gamma       float64 `json:"gamma"`
	B           float64 `json:"b"`
	Beta        float64 `json:"beta"`
	NPoints     int     `json:"n_points"`
}

type sdfResponse struct {
	UtilityType    string             `json:"utility_type"`
	SDFPoints      []utility.SDFPoint `json:"sdf_points"`
	Interpretation string             `json:"interpretation"`
}

// SDF evaluates the stochastic discount factor implied by a utility
// specification over a consumption growth grid
func SDF(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "SDF").Logger()

	req := sdfRequest{Gamma: 3, B: 0.001, Beta: 0.99, NPoints: 100}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	points, interpretation, err := utility.SDF(utility.SDFParams{
		Kind:    utility.Kind(req.UtilityType),
		Gamma:   req.Gamma,
		B:       req.B,
		Beta:    req.Beta,
		NPoints: req.NPoints,
	})
	if err != nil {
		subLog.Warn().Err(err).Str("UtilityType", req.UtilityType).Msg("cannot compute sdf")
		return apiError(err)
	}

	return c.JSON(sdfResponse{
		UtilityType:    req.UtilityType,
		SDFPoints:      points,
		Interpretation: interpretation,
	})
}
