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

// Package utility evaluates utility functions, risk aversion measures and
// stochastic discount factors on wealth and consumption growth grids.
package utility

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrUnknownUtility indicates a utility type outside the supported set
var ErrUnknownUtility = errors.New("unknown utility type")

// Kind names a utility specification
type Kind string

const (
	CRRA Kind = "CRRA"
	CARA Kind = "CARA"
	DARA Kind = "DARA"
	CAPM Kind = "CAPM"
)

// CurvePoint evaluates the utility function at a single wealth level. A
// is the absolute risk aversion -U''/U' and R the relative risk aversion
// x·A.
type CurvePoint struct {
	X      float64 `json:"x"`
	U      float64 `json:"U"`
	UPrime float64 `json:"U_prime"`
	A      float64 `json:"A"`
	R      float64 `json:"R"`
}

// CurveParams configure a utility curve sweep. Gamma drives CRRA, B
// drives CARA; DARA uses neither.
type CurveParams struct {
	Kind    Kind
	Gamma   float64
	B       float64
	XMin    float64
	XMax    float64
	NPoints int
}

const logUtilityTol = 1e-6

// Curves evaluates U, marginal utility and both risk aversion measures on
// an evenly spaced wealth grid. Non-positive grid points are dropped since
// none of the supported specifications are defined there.
func Curves(params CurveParams) ([]CurvePoint, error) {
	if params.NPoints <= 0 {
		params.NPoints = 100
	}

	grid := make([]float64, params.NPoints)
	floats.Span(grid, params.XMin, params.XMax)

	points := make([]CurvePoint, 0, params.NPoints)
	for _, x := range grid {
		if x <= 0 {
			continue
		}

		pt := CurvePoint{X: x}
		switch params.Kind {
		case CRRA:
			// U(x) = (x^(1-γ)-1)/(1-γ), reducing to log utility at γ = 1
			if math.Abs(params.Gamma-1) < logUtilityTol {
				pt.U = math.Log(x)
				pt.UPrime = 1 / x
			} else {
				pt.U = (math.Pow(x, 1-params.Gamma) - 1) / (1 - params.Gamma)
				pt.UPrime = math.Pow(x, -params.Gamma)
			}
			pt.A = params.Gamma / x
			pt.R = params.Gamma
		case CARA:
			// U(x) = -exp(-bx)
			pt.U = -math.Exp(-params.B * x)
			pt.UPrime = params.B * math.Exp(-params.B*x)
			pt.A = params.B
			pt.R = params.B * x
		case DARA:
			// U(x) = log(x) - log(1+log(x)²)/2, a form whose absolute risk
			// aversion falls in wealth
			logX := math.Log(x)
			pt.U = logX - 0.5*math.Log(1+logX*logX)
			pt.UPrime = 1 / (x * (1 + logX*logX))
			pt.A = 1 / (x * (1 + logX))
			pt.R = 1 / (1 + logX)
		default:
			return nil, ErrUnknownUtility
		}

		points = append(points, pt)
	}

	return points, nil
}

// SDFPoint is the stochastic discount factor at one consumption growth
// rate
type SDFPoint struct {
	DeltaC float64 `json:"delta_c"`
	M      float64 `json:"m"`
}

// SDFParams configure an SDF sweep. Beta is the subjective time discount
// factor.
type SDFParams struct {
	Kind    Kind
	Gamma   float64
	B       float64
	Beta    float64
	NPoints int
}

// consumption growth grid bounds
const (
	sdfGrowthMin = -0.10
	sdfGrowthMax = 0.10
)

// SDF evaluates the stochastic discount factor implied by the utility
// specification over consumption growth from -10% to +10%, along with a
// short narrative for the lecture material.
func SDF(params SDFParams) ([]SDFPoint, string, error) {
	if params.NPoints <= 0 {
		params.NPoints = 100
	}

	grid := make([]float64, params.NPoints)
	floats.Span(grid, sdfGrowthMin, sdfGrowthMax)

	points := make([]SDFPoint, len(grid))
	var interpretation string

	switch params.Kind {
	case CRRA:
		// m = β·g^(-γ)
		for ii, dc := range grid {
			points[ii] = SDFPoint{DeltaC: dc, M: params.Beta * math.Pow(1+dc, -params.Gamma)}
		}
		interpretation = fmt.Sprintf(
			"CRRA SDF with γ=%.2f: Higher consumption growth reduces SDF (states with high consumption are less valuable). The convex shape shows risk aversion - downside states get exponentially higher weights.",
			params.Gamma)
	case CARA:
		// m ≈ β·exp(-b·ΔC), ΔC scaled to percent for a visible slope
		for ii, dc := range grid {
			points[ii] = SDFPoint{DeltaC: dc, M: params.Beta * math.Exp(-params.B*dc*100)}
		}
		interpretation = fmt.Sprintf(
			"CARA SDF with b=%.4f: Exponentially declining with consumption growth. Constant absolute risk aversion means SDF slope is independent of wealth level.",
			params.B)
	case CAPM:
		// affine first-order approximation m ≈ 1 - γ·ΔC with γ = 3
		for ii, dc := range grid {
			points[ii] = SDFPoint{DeltaC: dc, M: 1 - 3*dc}
		}
		interpretation = "CAPM linear SDF: Simplified affine form m = a + b*R_m. This is a first-order approximation to CRRA. The linear relationship makes asset pricing tractable but misses higher-order risk aversion effects."
	default:
		return nil, "", ErrUnknownUtility
	}

	return points, interpretation, nil
}
