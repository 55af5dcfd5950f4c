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

package fixedincome

import (
	"math"
)

// CurvePoint is a single maturity/yield pair on a snapshot curve
type CurvePoint struct {
	Maturity string  `json:"maturity"`
	Yield    float64 `json:"yield"`
}

// CurveSnapshot is the full yield curve on one reference date
type CurveSnapshot struct {
	Date   string       `json:"date"`
	Points []CurvePoint `json:"points"`
}

// SpreadPoint is the term and credit spreads at one month
type SpreadPoint struct {
	Date           string  `json:"date"`
	TermSpread     float64 `json:"term_spread"`
	CreditSpreadIG float64 `json:"credit_spread_ig"`
	CreditSpreadHY float64 `json:"credit_spread_hy"`
}

// BondSensitivity is a bond's duration-convexity price response to a
// ±100bp parallel rate shift, in percent
type BondSensitivity struct {
	Bond           string  `json:"bond"`
	Maturity       float64 `json:"maturity"`
	Coupon         float64 `json:"coupon"`
	Yield          float64 `json:"yield"`
	Duration       float64 `json:"duration"`
	Convexity      float64 `json:"convexity"`
	PriceChgNeg100 float64 `json:"price_change_neg100"`
	PriceChgPos100 float64 `json:"price_change_pos100"`
}

// Report is the full fixed income dataset response
type Report struct {
	YieldCurves      []CurveSnapshot   `json:"yield_curves"`
	TermSpreads      []SpreadPoint     `json:"term_spreads"`
	Bonds            []BondSensitivity `json:"bonds"`
	LatestTermSpread float64           `json:"latest_term_spread"`
	LatestCreditIG   float64           `json:"latest_credit_ig"`
	LatestCreditHY   float64           `json:"latest_credit_hy"`
}

const (
	idx3M  = 0
	idx10Y = 3
)

// Report assembles snapshot curves, the spread time series and bond
// sensitivities from the loaded datasets
func (ds *Dataset) Report() *Report {
	report := &Report{
		YieldCurves: ds.snapshotCurves(),
		TermSpreads: ds.spreadSeries(),
		Bonds:       ds.bondSensitivities(),
	}

	if len(ds.yields) > 0 {
		latest := ds.yields[len(ds.yields)-1]
		report.LatestTermSpread = round4(latest.Yields[idx10Y] - latest.Yields[idx3M])
	}
	if len(ds.spreads) > 0 {
		latest := ds.spreads[len(ds.spreads)-1]
		report.LatestCreditIG = round4(latest.IG)
		report.LatestCreditHY = round4(latest.HY)
	}

	return report
}

func (ds *Dataset) snapshotCurves() []CurveSnapshot {
	byDate := make(map[string]yieldRow, len(ds.yields))
	for _, row := range ds.yields {
		byDate[row.Date.Format("2006-01-02")] = row
	}

	curves := make([]CurveSnapshot, 0, len(snapshotDates))
	for _, dateStr := range snapshotDates {
		row, ok := byDate[dateStr]
		if !ok {
			continue
		}
		points := make([]CurvePoint, len(maturities))
		for ii, m := range maturities {
			points[ii] = CurvePoint{Maturity: m, Yield: row.Yields[ii]}
		}
		curves = append(curves, CurveSnapshot{Date: dateStr, Points: points})
	}
	return curves
}

// spreadSeries joins the yield and credit tables row by row. Months with
// a missing 10Y or 3M yield are dropped; a missing credit spread is
// reported as zero.
func (ds *Dataset) spreadSeries() []SpreadPoint {
	out := make([]SpreadPoint, 0, len(ds.yields))
	for ii, row := range ds.yields {
		y10 := row.Yields[idx10Y]
		y3m := row.Yields[idx3M]
		if math.IsNaN(y10) || math.IsNaN(y3m) {
			continue
		}

		pt := SpreadPoint{
			Date:       row.Date.Format("2006-01-02"),
			TermSpread: y10 - y3m,
		}
		if ii < len(ds.spreads) {
			if !math.IsNaN(ds.spreads[ii].IG) {
				pt.CreditSpreadIG = ds.spreads[ii].IG
			}
			if !math.IsNaN(ds.spreads[ii].HY) {
				pt.CreditSpreadHY = ds.spreads[ii].HY
			}
		}
		out = append(out, pt)
	}
	return out
}

func (ds *Dataset) bondSensitivities() []BondSensitivity {
	out := make([]BondSensitivity, 0, len(ds.bonds))
	for _, bond := range ds.bonds {
		// ΔP/P ≈ -D·Δy + C·Δy²/2, reported in percent
		const shift = 0.01
		chgNeg := -bond.Duration*(-shift) + 0.5*bond.Convexity*shift*shift
		chgPos := -bond.Duration*shift + 0.5*bond.Convexity*shift*shift

		out = append(out, BondSensitivity{
			Bond:           bond.Name,
			Maturity:       bond.Maturity,
			Coupon:         bond.Coupon,
			Yield:          bond.Yield,
			Duration:       bond.Duration,
			Convexity:      bond.Convexity,
			PriceChgNeg100: round2(chgNeg * 100),
			PriceChgPos100: round2(chgPos * 100),
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
