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

package factors

import (
	"sort"
	"time"

	"github.com/invest-lab/ail-api/data"
	"github.com/invest-lab/ail-api/regression"
)

// Loading is one estimated factor exposure
type Loading struct {
	Factor string  `json:"factor"`
	Beta   float64 `json:"beta"`
	TStat  float64 `json:"tstat"`
}

// RegressionResult is a single portfolio's time-series regression on the
// factor set. Alpha is the monthly pricing error.
type RegressionResult struct {
	Portfolio   string    `json:"portfolio"`
	Alpha       float64   `json:"alpha"`
	AlphaTStat  float64   `json:"alphaTStat"`
	AlphaPValue float64   `json:"alphaPValue"`
	Loadings    []Loading `json:"loadings"`
	R2          float64   `json:"r2"`
	AdjR2       float64   `json:"adjR2"`
}

// AnalysisReport aggregates regression results across portfolios
type AnalysisReport struct {
	Model             Model              `json:"model"`
	Regressions       []RegressionResult `json:"regressions"`
	AvgR2             float64            `json:"avgR2"`
	AvgAdjR2          float64            `json:"avgAdjR2"`
	SignificantAlphas int                `json:"significantAlphas"`
}

const alphaSignificance = 0.05

// monthKey collapses a date to its month so end-of-month portfolio dates
// line up with the first-of-month factor dates
func monthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// align intersects a portfolio return series with the factor table by
// month. Returns the excess portfolio returns and the factor rows for the
// overlapping months, in chronological order.
func (t *Table) align(returns []data.Return) ([]float64, [][]float64) {
	tableIdx := make(map[int]int, len(t.Dates))
	for ii, date := range t.Dates {
		tableIdx[monthKey(date)] = ii
	}

	byMonth := make(map[int]float64, len(returns))
	months := make([]int, 0, len(returns))
	for _, r := range returns {
		key := monthKey(r.Date)
		if _, ok := tableIdx[key]; !ok {
			continue
		}
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		byMonth[key] = r.Ret
	}
	sort.Ints(months)

	excess := make([]float64, 0, len(months))
	rows := make([][]float64, 0, len(months))
	for _, key := range months {
		ii := tableIdx[key]
		excess = append(excess, byMonth[key]-t.RF[ii])
		rows = append(rows, t.Rows[ii])
	}
	return excess, rows
}

// regress runs the excess-return time-series regression for one portfolio
func (t *Table) regress(name string, returns []data.Return) (*RegressionResult, error) {
	excess, rows := t.align(returns)
	if len(excess) == 0 {
		return nil, ErrNoOverlap
	}

	k := len(t.Factors)
	cols := make([][]float64, k)
	for jj := 0; jj < k; jj++ {
		col := make([]float64, len(rows))
		for ii, row := range rows {
			col[ii] = row[jj]
		}
		cols[jj] = col
	}

	model, err := regression.OLS(excess, cols, true)
	if err != nil {
		return nil, err
	}

	loadings := make([]Loading, k)
	for jj := 0; jj < k; jj++ {
		loadings[jj] = Loading{
			Factor: t.Factors[jj],
			Beta:   model.Coeff[jj+1],
			TStat:  model.TStat[jj+1],
		}
	}

	return &RegressionResult{
		Portfolio:   name,
		Alpha:       model.Coeff[0],
		AlphaTStat:  model.TStat[0],
		AlphaPValue: model.PValue[0],
		Loadings:    loadings,
		R2:          model.R2,
		AdjR2:       model.AdjR2,
	}, nil
}

// Analyze runs the factor regression for every portfolio and aggregates
// fit statistics. Portfolios are processed in name order so repeated
// requests produce identical reports.
func (l *Library) Analyze(portfolios map[string][]data.Return, model Model, begin, end *time.Time) (*AnalysisReport, error) {
	table, err := l.Table(model)
	if err != nil {
		return nil, err
	}
	table = table.Slice(begin, end)

	names := make([]string, 0, len(portfolios))
	for name := range portfolios {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &AnalysisReport{Model: model, Regressions: make([]RegressionResult, 0, len(names))}

	totalR2 := 0.0
	totalAdjR2 := 0.0
	for _, name := range names {
		result, err := table.regress(name, portfolios[name])
		if err != nil {
			return nil, err
		}
		report.Regressions = append(report.Regressions, *result)
		totalR2 += result.R2
		totalAdjR2 += result.AdjR2
		if result.AlphaPValue < alphaSignificance {
			report.SignificantAlphas++
		}
	}

	if len(report.Regressions) > 0 {
		report.AvgR2 = totalR2 / float64(len(report.Regressions))
		report.AvgAdjR2 = totalAdjR2 / float64(len(report.Regressions))
	}

	return report, nil
}
