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

// Package factors loads the monthly Fama-French research factor datasets
// and runs factor regressions and the GRS pricing test against them.
package factors

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Model selects which factor set a request runs against
type Model string

const (
	FF3 Model = "FF3"
	FF5 Model = "FF5"
)

var ff3Factors = []string{"Mkt-RF", "SMB", "HML"}
var ff5Factors = []string{"Mkt-RF", "SMB", "HML", "RMW", "CMA"}

// monthly rows in the Ken French files carry a YYYYMM date; everything
// else (preamble, annual factor section) is skipped
var monthRow = regexp.MustCompile(`^\d{6}$`)

// Table is a monthly factor dataset. Rows are index aligned with Dates;
// each row holds the factor columns named by Factors, as decimal returns.
// RF is the monthly risk-free rate, kept apart from the priced factors.
type Table struct {
	Factors []string
	Dates   []time.Time
	Rows    [][]float64
	RF      []float64
}

// Library holds the loaded FF3 and FF5 tables
type Library struct {
	ff3 *Table
	ff5 *Table
}

var library *Library

// InitializeLibrary loads ff3_factors.csv and ff5_factors.csv from the
// directory named by the data.factors setting
func InitializeLibrary() error {
	dir := viper.GetString("data.factors")
	subLog := log.With().Str("Directory", dir).Logger()

	ff3, err := loadTable(filepath.Join(dir, "ff3_factors.csv"), ff3Factors)
	if err != nil {
		subLog.Error().Err(err).Msg("cannot load ff3 factor data")
		return err
	}

	ff5, err := loadTable(filepath.Join(dir, "ff5_factors.csv"), ff5Factors)
	if err != nil {
		subLog.Error().Err(err).Msg("cannot load ff5 factor data")
		return err
	}

	subLog.Info().Int("FF3Months", len(ff3.Dates)).Int("FF5Months", len(ff5.Dates)).Msg("factor library loaded")
	library = &Library{ff3: ff3, ff5: ff5}
	return nil
}

// GetLibrary returns the initialized factor library
func GetLibrary() (*Library, error) {
	if library == nil {
		return nil, ErrNotInitialized
	}
	return library, nil
}

// Table returns the dataset for the requested model
func (l *Library) Table(model Model) (*Table, error) {
	switch model {
	case FF3:
		return l.ff3, nil
	case FF5:
		return l.ff5, nil
	default:
		return nil, ErrUnknownModel
	}
}

// loadTable parses a Ken French CSV. The files open with free-text
// preamble lines and close with an annual factors section; only rows
// whose first field is a YYYYMM date are monthly observations. Values are
// percentages and are converted to decimals.
func loadTable(fn string, factorNames []string) (*Table, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{Factors: factorNames}
	numCols := len(factorNames) + 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < numCols+1 || !monthRow.MatchString(record[0]) {
			continue
		}

		date, err := time.Parse("200601", record[0])
		if err != nil {
			continue
		}

		row := make([]float64, len(factorNames))
		ok := true
		for ii := 0; ii < len(factorNames); ii++ {
			v, err := strconv.ParseFloat(record[ii+1], 64)
			if err != nil {
				ok = false
				break
			}
			row[ii] = v / 100
		}
		if !ok {
			continue
		}

		rf, err := strconv.ParseFloat(record[numCols], 64)
		if err != nil {
			continue
		}

		table.Dates = append(table.Dates, date)
		table.Rows = append(table.Rows, row)
		table.RF = append(table.RF, rf/100)
	}

	return table, nil
}

// Slice returns the observations with begin ≤ date ≤ end. A nil bound is
// open.
func (t *Table) Slice(begin, end *time.Time) *Table {
	out := &Table{Factors: t.Factors}
	for ii, date := range t.Dates {
		if begin != nil && date.Before(*begin) {
			continue
		}
		if end != nil && date.After(*end) {
			continue
		}
		out.Dates = append(out.Dates, date)
		out.Rows = append(out.Rows, t.Rows[ii])
		out.RF = append(out.RF, t.RF[ii])
	}
	return out
}

// Column extracts one factor column by position
func (t *Table) Column(idx int) []float64 {
	col := make([]float64, len(t.Rows))
	for ii, row := range t.Rows {
		col[ii] = row[idx]
	}
	return col
}

// DescriptiveStats summarize one factor series
type DescriptiveStats struct {
	Factor string  `json:"factor"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Stats computes per-factor descriptive statistics
func (t *Table) Stats() []DescriptiveStats {
	out := make([]DescriptiveStats, 0, len(t.Factors))
	for idx, name := range t.Factors {
		col := t.Column(idx)
		if len(col) == 0 {
			out = append(out, DescriptiveStats{Factor: name})
			continue
		}
		out = append(out, DescriptiveStats{
			Factor: name,
			Mean:   stat.Mean(col, nil),
			Std:    stat.StdDev(col, nil),
			Min:    floats.Min(col),
			Max:    floats.Max(col),
		})
	}
	return out
}

// CorrelationMatrix is the pairwise factor correlation matrix, row and
// column ordered by Factors
type CorrelationMatrix struct {
	Factors []string    `json:"factors"`
	Matrix  [][]float64 `json:"matrix"`
}

// Correlation computes the factor correlation matrix
func (t *Table) Correlation() *CorrelationMatrix {
	n := len(t.Factors)
	if len(t.Rows) == 0 {
		return &CorrelationMatrix{Factors: t.Factors, Matrix: [][]float64{}}
	}
	obs := mat.NewDense(len(t.Rows), n, nil)
	for ii, row := range t.Rows {
		obs.SetRow(ii, row)
	}

	corr := mat.NewSymDense(n, nil)
	stat.CorrelationMatrix(corr, obs, nil)

	matrix := make([][]float64, n)
	for ii := 0; ii < n; ii++ {
		matrix[ii] = make([]float64, n)
		for jj := 0; jj < n; jj++ {
			matrix[ii][jj] = corr.At(ii, jj)
		}
	}

	return &CorrelationMatrix{Factors: t.Factors, Matrix: matrix}
}
