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

// Package fixedincome serves the historical yield curve, credit spread
// and bond sensitivity datasets along with a one-period binomial
// risk-neutral pricing calculator.
package fixedincome

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	// ErrNotInitialized indicates InitializeData has not been called
	ErrNotInitialized = errors.New("fixed income data not initialized")

	// ErrMalformedCSV indicates a dataset file that cannot be parsed
	ErrMalformedCSV = errors.New("malformed fixed income csv")
)

var maturities = []string{"3M", "2Y", "5Y", "10Y", "30Y"}

// snapshot dates chosen to show distinct curve regimes (normal, flat,
// pandemic, inverted, latest)
var snapshotDates = []string{"2015-01-31", "2018-01-31", "2020-03-31", "2023-01-31", "2024-12-31"}

type yieldRow struct {
	Date   time.Time
	Yields []float64
}

type spreadRow struct {
	Date time.Time
	IG   float64
	HY   float64
}

// Bond is one row of the bond characteristics table
type Bond struct {
	Name      string
	Maturity  float64
	Coupon    float64
	Yield     float64
	Duration  float64
	Convexity float64
}

// Dataset holds the loaded fixed income CSVs
type Dataset struct {
	yields  []yieldRow
	spreads []spreadRow
	bonds   []Bond
}

var dataset *Dataset

// InitializeData loads yield_curves.csv, credit_spreads.csv and bonds.csv
// from the directory named by the data.fixedincome setting
func InitializeData() error {
	dir := viper.GetString("data.fixedincome")
	subLog := log.With().Str("Directory", dir).Logger()

	ds := &Dataset{}
	var err error

	if ds.yields, err = loadYieldCurves(filepath.Join(dir, "yield_curves.csv")); err != nil {
		subLog.Error().Err(err).Msg("cannot load yield curves")
		return err
	}
	if ds.spreads, err = loadCreditSpreads(filepath.Join(dir, "credit_spreads.csv")); err != nil {
		subLog.Error().Err(err).Msg("cannot load credit spreads")
		return err
	}
	if ds.bonds, err = loadBonds(filepath.Join(dir, "bonds.csv")); err != nil {
		subLog.Error().Err(err).Msg("cannot load bond table")
		return err
	}

	subLog.Info().
		Int("YieldMonths", len(ds.yields)).
		Int("SpreadMonths", len(ds.spreads)).
		Int("Bonds", len(ds.bonds)).
		Msg("fixed income data loaded")

	dataset = ds
	return nil
}

// GetDataset returns the initialized fixed income dataset
func GetDataset() (*Dataset, error) {
	if dataset == nil {
		return nil, ErrNotInitialized
	}
	return dataset, nil
}

func openCSV(fn string) (*os.File, *csv.Reader, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}
	reader := csv.NewReader(fh)
	reader.TrimLeadingSpace = true
	return fh, reader, nil
}

func loadYieldCurves(fn string) ([]yieldRow, error) {
	fh, reader, err := openCSV(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, ErrMalformedCSV
	}

	// map maturity columns by header name; Date must be first
	colIdx := make([]int, len(maturities))
	for ii, m := range maturities {
		colIdx[ii] = -1
		for jj, name := range header {
			if name == m {
				colIdx[ii] = jj
			}
		}
		if colIdx[ii] < 0 {
			return nil, ErrMalformedCSV
		}
	}

	var rows []yieldRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, ErrMalformedCSV
		}

		yields := make([]float64, len(maturities))
		for ii, idx := range colIdx {
			v, err := strconv.ParseFloat(record[idx], 64)
			if err != nil {
				v = math.NaN()
			}
			yields[ii] = v
		}
		rows = append(rows, yieldRow{Date: date, Yields: yields})
	}

	return rows, nil
}

func loadCreditSpreads(fn string) ([]spreadRow, error) {
	fh, reader, err := openCSV(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	header, err := reader.Read()
	if err != nil {
		return nil, ErrMalformedCSV
	}

	igIdx, hyIdx := -1, -1
	for jj, name := range header {
		switch name {
		case "IG_Spread":
			igIdx = jj
		case "HY_Spread":
			hyIdx = jj
		}
	}
	if igIdx < 0 || hyIdx < 0 {
		return nil, ErrMalformedCSV
	}

	var rows []spreadRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, ErrMalformedCSV
		}

		ig, err := strconv.ParseFloat(record[igIdx], 64)
		if err != nil {
			ig = math.NaN()
		}
		hy, err := strconv.ParseFloat(record[hyIdx], 64)
		if err != nil {
			hy = math.NaN()
		}
		rows = append(rows, spreadRow{Date: date, IG: ig, HY: hy})
	}

	return rows, nil
}

func loadBonds(fn string) ([]Bond, error) {
	fh, reader, err := openCSV(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	if _, err := reader.Read(); err != nil {
		return nil, ErrMalformedCSV
	}

	var bonds []Bond
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 6 {
			return nil, ErrMalformedCSV
		}

		vals := make([]float64, 5)
		for ii := 0; ii < 5; ii++ {
			v, err := strconv.ParseFloat(record[ii+1], 64)
			if err != nil {
				return nil, ErrMalformedCSV
			}
			vals[ii] = v
		}

		bonds = append(bonds, Bond{
			Name:      record[0],
			Maturity:  vals[0],
			Coupon:    vals[1],
			Yield:     vals[2],
			Duration:  vals[3],
			Convexity: vals[4],
		})
	}

	return bonds, nil
}
