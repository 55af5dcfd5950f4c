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

package data

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AvailableTickers is the fixed universe of the static dataset; ^GSPC is
// included as the market proxy for CAPM
var AvailableTickers = []string{"SPY", "QQQ", "IWM", "XLF", "TLT", "HYG", "GLD", "SLV", "UUP", "VIXY", "^GSPC"}

// Store holds the static price dataset. It is loaded once at process start
// and read-only thereafter; all request handling reads from the same
// instance and no method mutates it.
type Store struct {
	tickers []string
	index   map[string]int
	dates   []time.Time
	prices  [][]float64 // one row per date; missing entries are NaN
}

var store *Store

// InitializeStore loads the static dataset from the CSV configured under
// `data.prices` and installs it as the process-wide store
func InitializeStore() error {
	s, err := NewStoreFromCSV(viper.GetString("data.prices"))
	if err != nil {
		return err
	}
	store = s
	log.Info().
		Int("NumDays", len(s.dates)).
		Int("NumAssets", len(s.tickers)).
		Time("Begin", s.dates[0]).
		Time("End", s.dates[len(s.dates)-1]).
		Msg("loaded static price dataset")
	return nil
}

// GetStore returns the process-wide store; InitializeStore must run first
func GetStore() (*Store, error) {
	if store == nil {
		return nil, ErrNotInitialized
	}
	return store, nil
}

// NewStoreFromCSV reads a price table whose first column is the date
// (YYYY-MM-DD) and whose remaining columns are adjusted close prices per
// ticker. Columns outside the known universe are dropped.
func NewStoreFromCSV(fn string) (*Store, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%w: expected a header row and at least one price row", ErrMalformedCSV)
	}

	header := records[0]
	known := make(map[string]bool, len(AvailableTickers))
	for _, ticker := range AvailableTickers {
		known[ticker] = true
	}

	s := &Store{
		index: make(map[string]int),
	}

	// map CSV columns onto the universe, preserving CSV column order
	colIdx := make([]int, 0, len(header))
	for ii, name := range header[1:] {
		if known[name] {
			s.index[name] = len(s.tickers)
			s.tickers = append(s.tickers, name)
			colIdx = append(colIdx, ii+1)
		}
	}

	if len(s.tickers) == 0 {
		return nil, fmt.Errorf("%w: no known tickers in header", ErrMalformedCSV)
	}

	for _, record := range records[1:] {
		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrMalformedCSV, record[0])
		}

		row := make([]float64, len(s.tickers))
		for jj, col := range colIdx {
			if col >= len(record) || record[col] == "" {
				row[jj] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				row[jj] = math.NaN()
				continue
			}
			row[jj] = v
		}

		s.dates = append(s.dates, date)
		s.prices = append(s.prices, row)
	}

	return s, nil
}

// Tickers returns the tickers present in the dataset
func (s *Store) Tickers() []string {
	out := make([]string, len(s.tickers))
	copy(out, s.tickers)
	return out
}

// Validate splits the requested tickers into those present in the dataset
// and those that are not
func (s *Store) Validate(tickers []string) (valid []string, invalid []string) {
	for _, ticker := range tickers {
		if _, ok := s.index[ticker]; ok {
			valid = append(valid, ticker)
		} else {
			invalid = append(invalid, ticker)
		}
	}
	return valid, invalid
}

// Prices returns the per-ticker price series over the requested interval,
// resampled to the requested frequency. Dates and values are aligned;
// missing observations stay NaN.
func (s *Store) Prices(tickers []string, interval *Interval, freq Frequency) ([]time.Time, map[string][]float64, error) {
	if err := interval.Valid(); err != nil {
		return nil, nil, err
	}
	if len(tickers) == 0 {
		return nil, nil, ErrNoTickers
	}

	cols := make([]int, len(tickers))
	for ii, ticker := range tickers {
		col, ok := s.index[ticker]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
		}
		cols[ii] = col
	}

	rows := make([]int, 0, len(s.dates))
	for ii, date := range s.dates {
		if interval.Contains(date) {
			rows = append(rows, ii)
		}
	}

	if len(rows) == 0 {
		return nil, nil, ErrNoData
	}

	rows = s.resample(rows, freq)

	dates := make([]time.Time, len(rows))
	series := make(map[string][]float64, len(tickers))
	for ii, ticker := range tickers {
		vals := make([]float64, len(rows))
		for jj, row := range rows {
			vals[jj] = s.prices[row][cols[ii]]
		}
		series[ticker] = vals
	}
	for jj, row := range rows {
		dates[jj] = s.dates[row]
	}

	return dates, series, nil
}

// resample reduces daily row indices to the last trading day of each
// calendar week or month. Daily data passes through untouched.
func (s *Store) resample(rows []int, freq Frequency) []int {
	switch freq {
	case FrequencyWeekly:
		return s.lastOfPeriod(rows, func(t time.Time) (int, int) {
			year, week := t.ISOWeek()
			return year, week
		})
	case FrequencyMonthly:
		return s.lastOfPeriod(rows, func(t time.Time) (int, int) {
			return t.Year(), int(t.Month())
		})
	default:
		return rows
	}
}

func (s *Store) lastOfPeriod(rows []int, key func(time.Time) (int, int)) []int {
	out := make([]int, 0, len(rows)/5+1)
	for ii, row := range rows {
		if ii == len(rows)-1 {
			out = append(out, row)
			continue
		}
		y1, p1 := key(s.dates[row])
		y2, p2 := key(s.dates[rows[ii+1]])
		if y1 != y2 || p1 != p2 {
			out = append(out, row)
		}
	}
	return out
}
