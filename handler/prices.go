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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/invest-lab/ail-api/common"
	"github.com/invest-lab/ail-api/data"
	"github.com/rs/zerolog/log"
)

type fetchPricesRequest struct {
	Tickers    []string `json:"tickers"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Interval   string   `json:"interval"`
	LogReturns bool     `json:"log_returns"`
}

// PriceDataPoint is a dated adjusted close observation
type PriceDataPoint struct {
	Date     string  `json:"date"`
	AdjClose float64 `json:"adjClose"`
}

type fetchPricesResponse struct {
	Prices  map[string][]PriceDataPoint  `json:"prices"`
	Returns map[string][]ReturnDataPoint `json:"returns"`
}

// FetchPrices serves price and return series from the static dataset.
// Identical requests are served from the response cache; the key is a
// hash of the canonicalized request body.
func FetchPrices(c *fiber.Ctx) error {
	subLog := log.With().Str("Endpoint", "FetchPrices").Logger()

	req := fetchPricesRequest{Interval: string(data.FrequencyDaily)}
	if err := c.BodyParser(&req); err != nil {
		subLog.Warn().Err(err).Msg("cannot parse request body")
		return fiber.ErrBadRequest
	}

	// canonical form: sorted tickers, explicit interval
	sort.Strings(req.Tickers)
	canonical, err := json.Marshal(req)
	if err != nil {
		subLog.Error().Err(err).Msg("cannot canonicalize request")
		return fiber.ErrInternalServerError
	}
	cacheKey := common.CacheKey("prices", canonical)

	if cached, ok := common.CacheGet(cacheKey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}

	store, err := data.GetStore()
	if err != nil {
		subLog.Error().Err(err).Msg("price store unavailable")
		return fiber.ErrInternalServerError
	}

	valid, invalid := store.Validate(req.Tickers)
	if len(invalid) > 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Invalid ticker(s): %s. Available tickers: %s",
				strings.Join(invalid, ", "), strings.Join(store.Tickers(), ", ")))
	}
	if len(valid) == 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("No valid tickers provided. Available tickers: %s",
				strings.Join(store.Tickers(), ", ")))
	}

	begin, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end date must be YYYY-MM-DD")
	}

	interval := &data.Interval{Begin: begin, End: end}
	if err := interval.Valid(); err != nil {
		return apiError(err)
	}

	dates, prices, err := store.Prices(valid, interval, data.Frequency(req.Interval))
	if err != nil {
		subLog.Warn().Err(err).Object("Interval", interval).Msg("cannot fetch prices")
		return apiError(err)
	}

	resp := fetchPricesResponse{
		Prices:  make(map[string][]PriceDataPoint, len(valid)),
		Returns: make(map[string][]ReturnDataPoint, len(valid)),
	}

	for _, ticker := range valid {
		series := prices[ticker]

		pricePoints := make([]PriceDataPoint, 0, len(series))
		for ii, price := range series {
			if math.IsNaN(price) {
				continue
			}
			pricePoints = append(pricePoints, PriceDataPoint{
				Date:     dates[ii].Format("2006-01-02"),
				AdjClose: price,
			})
		}
		resp.Prices[ticker] = pricePoints

		returns := data.Returns(dates, series, req.LogReturns)
		returnPoints := make([]ReturnDataPoint, len(returns))
		for ii, r := range returns {
			returnPoints[ii] = ReturnDataPoint{Date: r.Date.Format("2006-01-02"), Ret: r.Ret}
		}
		resp.Returns[ticker] = returnPoints
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		subLog.Error().Err(err).Msg("cannot marshal response")
		return fiber.ErrInternalServerError
	}
	if err := common.CacheSet(cacheKey, raw); err != nil {
		subLog.Warn().Err(err).Msg("cannot cache response")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
