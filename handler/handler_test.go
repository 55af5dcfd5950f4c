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

package handler_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/invest-lab/ail-api/factors"
	"github.com/invest-lab/ail-api/handler"
)

// request sends a JSON request through the fiber app and returns the
// status code and raw response body
func request(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	Expect(err).To(BeNil())
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	Expect(err).To(BeNil())
	return resp.StatusCode, raw
}

// returnSeries builds wire return observations from bare values; the
// dates only matter for the month-aligned endpoints
func returnSeries(values []float64) []handler.ReturnDataPoint {
	out := make([]handler.ReturnDataPoint, len(values))
	for ii, v := range values {
		out[ii] = handler.ReturnDataPoint{Date: "2023-01-02", Ret: v}
	}
	return out
}

func cyclic(n int, mean, amplitude float64, pattern []float64) []float64 {
	out := make([]float64, n)
	for ii := 0; ii < n; ii++ {
		out[ii] = mean + amplitude*pattern[ii%len(pattern)]
	}
	return out
}

// ffPortfolioPoints builds a portfolio from the loaded FF3 table:
// r = rf + alpha + Σ β·f + noise, dated mid-month
func ffPortfolioPoints(alpha float64, betas []float64, noise func(int) float64) []handler.ReturnDataPoint {
	lib, err := factors.GetLibrary()
	Expect(err).To(BeNil())
	table, err := lib.Table(factors.FF3)
	Expect(err).To(BeNil())

	out := make([]handler.ReturnDataPoint, len(table.Dates))
	for ii, date := range table.Dates {
		r := table.RF[ii] + alpha + noise(ii)
		for jj, b := range betas {
			r += b * table.Rows[ii][jj]
		}
		out[ii] = handler.ReturnDataPoint{Date: date.AddDate(0, 0, 14).Format("2006-01-02"), Ret: r}
	}
	return out
}

func noiseA(m int) float64 { return 0.001 * []float64{1, -1, 0, 2, -2}[m%5] }
func noiseB(m int) float64 { return 0.001 * []float64{2, -1, -1, 1, 0, -2, 1}[m%7] }

var _ = Describe("Health", func() {
	It("reports liveness and a version", func() {
		status, body := request(http.MethodGet, "/api/health", nil)
		Expect(status).To(Equal(http.StatusOK))

		var resp map[string]string
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp["status"]).To(Equal("ok"))
		Expect(resp["version"]).ToNot(BeEmpty())
	})
})

var _ = Describe("FetchPrices", func() {
	validBody := func() map[string]any {
		return map[string]any{
			"tickers":  []string{"SPY"},
			"start":    "2023-01-30",
			"end":      "2023-02-07",
			"interval": "1d",
		}
	}

	type pricesResponse struct {
		Prices  map[string][]struct {
			Date     string  `json:"date"`
			AdjClose float64 `json:"adjClose"`
		} `json:"prices"`
		Returns map[string][]handler.ReturnDataPoint `json:"returns"`
	}

	It("serves prices and returns for the requested window", func() {
		status, body := request(http.MethodPost, "/api/data/prices", validBody())
		Expect(status).To(Equal(http.StatusOK))

		var resp pricesResponse
		Expect(json.Unmarshal(body, &resp)).To(Succeed())
		Expect(resp.Prices["SPY"]).To(HaveLen(7))
		Expect(resp.Prices["SPY"][0].Date).To(Equal("2023-01-30"))
		Expect(resp.Prices["SPY"][0].AdjClose).To(Equal(400.0))
		Expect(resp.Returns["SPY"]).To(HaveLen(6))
		Expect(resp.Returns["SPY"][0].Ret).To(BeNumerically("~", 402.0/400.0-1, 1e-12))
	})

	It("serves identical repeat requests from the cache", func() {
		status, first := request(http.MethodPost, "/api/data/prices", validBody())
		Expect(status).To(Equal(http.StatusOK))
		status, second := request(http.MethodPost, "/api/data/prices", validBody())
		Expect(status).To(Equal(http.StatusOK))
		Expect(second).To(Equal(first))
	})

	It("lists the invalid tickers and the available universe", func() {
		body := validBody()
		body["tickers"] = []string{"SPY", "FAKE"}
		status, raw := request(http.MethodPost, "/api/data/prices", body)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(string(raw)).To(ContainSubstring("FAKE"))
		Expect(string(raw)).To(ContainSubstring("SPY"))
	})

	It("rejects a malformed start date", func() {
		body := validBody()
		body["start"] = "Jan 30 2023"
		status, _ := request(http.MethodPost, "/api/data/prices", body)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("rejects an inverted date range", func() {
		body := validBody()
		body["start"] = "2023-02-07"
		body["end"] = "2023-01-30"
		status, _ := request(http.MethodPost, "/api/data/prices", body)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("rejects a window with no observations", func() {
		body := validBody()
		body["start"] = "2020-01-01"
		body["end"] = "2020-12-31"
		status, _ := request(http.MethodPost, "/api/data/prices", body)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("EfficientFrontier", func() {
	type frontierResponse struct {
		Points []struct {
			Risk    float64            `json:"risk"`
			Return  float64            `json:"return"`
			Weights map[string]float64 `json:"weights"`
		} `json:"frontier"`
		Tangency struct {
			Sharpe float64 `json:"sharpe"`
		} `json:"tangency"`
		CML []struct {
			Risk   float64 `json:"risk"`
			Return float64 `json:"return"`
		} `json:"cml"`
	}

	body := func() map[string]any {
		return map[string]any{
			"returns": map[string][]handler.ReturnDataPoint{
				"AAA": returnSeries(cyclic(60, 0.0002, 0.004, []float64{1, -1})),
				"BBB": returnSeries(cyclic(60, 0.0006, 0.008, []float64{1, 1, -1, -1})),
			},
			"rf":       0.02,
			"interval": "1d",
		}
	}

	It("returns the frontier, tangency and capital market line", func() {
		status, raw := request(http.MethodPost, "/api/portfolio/efficient-frontier", body())
		Expect(status).To(Equal(http.StatusOK))

		var resp frontierResponse
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(len(resp.Points)).To(BeNumerically(">", 0))
		Expect(resp.CML).To(HaveLen(50))
		for _, pt := range resp.Points {
			sum := 0.0
			for _, w := range pt.Weights {
				sum += w
			}
			Expect(sum).To(BeNumerically("~", 1, 1e-6))
		}
	})

	It("rejects a weight cap below the feasible budget", func() {
		req := body()
		req["max_weight"] = 0.2
		status, _ := request(http.MethodPost, "/api/portfolio/efficient-frontier", req)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("rejects series that are too short", func() {
		req := body()
		req["returns"] = map[string][]handler.ReturnDataPoint{
			"AAA": returnSeries([]float64{0.01}),
			"BBB": returnSeries([]float64{0.02}),
		}
		status, _ := request(http.MethodPost, "/api/portfolio/efficient-frontier", req)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("RunCAPM", func() {
	type capmResponse struct {
		Results []struct {
			Ticker string  `json:"ticker"`
			Beta   float64 `json:"beta"`
			R2     float64 `json:"r2"`
		} `json:"results"`
		SML     []map[string]float64 `json:"sml"`
		Summary map[string]float64   `json:"summary"`
	}

	It("estimates the market model per asset", func() {
		rfWeekly := 0.025 / 52
		market := cyclic(26, 0.002, 0.01, []float64{1, -1})
		asset := make([]float64, len(market))
		for ii, m := range market {
			asset[ii] = rfWeekly + 1.5*(m-rfWeekly) + noiseA(ii)
		}

		status, raw := request(http.MethodPost, "/api/model/capm", map[string]any{
			"returns": map[string][]handler.ReturnDataPoint{
				"^GSPC": returnSeries(market),
				"AAA":   returnSeries(asset),
			},
			"market":   "^GSPC",
			"interval": "1wk",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp capmResponse
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Results).To(HaveLen(1))
		Expect(resp.Results[0].Ticker).To(Equal("AAA"))
		Expect(resp.Results[0].Beta).To(BeNumerically("~", 1.5, 0.1))
		Expect(resp.SML).To(HaveLen(50))
		Expect(resp.Summary).To(HaveKey("market_premium"))
	})

	It("annualizes an unrecognized interval as weekly", func() {
		market := cyclic(26, 0.002, 0.01, []float64{1, -1})

		status, raw := request(http.MethodPost, "/api/model/capm", map[string]any{
			"returns": map[string][]handler.ReturnDataPoint{
				"^GSPC": returnSeries(market),
			},
			"market":   "^GSPC",
			"interval": "fortnightly",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp capmResponse
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		// the ±1 pattern splits evenly, so the periodic mean is exactly
		// 0.002 and the annualized market return is 0.002 × 52
		Expect(resp.Summary["market_return"]).To(BeNumerically("~", 0.002*52, 1e-9))
	})

	It("rejects a market proxy missing from the data", func() {
		status, raw := request(http.MethodPost, "/api/model/capm", map[string]any{
			"returns": map[string][]handler.ReturnDataPoint{
				"AAA": returnSeries(cyclic(26, 0.001, 0.01, []float64{1, -1})),
			},
			"market": "^GSPC",
		})
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(string(raw)).To(ContainSubstring("Market proxy"))
	})
})

var _ = Describe("RunFactorModel", func() {
	It("fits a generic factor model with inference output", func() {
		mkt := cyclic(30, 0.005, 0.02, []float64{1, -1})
		size := cyclic(30, 0.001, 0.01, []float64{1, 0, -1})
		asset := make([]float64, len(mkt))
		for ii := range asset {
			asset[ii] = 0.001 + 1.1*mkt[ii] - 0.4*size[ii] + noiseB(ii)
		}

		status, raw := request(http.MethodPost, "/api/factor/model", map[string]any{
			"asset_returns": returnSeries(asset),
			"factors":       map[string][]float64{"MKT": mkt, "SIZE": size},
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Loadings []struct {
				Factor string  `json:"factor"`
				Beta   float64 `json:"beta"`
			} `json:"loadings"`
			Alpha float64 `json:"alpha"`
			R2    float64 `json:"r_squared"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Loadings).To(HaveLen(2))
		Expect(resp.Loadings[0].Factor).To(Equal("MKT"))
		Expect(resp.Loadings[0].Beta).To(BeNumerically("~", 1.1, 0.1))
		Expect(resp.Loadings[1].Factor).To(Equal("SIZE"))
		Expect(resp.Loadings[1].Beta).To(BeNumerically("~", -0.4, 0.2))
		Expect(resp.R2).To(BeNumerically(">", 0.9))
	})

	It("rejects a request without factors", func() {
		status, _ := request(http.MethodPost, "/api/factor/model", map[string]any{
			"asset_returns": returnSeries(cyclic(30, 0.001, 0.01, []float64{1, -1})),
			"factors":       map[string][]float64{},
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("RunFactorAnalysis", func() {
	It("uses only the factor columns present in the data", func() {
		n := 30
		mkt := cyclic(n, 0.005, 0.02, []float64{1, -1})
		smb := cyclic(n, 0.001, 0.01, []float64{1, 0, -1})

		points := make([]map[string]any, n)
		portfolio := make([]float64, n)
		for ii := 0; ii < n; ii++ {
			points[ii] = map[string]any{
				"date":   "2023-01-02",
				"MKT_RF": mkt[ii],
				"SMB":    smb[ii],
			}
			portfolio[ii] = 0.001 + 1.2*mkt[ii] + 0.3*smb[ii] + noiseA(ii)
		}

		status, raw := request(http.MethodPost, "/api/model/factors", map[string]any{
			"portfolio": returnSeries(portfolio),
			"factors":   points,
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Loadings []struct {
				Factor string  `json:"factor"`
				Beta   float64 `json:"beta"`
			} `json:"loadings"`
			Corr        [][]float64        `json:"corr"`
			FactorMeans map[string]float64 `json:"factorMeans"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Loadings).To(HaveLen(2))
		Expect(resp.Loadings[0].Factor).To(Equal("MKT_RF"))
		Expect(resp.Loadings[0].Beta).To(BeNumerically("~", 1.2, 0.1))
		Expect(resp.Corr).To(HaveLen(2))
		Expect(resp.Corr[0][0]).To(Equal(1.0))
		Expect(resp.FactorMeans).To(HaveKey("MKT_RF"))
	})

	It("rejects a request without factor observations", func() {
		status, _ := request(http.MethodPost, "/api/model/factors", map[string]any{
			"portfolio": returnSeries(cyclic(30, 0.001, 0.01, []float64{1, -1})),
			"factors":   []map[string]any{},
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("GetFactorData", func() {
	It("serves both factor sets with statistics", func() {
		status, raw := request(http.MethodGet, "/api/ff/data", nil)
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			FF3      []map[string]any `json:"ff3"`
			FF5      []map[string]any `json:"ff5"`
			StatsFF3 []map[string]any `json:"descriptive_stats_ff3"`
			CorrFF5  struct {
				Factors []string `json:"factors"`
			} `json:"correlation_ff5"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.FF3).To(HaveLen(factorMonths))
		Expect(resp.FF5).To(HaveLen(factorMonths))
		Expect(resp.StatsFF3).To(HaveLen(3))
		Expect(resp.CorrFF5.Factors).To(HaveLen(5))
	})

	It("filters by the date query parameters", func() {
		status, raw := request(http.MethodGet, "/api/ff/data?start_date=2018-01-01&end_date=2018-12-31", nil)
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			FF3 []map[string]any `json:"ff3"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.FF3).To(HaveLen(12))
	})

	It("rejects a malformed date parameter", func() {
		status, _ := request(http.MethodGet, "/api/ff/data?start_date=notadate", nil)
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("AnalyzePortfolios", func() {
	It("runs the factor regressions per portfolio", func() {
		status, raw := request(http.MethodPost, "/api/ff/analyze", map[string]any{
			"portfolios": map[string][]handler.ReturnDataPoint{
				"VALUE": ffPortfolioPoints(0, []float64{1.0, 0.2, 0.5}, noiseA),
			},
			"model": "FF3",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Model       string `json:"model"`
			Regressions []struct {
				Portfolio string `json:"portfolio"`
				Loadings  []struct {
					Factor string  `json:"factor"`
					Beta   float64 `json:"beta"`
				} `json:"loadings"`
			} `json:"regressions"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Model).To(Equal("FF3"))
		Expect(resp.Regressions).To(HaveLen(1))
		Expect(resp.Regressions[0].Portfolio).To(Equal("VALUE"))
		Expect(resp.Regressions[0].Loadings[2].Beta).To(BeNumerically("~", 0.5, 0.1))
	})

	It("rejects an unknown model", func() {
		status, _ := request(http.MethodPost, "/api/ff/analyze", map[string]any{
			"portfolios": map[string][]handler.ReturnDataPoint{
				"VALUE": ffPortfolioPoints(0, []float64{1.0, 0, 0}, noiseA),
			},
			"model": "FF9",
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("GRSTest", func() {
	It("runs the joint alpha test", func() {
		status, raw := request(http.MethodPost, "/api/ff/grs", map[string]any{
			"portfolios": map[string][]handler.ReturnDataPoint{
				"P1": ffPortfolioPoints(0, []float64{1.0, 0.3, 0}, noiseA),
				"P2": ffPortfolioPoints(0, []float64{0.9, 0, 0.4}, noiseB),
			},
			"model": "FF3",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Statistic       float64 `json:"grsStatistic"`
			PValue          float64 `json:"pValue"`
			NumObservations int     `json:"numObservations"`
			Interpretation  string  `json:"interpretation"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.NumObservations).To(Equal(factorMonths))
		Expect(resp.PValue).To(BeNumerically(">=", 0))
		Expect(resp.PValue).To(BeNumerically("<=", 1))
		Expect(resp.Interpretation).ToNot(BeEmpty())
	})

	It("fails with a server error when the residual covariance is singular", func() {
		dup := ffPortfolioPoints(0, []float64{1.0, 0.3, 0}, noiseA)
		status, _ := request(http.MethodPost, "/api/ff/grs", map[string]any{
			"portfolios": map[string][]handler.ReturnDataPoint{
				"P1": dup,
				"P2": dup,
			},
			"model": "FF3",
		})
		Expect(status).To(Equal(http.StatusInternalServerError))
	})

	It("rejects a window with too few observations", func() {
		status, _ := request(http.MethodPost, "/api/ff/grs", map[string]any{
			"portfolios": map[string][]handler.ReturnDataPoint{
				"P1": ffPortfolioPoints(0, []float64{1.0, 0.3, 0}, noiseA),
				"P2": ffPortfolioPoints(0, []float64{0.9, 0, 0.4}, noiseB),
			},
			"model":      "FF3",
			"start_date": "2018-01-01",
			"end_date":   "2018-03-31",
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("Performance", func() {
	It("computes annualized performance statistics", func() {
		status, raw := request(http.MethodPost, "/api/risk/performance", map[string]any{
			"portfolio": returnSeries(cyclic(48, 0.001, 0.01, []float64{1, -1})),
			"interval":  "1mo",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Sharpe float64 `json:"sharpe"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Sharpe).ToNot(BeZero())
	})

	It("rejects a series that is too short", func() {
		status, _ := request(http.MethodPost, "/api/risk/performance", map[string]any{
			"portfolio": returnSeries([]float64{0.01}),
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("UtilityCurves", func() {
	It("evaluates the requested utility on the default grid", func() {
		status, raw := request(http.MethodPost, "/api/utility/curves", map[string]any{
			"utility_type": "CRRA",
			"gamma":        2,
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			UtilityType string `json:"utility_type"`
			Curves      []struct {
				X float64 `json:"x"`
				R float64 `json:"R"`
			} `json:"curves"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.UtilityType).To(Equal("CRRA"))
		Expect(resp.Curves).To(HaveLen(100))
		Expect(resp.Curves[0].R).To(Equal(2.0))
	})

	It("rejects an unknown utility type", func() {
		status, _ := request(http.MethodPost, "/api/utility/curves", map[string]any{
			"utility_type": "HARA",
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("SDF", func() {
	It("evaluates the discount factor with an interpretation", func() {
		status, raw := request(http.MethodPost, "/api/utility/sdf", map[string]any{
			"utility_type": "CAPM",
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			SDFPoints []struct {
				DeltaC float64 `json:"delta_c"`
				M      float64 `json:"m"`
			} `json:"sdf_points"`
			Interpretation string `json:"interpretation"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.SDFPoints).To(HaveLen(100))
		Expect(resp.Interpretation).To(ContainSubstring("CAPM"))
	})
})

var _ = Describe("FixedIncomeData", func() {
	It("serves the yield curve and spread report", func() {
		status, raw := request(http.MethodGet, "/api/fixedincome/data", nil)
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			YieldCurves []struct {
				Date string `json:"date"`
			} `json:"yield_curves"`
			Bonds            []map[string]any `json:"bonds"`
			LatestTermSpread float64          `json:"latest_term_spread"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.YieldCurves).To(HaveLen(2))
		Expect(resp.Bonds).To(HaveLen(1))
		Expect(resp.LatestTermSpread).To(BeNumerically("~", 0.21, 1e-9))
	})
})

var _ = Describe("RiskNeutral", func() {
	It("prices the default lattice", func() {
		status, raw := request(http.MethodPost, "/api/fixedincome/risk-neutral", map[string]any{})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			PQ        float64 `json:"p_q"`
			CallPrice float64 `json:"call_price"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.PQ).To(BeNumerically("~", 0.65, 1e-9))
		Expect(resp.CallPrice).To(BeNumerically("~", 6.31, 1e-9))
	})

	It("rejects a degenerate lattice", func() {
		status, _ := request(http.MethodPost, "/api/fixedincome/risk-neutral", map[string]any{
			"u": 0.9,
			"d": 1.1,
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("CAPMWorld", func() {
	It("merges request overrides onto the lecture defaults", func() {
		status, raw := request(http.MethodPost, "/api/theory/capm-world", map[string]any{
			"num_assets":    5,
			"sample_length": 24,
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Assets []struct {
				Ticker   string    `json:"ticker"`
				Returns  []float64 `json:"returns"`
				TrueBeta float64   `json:"true_beta"`
			} `json:"assets"`
			Market struct {
				Returns []float64 `json:"returns"`
			} `json:"market"`
			Dates []string `json:"dates"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Assets).To(HaveLen(5))
		Expect(resp.Market.Returns).To(HaveLen(24))
		Expect(resp.Dates).To(HaveLen(24))
	})

	It("rejects impossible dimensions", func() {
		status, _ := request(http.MethodPost, "/api/theory/capm-world", map[string]any{
			"num_assets": -1,
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("FFWorld", func() {
	It("generates the default three factor world", func() {
		status, raw := request(http.MethodPost, "/api/theory/ff-world", map[string]any{
			"sample_length": 36,
		})
		Expect(status).To(Equal(http.StatusOK))

		var resp struct {
			Factors []struct {
				Name    string    `json:"name"`
				Returns []float64 `json:"returns"`
			} `json:"factors"`
			Assets []map[string]any `json:"assets"`
		}
		Expect(json.Unmarshal(raw, &resp)).To(Succeed())
		Expect(resp.Factors).To(HaveLen(3))
		Expect(resp.Factors[0].Name).To(Equal("MKT"))
		Expect(resp.Factors[0].Returns).To(HaveLen(36))
		Expect(resp.Assets).To(HaveLen(25))
	})

	It("rejects a factor without a configured mean", func() {
		status, _ := request(http.MethodPost, "/api/theory/ff-world", map[string]any{
			"include_factors": []string{"MKT", "MOM"},
		})
		Expect(status).To(Equal(http.StatusBadRequest))
	})
})
