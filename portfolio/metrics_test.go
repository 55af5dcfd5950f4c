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

package portfolio_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/invest-lab/ail-api/portfolio"
)

var _ = Describe("Performance", func() {
	symmetric := cyclic(48, 0.001, 0.01, []float64{1, -1})

	It("computes the Sharpe ratio from annualized mean and vol", func() {
		stats, err := portfolio.Performance(symmetric, nil, 0.02, 12, nil)
		Expect(err).To(BeNil())

		meanAnnual := 0.001 * 12
		stdAnnual := 0.01 * math.Sqrt(12)
		Expect(stats.Sharpe).To(BeNumerically("~", (meanAnnual-0.02)/stdAnnual, 1e-9))
	})

	It("reports zero skew and the flat-distribution kurtosis for a ±1 pattern", func() {
		stats, err := portfolio.Performance(symmetric, nil, 0.02, 12, nil)
		Expect(err).To(BeNil())

		// two-point symmetric distribution: skew 0, excess kurtosis -2, so
		// JB = n/6 * (0 + 4/4) = n/6
		Expect(stats.Skew).To(BeNumerically("~", 0, 1e-9))
		Expect(stats.Kurtosis).To(BeNumerically("~", -2, 1e-9))
		Expect(stats.JB).To(BeNumerically("~", 48.0/6.0, 1e-9))
	})

	It("omits benchmark-relative ratios without a benchmark", func() {
		stats, err := portfolio.Performance(symmetric, nil, 0.02, 12, nil)
		Expect(err).To(BeNil())
		Expect(stats.Treynor).To(BeNil())
		Expect(stats.InformationRatio).To(BeNil())
		Expect(stats.JensenAlpha).To(BeNil())
		Expect(stats.M2).To(BeNil())
		Expect(stats.LPM).To(BeNil())
	})

	It("computes beta-driven ratios against a benchmark", func() {
		benchmark := symmetric
		stats, err := portfolio.Performance(symmetric, benchmark, 0.02, 12, nil)
		Expect(err).To(BeNil())

		// sample covariance over population variance: beta = n/(n-1)
		beta := 48.0 / 47.0
		meanAnnual := 0.001 * 12

		Expect(stats.Treynor).ToNot(BeNil())
		Expect(*stats.Treynor).To(BeNumerically("~", (meanAnnual-0.02)/beta, 1e-9))

		Expect(stats.InformationRatio).ToNot(BeNil())
		Expect(*stats.InformationRatio).To(BeNumerically("~", 0, 1e-9))

		Expect(stats.JensenAlpha).ToNot(BeNil())
		Expect(*stats.JensenAlpha).To(BeNumerically("~", meanAnnual-(0.02+beta*(meanAnnual-0.02)), 1e-9))
	})

	It("computes the lower partial moment against the periodic threshold", func() {
		// tau 1.2% annual at 12 periods per year is 0.1% per period; only
		// the -0.9% observations fall short, each by exactly 1%
		stats, err := portfolio.Performance(symmetric, nil, 0.02, 12, &portfolio.LPMParams{Tau: 0.012, N: 2})
		Expect(err).To(BeNil())
		Expect(stats.LPM).ToNot(BeNil())
		Expect(*stats.LPM).To(BeNumerically("~", 0.5*0.01*0.01, 1e-12))
	})

	It("rejects series that are too short", func() {
		_, err := portfolio.Performance([]float64{0.01}, nil, 0.02, 252, nil)
		Expect(err).To(MatchError(portfolio.ErrInsufficientData))
	})
})
