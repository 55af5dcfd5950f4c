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

package fixedincome_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/invest-lab/ail-api/fixedincome"
)

var _ = Describe("Report", func() {
	var report *fixedincome.Report

	BeforeEach(func() {
		ds, err := fixedincome.GetDataset()
		Expect(err).To(BeNil())
		report = ds.Report()
	})

	It("returns only the snapshot dates present in the data", func() {
		// 2018-01-31 has no row, so four of the five snapshots survive
		Expect(report.YieldCurves).To(HaveLen(4))
		Expect(report.YieldCurves[0].Date).To(Equal("2015-01-31"))
		Expect(report.YieldCurves[3].Date).To(Equal("2024-12-31"))
	})

	It("orders each snapshot by maturity", func() {
		curve := report.YieldCurves[0]
		Expect(curve.Points).To(HaveLen(5))
		Expect(curve.Points[0].Maturity).To(Equal("3M"))
		Expect(curve.Points[0].Yield).To(BeNumerically("~", 0.03, 1e-9))
		Expect(curve.Points[4].Maturity).To(Equal("30Y"))
		Expect(curve.Points[4].Yield).To(BeNumerically("~", 2.46, 1e-9))
	})

	It("drops spread months with a missing term yield", func() {
		// the 2019-06-30 row has no 10Y observation
		Expect(report.TermSpreads).To(HaveLen(4))
		for _, pt := range report.TermSpreads {
			Expect(pt.Date).ToNot(Equal("2019-06-30"))
		}
	})

	It("computes the 10Y minus 3M term spread", func() {
		first := report.TermSpreads[0]
		Expect(first.Date).To(Equal("2015-01-31"))
		Expect(first.TermSpread).To(BeNumerically("~", 1.88-0.03, 1e-9))
		Expect(first.CreditSpreadIG).To(BeNumerically("~", 1.31, 1e-9))
		Expect(first.CreditSpreadHY).To(BeNumerically("~", 4.66, 1e-9))
	})

	It("reports a missing credit spread as zero", func() {
		var pandemic *fixedincome.SpreadPoint
		for ii := range report.TermSpreads {
			if report.TermSpreads[ii].Date == "2020-03-31" {
				pandemic = &report.TermSpreads[ii]
			}
		}
		Expect(pandemic).ToNot(BeNil())
		Expect(pandemic.CreditSpreadIG).To(BeZero())
		Expect(pandemic.CreditSpreadHY).To(BeNumerically("~", 8.77, 1e-9))
	})

	It("summarizes the latest month", func() {
		Expect(report.LatestTermSpread).To(BeNumerically("~", 0.21, 1e-9))
		Expect(report.LatestCreditIG).To(BeNumerically("~", 0.95, 1e-9))
		Expect(report.LatestCreditHY).To(BeNumerically("~", 2.87, 1e-9))
	})

	It("applies the duration-convexity approximation to each bond", func() {
		Expect(report.Bonds).To(HaveLen(2))

		ust := report.Bonds[0]
		Expect(ust.Bond).To(Equal("UST10"))
		Expect(ust.Duration).To(Equal(5.0))
		Expect(ust.Convexity).To(Equal(30.0))
		// -D·Δy + C·Δy²/2 at Δy = ±1%, in percent
		Expect(ust.PriceChgPos100).To(BeNumerically("~", -4.85, 1e-9))
		Expect(ust.PriceChgNeg100).To(BeNumerically("~", 5.15, 1e-9))

		zero := report.Bonds[1]
		// convexity dominates for the long zero: -30% + 4.5% on the way up
		Expect(zero.PriceChgPos100).To(BeNumerically("~", -25.5, 1e-9))
		Expect(zero.PriceChgNeg100).To(BeNumerically("~", 34.5, 1e-9))
	})
})

var _ = Describe("RiskNeutral", func() {
	It("prices the one period call under the risk-neutral measure", func() {
		result, err := fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 100, K: 100, U: 1.1, D: 0.9, R: 0.03,
		})
		Expect(err).To(BeNil())

		// p_Q = (1.03 - 0.9) / (1.1 - 0.9)
		Expect(result.PQ).To(BeNumerically("~", 0.65, 1e-9))
		Expect(result.PUpState).To(Equal(result.PQ))
		Expect(result.SUp).To(BeNumerically("~", 110, 1e-9))
		Expect(result.SDown).To(BeNumerically("~", 90, 1e-9))
		Expect(result.CallUp).To(BeNumerically("~", 10, 1e-9))
		Expect(result.CallDown).To(BeZero())
		// 0.65·10/1.03 rounded to cents
		Expect(result.CallPrice).To(BeNumerically("~", 6.31, 1e-9))
		Expect(result.Interpretation).To(ContainSubstring("risk-neutral"))
	})

	It("prices an out of the money call at zero", func() {
		result, err := fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 100, K: 150, U: 1.1, D: 0.9, R: 0.03,
		})
		Expect(err).To(BeNil())
		Expect(result.CallUp).To(BeZero())
		Expect(result.CallDown).To(BeZero())
		Expect(result.CallPrice).To(BeZero())
	})

	It("rejects a lattice with u not above d", func() {
		_, err := fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 100, K: 100, U: 0.9, D: 1.1, R: 0.03,
		})
		Expect(err).To(MatchError(fixedincome.ErrDegenerateLattice))
	})

	It("rejects non-positive prices and impossible rates", func() {
		_, err := fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 0, K: 100, U: 1.1, D: 0.9, R: 0.03,
		})
		Expect(err).To(MatchError(fixedincome.ErrDegenerateLattice))

		_, err = fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 100, K: -1, U: 1.1, D: 0.9, R: 0.03,
		})
		Expect(err).To(MatchError(fixedincome.ErrDegenerateLattice))

		_, err = fixedincome.RiskNeutral(fixedincome.BinomialParams{
			S: 100, K: 100, U: 1.1, D: 0.9, R: -1.5,
		})
		Expect(err).To(MatchError(fixedincome.ErrDegenerateLattice))
	})
})
