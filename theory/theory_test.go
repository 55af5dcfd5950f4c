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

package theory_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/stat"

	"github.com/invest-lab/ail-api/theory"
)

var _ = Describe("GenerateCAPMWorld", func() {
	It("generates the requested dimensions with the lecture defaults", func() {
		world, err := theory.GenerateCAPMWorld(theory.DefaultCAPMWorldParams())
		Expect(err).To(BeNil())

		Expect(world.Assets).To(HaveLen(25))
		Expect(world.Market.Returns).To(HaveLen(120))
		Expect(world.Dates).To(HaveLen(120))
		Expect(world.RfMonthly).To(BeNumerically("~", 0.02/12, 1e-12))
		for _, asset := range world.Assets {
			Expect(asset.Returns).To(HaveLen(120))
		}
		Expect(world.Assets[0].Ticker).To(Equal("Asset_1"))
		Expect(world.Assets[24].Ticker).To(Equal("Asset_25"))
		Expect(world.Dates[0]).To(Equal("2020-01-31"))
		Expect(world.Dates[1]).To(Equal("2020-02-29"))
	})

	It("is deterministic for a fixed seed", func() {
		first, err := theory.GenerateCAPMWorld(theory.DefaultCAPMWorldParams())
		Expect(err).To(BeNil())
		second, err := theory.GenerateCAPMWorld(theory.DefaultCAPMWorldParams())
		Expect(err).To(BeNil())

		Expect(second.Market.Returns).To(Equal(first.Market.Returns))
		for ii := range first.Assets {
			Expect(second.Assets[ii].Returns).To(Equal(first.Assets[ii].Returns))
			Expect(second.Assets[ii].TrueBeta).To(Equal(first.Assets[ii].TrueBeta))
		}
	})

	It("produces a different world for a different seed", func() {
		params := theory.DefaultCAPMWorldParams()
		base, err := theory.GenerateCAPMWorld(params)
		Expect(err).To(BeNil())

		params.Seed = 7
		other, err := theory.GenerateCAPMWorld(params)
		Expect(err).To(BeNil())
		Expect(other.Market.Returns).ToNot(Equal(base.Market.Returns))
	})

	It("embeds the true beta in each asset's returns", func() {
		world, err := theory.GenerateCAPMWorld(theory.DefaultCAPMWorldParams())
		Expect(err).To(BeNil())

		// regressing simulated excess returns on the market factor should
		// land near the stored true beta for every asset
		for _, asset := range world.Assets {
			excess := make([]float64, len(asset.Returns))
			for ii, r := range asset.Returns {
				excess[ii] = r - world.RfMonthly
			}
			_, beta := stat.LinearRegression(world.Market.Returns, excess, nil, false)
			se := 0.25 / math.Sqrt(12) / (0.16 / math.Sqrt(12)) / math.Sqrt(120)
			Expect(beta).To(BeNumerically("~", asset.TrueBeta, 5*se))
		}
	})

	It("rejects degenerate dimensions", func() {
		params := theory.DefaultCAPMWorldParams()
		params.NumAssets = 0
		_, err := theory.GenerateCAPMWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))

		params = theory.DefaultCAPMWorldParams()
		params.SampleLength = -1
		_, err = theory.GenerateCAPMWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))

		params = theory.DefaultCAPMWorldParams()
		params.SigmaMarket = 0
		_, err = theory.GenerateCAPMWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))

		params = theory.DefaultCAPMWorldParams()
		params.IdioVolMax = 0.05
		params.IdioVolMin = 0.10
		_, err = theory.GenerateCAPMWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))
	})
})

var _ = Describe("GenerateFFWorld", func() {
	It("generates the included factors in request order", func() {
		world, err := theory.GenerateFFWorld(theory.DefaultFFWorldParams())
		Expect(err).To(BeNil())

		Expect(world.Factors).To(HaveLen(3))
		Expect(world.Factors[0].Name).To(Equal("MKT"))
		Expect(world.Factors[1].Name).To(Equal("SMB"))
		Expect(world.Factors[2].Name).To(Equal("HML"))
		Expect(world.Assets).To(HaveLen(25))
		Expect(world.Dates).To(HaveLen(240))
		for _, factor := range world.Factors {
			Expect(factor.Returns).To(HaveLen(240))
		}
		for _, asset := range world.Assets {
			Expect(asset.Returns).To(HaveLen(240))
			Expect(asset.TrueBetas).To(HaveKey("MKT"))
			Expect(asset.TrueBetas).To(HaveKey("SMB"))
			Expect(asset.TrueBetas).To(HaveKey("HML"))
		}
	})

	It("is deterministic for a fixed seed", func() {
		first, err := theory.GenerateFFWorld(theory.DefaultFFWorldParams())
		Expect(err).To(BeNil())
		second, err := theory.GenerateFFWorld(theory.DefaultFFWorldParams())
		Expect(err).To(BeNil())

		for jj := range first.Factors {
			Expect(second.Factors[jj].Returns).To(Equal(first.Factors[jj].Returns))
		}
		for ii := range first.Assets {
			Expect(second.Assets[ii].Returns).To(Equal(first.Assets[ii].Returns))
		}
	})

	It("supports a five factor world", func() {
		params := theory.DefaultFFWorldParams()
		params.IncludeFactors = []string{"MKT", "SMB", "HML", "RMW", "CMA"}
		world, err := theory.GenerateFFWorld(params)
		Expect(err).To(BeNil())
		Expect(world.Factors).To(HaveLen(5))
		Expect(world.Factors[4].Name).To(Equal("CMA"))
	})

	It("gives the market factor more volatility than the style factors", func() {
		world, err := theory.GenerateFFWorld(theory.DefaultFFWorldParams())
		Expect(err).To(BeNil())

		mktVol := stat.StdDev(world.Factors[0].Returns, nil)
		smbVol := stat.StdDev(world.Factors[1].Returns, nil)
		Expect(mktVol).To(BeNumerically(">", smbVol))
	})

	It("rejects a factor without a configured mean", func() {
		params := theory.DefaultFFWorldParams()
		params.IncludeFactors = []string{"MKT", "MOM"}
		_, err := theory.GenerateFFWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))
	})

	It("rejects an empty factor list", func() {
		params := theory.DefaultFFWorldParams()
		params.IncludeFactors = nil
		_, err := theory.GenerateFFWorld(params)
		Expect(err).To(MatchError(theory.ErrBadWorld))
	})
})
