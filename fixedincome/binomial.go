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
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateLattice indicates binomial parameters with no valid
// risk-neutral measure (u ≤ d or non-positive inputs)
var ErrDegenerateLattice = errors.New("degenerate binomial lattice")

// BinomialParams are the one-period lattice inputs
type BinomialParams struct {
	S float64 `json:"s"`
	K float64 `json:"k"`
	U float64 `json:"u"`
	D float64 `json:"d"`
	R float64 `json:"r"`
}

// BinomialResult is the risk-neutral pricing of a one-period call
type BinomialResult struct {
	S              float64 `json:"s"`
	K              float64 `json:"k"`
	U              float64 `json:"u"`
	D              float64 `json:"d"`
	R              float64 `json:"r"`
	PQ             float64 `json:"p_q"`
	PUpState       float64 `json:"p_up_state"`
	SUp            float64 `json:"s_up"`
	SDown          float64 `json:"s_down"`
	CallUp         float64 `json:"call_up"`
	CallDown       float64 `json:"call_down"`
	CallPrice      float64 `json:"call_price"`
	Interpretation string  `json:"interpretation"`
}

// RiskNeutral prices a one-period call on the binomial lattice under the
// risk-neutral measure p_Q = (1+r-d)/(u-d)
func RiskNeutral(params BinomialParams) (*BinomialResult, error) {
	if params.U <= params.D || params.S <= 0 || params.K < 0 || 1+params.R <= 0 {
		return nil, ErrDegenerateLattice
	}

	pq := (1 + params.R - params.D) / (params.U - params.D)

	sUp := params.S * params.U
	sDown := params.S * params.D
	callUp := math.Max(sUp-params.K, 0)
	callDown := math.Max(sDown-params.K, 0)
	callPrice := (pq*callUp + (1-pq)*callDown) / (1 + params.R)

	interpretation := fmt.Sprintf(
		"Under risk-neutral measure Q, expected return equals risk-free rate. Risk-neutral probability p^Q = %.4f differs from real-world probability. This adjustment prices the option by discounting risk-neutral expected payoff at r_f. The call option is worth $%.2f, replicating the payoff structure.",
		pq, callPrice)

	return &BinomialResult{
		S:              params.S,
		K:              params.K,
		U:              params.U,
		D:              params.D,
		R:              params.R,
		PQ:             round4(pq),
		PUpState:       round4(pq),
		SUp:            round2(sUp),
		SDown:          round2(sDown),
		CallUp:         round2(callUp),
		CallDown:       round2(callDown),
		CallPrice:      round2(callPrice),
		Interpretation: interpretation,
	}, nil
}
