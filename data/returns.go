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
	"math"
	"time"
)

// Return is a single dated periodic return observation
type Return struct {
	Date time.Time
	Ret  float64
}

// Returns computes periodic returns from a price series. Observations
// where either endpoint is missing are dropped rather than propagated as
// NaN.
func Returns(dates []time.Time, prices []float64, logReturns bool) []Return {
	out := make([]Return, 0, len(prices))
	for ii := 1; ii < len(prices); ii++ {
		p0 := prices[ii-1]
		p1 := prices[ii]
		if math.IsNaN(p0) || math.IsNaN(p1) || p0 == 0 {
			continue
		}

		var r float64
		if logReturns {
			r = math.Log(p1 / p0)
		} else {
			r = p1/p0 - 1
		}
		out = append(out, Return{Date: dates[ii], Ret: r})
	}
	return out
}
