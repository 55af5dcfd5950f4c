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

// Frequency is the periodicity tag carried by requests: "1d", "1wk" or "1mo"
type Frequency string

const (
	FrequencyDaily   Frequency = "1d"
	FrequencyWeekly  Frequency = "1wk"
	FrequencyMonthly Frequency = "1mo"
)

// Annualization returns the factor that converts periodic statistics to
// annual terms: 252 trading days, 52 weeks, or 12 months per year.
// Unrecognized tags fall back to daily.
func (freq Frequency) Annualization() float64 {
	switch freq {
	case FrequencyWeekly:
		return 52
	case FrequencyMonthly:
		return 12
	default:
		return 252
	}
}
