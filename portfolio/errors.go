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

package portfolio

import "errors"

var (
	// ErrInsufficientData indicates fewer than 2 aligned observations remain
	ErrInsufficientData = errors.New("insufficient data: need at least 2 aligned observations")

	// ErrOptimization indicates the solver failed for reasons other than
	// simple infeasibility (numerical breakdown, singular covariance)
	ErrOptimization = errors.New("optimization failed")

	// ErrInvalidRequest indicates malformed optimizer input
	ErrInvalidRequest = errors.New("invalid optimizer request")

	// errInfeasible is returned per target return when no weight vector
	// satisfies the constraints; the sweep drops the point and continues
	errInfeasible = errors.New("target return infeasible under constraints")
)
