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

package factors

import "errors"

var (
	// ErrNotInitialized indicates InitializeLibrary has not been called
	ErrNotInitialized = errors.New("factor library not initialized")

	// ErrUnknownModel indicates a model name other than FF3 or FF5
	ErrUnknownModel = errors.New("unknown factor model")

	// ErrNoOverlap indicates portfolio and factor dates share no months
	ErrNoOverlap = errors.New("no overlapping dates between portfolio and factor data")

	// ErrInsufficientObservations indicates fewer aligned months than the
	// test requires
	ErrInsufficientObservations = errors.New("insufficient observations")

	// ErrSingular indicates a singular covariance matrix
	ErrSingular = errors.New("singular covariance matrix")
)
