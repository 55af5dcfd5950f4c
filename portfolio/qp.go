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

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	boundTol  = 1e-9
	sumTol    = 1e-8
	targetTol = 1e-6
)

// qp minimizes w'Σw subject to Σw = 1, optionally μ'w = target, and the
// box constraint lower ≤ w_i ≤ upper. Solved with a primal active-set
// method: equality-constrained KKT solves on the free variables, fixing
// the worst bound violation each round and releasing bound constraints
// whose multiplier has the wrong sign.
type qp struct {
	sigma  *mat.SymDense
	mu     []float64
	target *float64
	lower  float64
	upper  float64
}

func (p *qp) solve() ([]float64, error) {
	n := len(p.mu)

	if p.target != nil {
		if lo, hi, ok := p.feasibleRange(); ok && (*p.target < lo-targetTol || *p.target > hi+targetTol) {
			return nil, errInfeasible
		}
	}

	isFixed := make([]bool, n)
	fixed := make([]float64, n)

	maxIter := 4*n + 16
	for iter := 0; iter < maxIter; iter++ {
		w, lambda, err := p.solveKKT(isFixed, fixed)
		if err != nil {
			return nil, err
		}

		// fix the worst bound violation, if any
		worstIdx := -1
		worstAmt := boundTol
		worstVal := 0.0
		for ii := 0; ii < n; ii++ {
			if isFixed[ii] {
				continue
			}
			if amt := p.lower - w[ii]; amt > worstAmt {
				worstIdx, worstAmt, worstVal = ii, amt, p.lower
			}
			if amt := w[ii] - p.upper; amt > worstAmt {
				worstIdx, worstAmt, worstVal = ii, amt, p.upper
			}
		}
		if worstIdx >= 0 {
			isFixed[worstIdx] = true
			fixed[worstIdx] = worstVal
			continue
		}

		// release the bound with the most negative multiplier, if any
		relIdx := -1
		relAmt := -boundTol
		for ii := 0; ii < n; ii++ {
			if !isFixed[ii] {
				continue
			}
			g := p.lagrangianGrad(w, lambda, ii)
			if fixed[ii] == p.lower && g < relAmt {
				relIdx, relAmt = ii, g
			}
			if fixed[ii] == p.upper && -g < relAmt {
				relIdx, relAmt = ii, -g
			}
		}
		if relIdx >= 0 {
			isFixed[relIdx] = false
			continue
		}

		return w, nil
	}

	return nil, ErrOptimization
}

// solveKKT solves the equality-constrained subproblem with the fixed
// variables held at their bounds
func (p *qp) solveKKT(isFixed []bool, fixed []float64) ([]float64, []float64, error) {
	n := len(p.mu)

	free := make([]int, 0, n)
	for ii := 0; ii < n; ii++ {
		if !isFixed[ii] {
			free = append(free, ii)
		}
	}

	nc := 1
	if p.target != nil {
		nc = 2
	}

	fixedSum := 0.0
	fixedRet := 0.0
	for ii := 0; ii < n; ii++ {
		if isFixed[ii] {
			fixedSum += fixed[ii]
			fixedRet += fixed[ii] * p.mu[ii]
		}
	}

	// every variable at a bound: nothing to solve, just verify feasibility
	if len(free) == 0 {
		if math.Abs(fixedSum-1) > sumTol {
			return nil, nil, errInfeasible
		}
		if p.target != nil && math.Abs(fixedRet-*p.target) > targetTol {
			return nil, nil, errInfeasible
		}
		w := make([]float64, n)
		copy(w, fixed)
		return w, make([]float64, nc), nil
	}

	m := len(free)
	dim := m + nc
	kkt := mat.NewDense(dim, dim, nil)
	rhs := mat.NewVecDense(dim, nil)

	for ii, fi := range free {
		for jj, fj := range free {
			kkt.Set(ii, jj, 2*p.sigma.At(fi, fj))
		}
		kkt.Set(ii, m, 1)
		kkt.Set(m, ii, 1)
		if p.target != nil {
			kkt.Set(ii, m+1, p.mu[fi])
			kkt.Set(m+1, ii, p.mu[fi])
		}

		cross := 0.0
		for cc := 0; cc < n; cc++ {
			if isFixed[cc] {
				cross += p.sigma.At(fi, cc) * fixed[cc]
			}
		}
		rhs.SetVec(ii, -2*cross)
	}

	rhs.SetVec(m, 1-fixedSum)
	if p.target != nil {
		rhs.SetVec(m+1, *p.target-fixedRet)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, nil, ErrOptimization
		}
	}

	w := make([]float64, n)
	copy(w, fixed)
	for ii, fi := range free {
		w[fi] = sol.AtVec(ii)
	}

	// a near-singular system may produce garbage; accept the solution only
	// when it actually satisfies the equality constraints
	sum := 0.0
	ret := 0.0
	for ii := 0; ii < n; ii++ {
		if math.IsNaN(w[ii]) || math.IsInf(w[ii], 0) {
			return nil, nil, ErrOptimization
		}
		sum += w[ii]
		ret += w[ii] * p.mu[ii]
	}
	if math.Abs(sum-1) > sumTol {
		return nil, nil, ErrOptimization
	}
	if p.target != nil && math.Abs(ret-*p.target) > targetTol {
		return nil, nil, ErrOptimization
	}

	lambda := make([]float64, nc)
	for kk := 0; kk < nc; kk++ {
		lambda[kk] = sol.AtVec(m + kk)
	}

	return w, lambda, nil
}

// lagrangianGrad computes the stationarity residual for variable ii; for a
// variable held at a bound this is the multiplier of the bound constraint
func (p *qp) lagrangianGrad(w, lambda []float64, ii int) float64 {
	n := len(p.mu)
	g := 0.0
	for jj := 0; jj < n; jj++ {
		g += 2 * p.sigma.At(ii, jj) * w[jj]
	}
	g += lambda[0]
	if p.target != nil {
		g += lambda[1] * p.mu[ii]
	}
	return g
}

// feasibleRange computes the attainable portfolio return range under the
// box constraints. Only defined for long-only problems; with shorting
// allowed the range is unbounded and ok is false.
func (p *qp) feasibleRange() (float64, float64, bool) {
	if math.IsInf(p.lower, -1) {
		return 0, 0, false
	}

	n := len(p.mu)
	ub := p.upper
	if math.IsInf(ub, 1) {
		ub = 1
	}

	order := make([]int, n)
	for ii := range order {
		order[ii] = ii
	}
	sort.Slice(order, func(a, b int) bool { return p.mu[order[a]] > p.mu[order[b]] })

	greedy := func(idx []int) float64 {
		remaining := 1.0
		ret := 0.0
		for _, ii := range idx {
			wgt := math.Min(ub, remaining)
			ret += wgt * p.mu[ii]
			remaining -= wgt
			if remaining <= 0 {
				break
			}
		}
		return ret
	}

	hi := greedy(order)

	reversed := make([]int, n)
	for ii := range order {
		reversed[ii] = order[n-1-ii]
	}
	lo := greedy(reversed)

	return lo, hi, true
}
