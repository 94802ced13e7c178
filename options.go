/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package regalloc

import (
	"fmt"

	"github.com/cloudwego/regalloc/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// Logger receives the allocator traces. logger.Logger from
// github.com/bytedance/gopkg/util/logger satisfies it.
type Logger = opts.Logger

// WithVerify enables the verifier, which checks every split and the final
// assignment, and panics with a *VerifyError if anything is broken.
//
// This value can also be configured with the `REGALLOC_VERIFY` environment
// variable.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithDebug enables the allocator traces.
//
// This value can also be configured with the `REGALLOC_DEBUG` environment
// variable.
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}

// WithCollectLimit sets how many interfering registers are enumerated per
// candidate register before the eviction cost is considered infinite.
//
// Set this option to "0" disables this limit, which means enumerating every
// interfering register.
//
// The default value of this option is "16".
func WithCollectLimit(limit int) Option {
	if limit < 0 {
		panic(fmt.Sprintf("regalloc: invalid collect limit: %d", limit))
	} else {
		return func(o *opts.Options) { o.CollectLimit = limit }
	}
}

// WithSolverRounds sets how many relaxation sweeps over the edge bundles the
// spill placement solver may do before settling.
//
// The default value of this option is "100".
func WithSolverRounds(rounds int) Option {
	if rounds <= 0 {
		panic(fmt.Sprintf("regalloc: invalid solver rounds: %d", rounds))
	} else {
		return func(o *opts.Options) { o.SolverRounds = rounds }
	}
}

// WithLogger sends the allocator traces to l instead of the default logger.
// Traces are only emitted when debugging is enabled.
func WithLogger(l Logger) Option {
	return func(o *opts.Options) { o.Logger = l }
}

// SetCollectLimit sets the default collect limit for all allocations from
// now on.
//
// Returns the old opts.CollectLimit value.
func SetCollectLimit(limit int) int {
	if limit < 0 {
		panic(fmt.Sprintf("regalloc: invalid collect limit: %d", limit))
	}
	limit, opts.CollectLimit = opts.CollectLimit, limit
	return limit
}

// SetSolverRounds sets the default solver rounds for all allocations from
// now on.
//
// Returns the old opts.SolverRounds value.
func SetSolverRounds(rounds int) int {
	if rounds <= 0 {
		panic(fmt.Sprintf("regalloc: invalid solver rounds: %d", rounds))
	}
	rounds, opts.SolverRounds = opts.SolverRounds, rounds
	return rounds
}
