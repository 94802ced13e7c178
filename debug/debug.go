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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/regalloc/internal/ra"
)

// A Stats records process-wide statistics about the register allocator.
type Stats struct {
	Functions  int
	Rounds     int
	Assigned   int
	Reassigned int
	Splits     SplitStats
	Evicted    int
	Spilled    int
}

// A SplitStats records how many live intervals were split by each splitter.
type SplitStats struct {
	Loop   int
	Region int
}

// GetStats returns statistics of the register allocator.
func GetStats() Stats {
	return Stats{
		Functions:  int(atomic.LoadInt64(&ra.FuncCount)),
		Rounds:     int(atomic.LoadInt64(&ra.RoundCount)),
		Assigned:   int(atomic.LoadInt64(&ra.AssignCount)),
		Reassigned: int(atomic.LoadInt64(&ra.ReassignCount)),
		Splits: SplitStats{
			Loop:   int(atomic.LoadInt64(&ra.LoopSplitCount)),
			Region: int(atomic.LoadInt64(&ra.RegionSplitCount)),
		},
		Evicted: int(atomic.LoadInt64(&ra.EvictCount)),
		Spilled: int(atomic.LoadInt64(&ra.SpillCount)),
	}
}
