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

package ra

import (
    `sync/atomic`

    `github.com/cloudwego/regalloc/internal/target`
)

// Stats records what the allocator did to one function.
type Stats struct {
    Rounds       int
    Assigned     int
    Reassigned   int
    LoopSplits   int
    RegionSplits int
    Evicted      int
    Spilled      int
}

var (
    FuncCount        int64
    RoundCount       int64
    AssignCount      int64
    ReassignCount    int64
    LoopSplitCount   int64
    RegionSplitCount int64
    EvictCount       int64
    SpillCount       int64
)

func updateCounters(st Stats) {
    atomic.AddInt64(&FuncCount, 1)
    atomic.AddInt64(&RoundCount, int64(st.Rounds))
    atomic.AddInt64(&AssignCount, int64(st.Assigned))
    atomic.AddInt64(&ReassignCount, int64(st.Reassigned))
    atomic.AddInt64(&LoopSplitCount, int64(st.LoopSplits))
    atomic.AddInt64(&RegionSplitCount, int64(st.RegionSplits))
    atomic.AddInt64(&EvictCount, int64(st.Evicted))
    atomic.AddInt64(&SpillCount, int64(st.Spilled))
}

// Result is the outcome of allocating one function.
type Result struct {
    Name       string
    VirtRegs   *VirtRegs
    Assignment *VirtRegMap
    Spills     []SpillPoint
    Stats      Stats
}

// Location returns where the virtual register lives.
func (self *Result) Location(id int) Location {
    return self.Assignment.Get(id)
}

// PhysReg returns the register of the virtual register, or NoReg.
func (self *Result) PhysReg(id int) target.PhysReg {
    return self.Assignment.PhysReg(id)
}

// Pieces returns the final virtual registers descending from the original one, that is
// the ones that were not replaced by splitting.
func (self *Result) Pieces(origin int) []*VirtReg {
    var ret []*VirtReg
    for _, vr := range self.VirtRegs.All() {
        if vr.Origin == origin && self.Assignment.Get(vr.ID).Kind != Replaced {
            ret = append(ret, vr)
        }
    }
    return ret
}
