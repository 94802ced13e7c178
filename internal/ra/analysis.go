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
    `fmt`

    `github.com/cloudwego/regalloc/internal/slot`
)

// BlockInfo describes how a virtual register is live in one basic block.
//
// Kill is the end of the live range inside the block when it is not live-out, Def is the
// start of the live range inside the block when it is not live-in.
type BlockInfo struct {
    Block        int
    Uses         bool
    LiveIn       bool
    LiveOut      bool
    LiveThrough  bool
    FirstUse     slot.Index
    LastUse      slot.Index
    Kill         slot.Index
    Def          slot.Index
    OverlapEntry bool
    OverlapExit  bool
}

func (self BlockInfo) String() string {
    return fmt.Sprintf(
        "bb_%d{in=%v out=%v through=%v uses=%v first=%d last=%d kill=%d def=%d}",
        self.Block,
        self.LiveIn,
        self.LiveOut,
        self.LiveThrough,
        self.Uses,
        self.FirstUse,
        self.LastUse,
        self.Kill,
        self.Def,
    )
}

// Transparent blocks have the value live through without touching it.
func (self BlockInfo) Transparent() bool {
    return self.LiveThrough && !self.Uses
}

type splitAnalysis struct {
    vr     *VirtReg
    blocks []BlockInfo
}

func analyzeSplit(vr *VirtReg, cf ControlFlow) *splitAnalysis {
    sa := &splitAnalysis { vr: vr }

    /* examine every block touched by the interval */
    for b := 0; b < cf.NumBlocks(); b++ {
        if rng := cf.BlockRange(b); vr.Interval.OverlapsSegment(rng) {
            sa.blocks = append(sa.blocks, sa.blockInfo(b, rng))
        }
    }
    return sa
}

func (self *splitAnalysis) blockInfo(b int, rng slot.Segment) BlockInfo {
    iv := self.vr.Interval.Clip(rng)
    bi := BlockInfo {
        Block   : b,
        LiveIn  : iv.Begin() == rng.Start,
        LiveOut : iv.End() == rng.End,
        Def     : iv.Begin(),
        Kill    : iv.End(),
    }

    /* find the first and the last use in this block */
    for _, u := range self.vr.Uses {
        if rng.Contains(u.At) {
            if !bi.Uses {
                bi.Uses = true
                bi.FirstUse = u.At
            }
            bi.LastUse = u.At
        }
    }

    /* live-through blocks are covered completely */
    bi.LiveThrough = bi.LiveIn && bi.LiveOut && len(iv) == 1
    return bi
}

// numBlocks is the number of blocks the interval touches.
func (self *splitAnalysis) numBlocks() int {
    return len(self.blocks)
}
