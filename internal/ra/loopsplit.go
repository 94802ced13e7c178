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
    `sort`

    `github.com/cloudwego/regalloc/internal/cfg`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
)

func hasUseIn(vr *VirtReg, iv slot.Interval) bool {
    for _, u := range vr.Uses {
        if iv.Contains(u.At) {
            return true
        }
    }
    return false
}

/* candidateLoops returns the loops that are touched by vr, contain at least one use and do
 * not contain the whole interval, the largest loops first. */
func (self *Allocator) candidateLoops(vr *VirtReg) []*cfg.Loop {
    var ret []*cfg.Loop
    for _, lp := range self.cf.Loops() {
        if iv := vr.Interval.Intersect(lp.Ranges); !iv.Empty() && !iv.Equal(vr.Interval) && hasUseIn(vr, lp.Ranges) {
            ret = append(ret, lp)
        }
    }

    /* sort by area, larger loops first */
    sort.SliceStable(ret, func(i int, j int) bool {
        if ai, aj := ret[i].Area(), ret[j].Area(); ai != aj {
            return ai > aj
        } else {
            return ret[i].Header < ret[j].Header
        }
    })
    return ret
}

// tryLoopSplit splits vr around the first loop in which some candidate is free.
func (self *Allocator) tryLoopSplit(vr *VirtReg, order *AllocationOrder) outcome {
    for _, lp := range self.candidateLoops(vr) {
        for order.Rewind();; {
            r := order.Next()
            if r == target.NoReg {
                break
            }

            /* must be free for the whole loop */
            if self.lu.LoopQuery(vr, r, lp) {
                continue
            }

            /* split at the loop boundary */
            parts := []slot.Interval {
                vr.Interval.Intersect(lp.Ranges),
                vr.Interval.Subtract(lp.Ranges),
            }

            /* the inside part prefers the free register */
            self.opts.Tracef("regalloc: %s: split %s around %s for %s", self.name(), vr, lp, self.tgt.Name(r))
            self.stats.LoopSplits++
            return outcome { kind: outcomeSplit, vregs: self.split(vr, parts, []target.PhysReg { r, target.NoReg }) }
        }
    }
    return outcome{}
}
