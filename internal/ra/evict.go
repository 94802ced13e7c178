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
    `math`

    `github.com/cloudwego/regalloc/internal/target`
)

/* calcInterferenceWeight sums the weights of everything in the way of vr on r.
 * It is infinite if any interferer must stay where it is. */
func (self *Allocator) calcInterferenceWeight(vr *VirtReg, r target.PhysReg) (float64, []*VirtReg) {
    sum := 0.0
    ints, ok := self.lu.Collect(vr, r, self.opts.CollectLimit)

    /* too many interferers */
    if !ok {
        return math.Inf(1), nil
    }

    /* add up the weights */
    for _, iv := range ints {
        if iv.IsFixed() || iv.Unspillable() {
            return math.Inf(1), nil
        } else {
            sum += iv.Weight
        }
    }
    return sum, ints
}

// tryEvict evicts and spills the cheapest interferers if they are cheaper than vr.
func (self *Allocator) tryEvict(vr *VirtReg, order *AllocationOrder) outcome {
    var victims []*VirtReg
    reg, cost := target.NoReg, vr.Weight

    /* find the cheapest candidate */
    for order.Rewind();; {
        r := order.Next()
        if r == target.NoReg {
            break
        }

        /* must be strictly cheaper than everything so far */
        if w, ints := self.calcInterferenceWeight(vr, r); w < cost {
            reg, cost, victims = r, w, ints
        }
    }

    /* nothing to evict */
    if reg == target.NoReg {
        return outcome{}
    }

    /* remove the victims from their registers */
    for _, v := range victims {
        self.unassign(v)
        self.opts.Tracef("regalloc: %s: evict %s from %s for %s", self.name(), v, self.tgt.Name(reg), vr)
    }

    /* spill all of them */
    var spilled []*VirtReg
    for _, v := range victims {
        spilled = append(spilled, self.spill(v, victims)...)
    }

    /* the register is free now */
    self.stats.Evicted += len(victims)
    return outcome { kind: outcomeAssign, reg: reg, vregs: spilled }
}
