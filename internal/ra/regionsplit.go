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
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
)

type _RegionCandidate struct {
    reg   target.PhysReg
    cost  float64
    live  []bool
    cons  []BlockConstraint
    infos []BlockInfo
}

/* calcInterferenceInfo derives the block constraints of vr from the interference
 * pattern of r, and returns the local cost of the spill code inside the blocks. */
func (self *Allocator) calcInterferenceInfo(vr *VirtReg, r target.PhysReg) ([]BlockConstraint, []BlockInfo, float64) {
    nb := self.sa.numBlocks()
    cons := make([]BlockConstraint, nb)
    infos := make([]BlockInfo, nb)

    /* reset the constraints */
    for i, bi := range self.sa.blocks {
        bc := &cons[i]
        infos[i] = bi
        bc.Block = bi.Block
        bc.Transparent = bi.Transparent()

        /* blocks with uses want the value in register on the live boundaries */
        if bi.Uses && bi.LiveIn  { bc.Entry = PrefReg }
        if bi.Uses && bi.LiveOut { bc.Exit = PrefReg }
    }

    /* add the interference info of every block */
    for i := range infos {
        bi := &infos[i]
        bc := &cons[i]
        rng := self.cf.BlockRange(bi.Block)
        ints := self.lu.Interference(vr, r, rng)

        /* skip interference-free blocks */
        if ints.Empty() {
            continue
        }

        /* is the interference live-in? */
        if bi.LiveIn && ints.Contains(rng.Start) {
            bc.Entry = MustSpill
        }

        /* is the interference live-out? */
        if bi.LiveOut && ints.Contains(rng.End - 1) {
            bc.Exit = MustSpill
        }

        /* transparent blocks never incur any fixed cost */
        if bi.Transparent() {
            if bc.Entry != MustSpill { bc.Entry = PrefSpill }
            if bc.Exit  != MustSpill { bc.Exit  = PrefSpill }
            continue
        }

        /* only the blocks with uses are left */
        if !bi.Uses {
            continue
        }

        /* interference between the block entry and the first use */
        if bi.LiveIn && bc.Entry != MustSpill && ints.Begin() < bi.FirstUse {
            bc.Entry = PrefSpill
        }

        /* does the interference overlap the uses in the entry segment? */
        if bi.LiveIn {
            end := bi.Kill
            if bi.LiveOut { end = bi.LastUse + 1 }
            bi.OverlapEntry = ints.OverlapsSegment(slot.Segment { Start: bi.FirstUse, End: end })
        }

        /* does the interference overlap the uses in the exit segment? */
        if bi.LiveOut && !bi.LiveIn {
            bi.OverlapExit = ints.OverlapsSegment(slot.Segment { Start: bi.Def, End: bi.LastUse + 1 })
        }

        /* interference between the last use and the block exit */
        if bi.LiveOut && bc.Exit == PrefReg && ints.OverlapsSegment(slot.Segment { Start: bi.LastUse, End: rng.End }) {
            bc.Exit = PrefSpill
        }
    }

    /* accumulate the local cost of this interference pattern */
    cost := 0.0
    for i, bi := range infos {
        n := 0
        bc := cons[i]

        /* only blocks with uses need local spill code */
        if !bi.Uses {
            continue
        }

        /* spill code for the entry segment */
        if bi.LiveIn && (bi.OverlapEntry || bc.Entry != PrefReg) {
            n++
        }

        /* spill code for the exit segment */
        if bi.LiveOut && (bi.OverlapExit || bc.Exit != PrefReg) {
            n++
        }

        /* block frequency times the number of spill instructions */
        cost += float64(n) * self.cf.Frequency(bi.Block)
    }
    return cons, infos, cost
}

/* calcGlobalSplitCost is the cost of the preferences broken by the placement, plus the
 * transparent blocks that have to switch between register and stack. */
func (self *Allocator) calcGlobalSplitCost(cons []BlockConstraint, live []bool) float64 {
    cost := 0.0
    for _, bc := range cons {
        n := 0
        ib := live[self.cf.Bundle(bc.Block, false)]
        ob := live[self.cf.Bundle(bc.Block, true)]

        /* broken preferences */
        if broken(bc.Entry, ib) { n++ }
        if broken(bc.Exit, ob)  { n++ }

        /* value changes location in the middle of the block */
        if bc.Transparent && ib != ob {
            n++
        }

        /* block frequency times the number of spill instructions */
        cost += float64(n) * self.cf.Frequency(bc.Block)
    }
    return cost
}

/* regionIntervals cuts vr into the part that stays in register and the remainder.
 * A block stays in register when the placement keeps its live boundaries in register
 * and the register is free where vr is live inside the block. */
func (self *Allocator) regionIntervals(vr *VirtReg, c *_RegionCandidate) (slot.Interval, slot.Interval) {
    var segs []slot.Segment
    for _, bi := range c.infos {
        rng := self.cf.BlockRange(bi.Block)
        blk := vr.Interval.Clip(rng)

        /* check the boundaries */
        if bi.LiveIn && !c.live[self.cf.Bundle(bi.Block, false)] {
            continue
        }
        if bi.LiveOut && !c.live[self.cf.Bundle(bi.Block, true)] {
            continue
        }

        /* the register must be free inside the block */
        if self.lu.Interference(vr, c.reg, rng).Overlaps(blk) {
            continue
        }

        /* keep in register */
        segs = append(segs, blk...)
    }

    /* everything else goes to the remainder */
    reg := slot.Make(segs...)
    return reg, vr.Interval.Subtract(reg)
}

// tryRegionSplit finds the cheapest candidate to split around, and splits vr into a
// register part and a remainder.
func (self *Allocator) tryRegionSplit(vr *VirtReg, order *AllocationOrder) outcome {
    var best *_RegionCandidate
    self.sa = analyzeSplit(vr, self.cf)

    /* release the analysis after use */
    defer func() {
        self.sa = nil
    }()

    /* single block intervals are left for the spiller */
    if self.sa.numBlocks() < 2 {
        return outcome{}
    }

    /* evaluate every candidate */
    for order.Rewind();; {
        r := order.Next()
        if r == target.NoReg {
            break
        }

        /* local cost first, it already could be too expensive */
        cons, infos, cost := self.calcInterferenceInfo(vr, r)
        if best != nil && cost >= best.cost {
            continue
        }

        /* solve the placement, nothing live means no region to split */
        live, perfect := self.sp.Place(cons)
        if !anyLive(live) {
            continue
        }

        /* add the global cost if some preferences are broken */
        if !perfect {
            cost += self.calcGlobalSplitCost(cons, live)
        }

        /* strictly better candidates only, the first one wins on ties */
        if best == nil || cost < best.cost {
            best = &_RegionCandidate { reg: r, cost: cost, live: live, cons: cons, infos: infos }
        }
    }

    /* no candidates, or spilling everything is cheaper */
    if best == nil || best.cost >= useFrequency(vr, self.cf) {
        return outcome{}
    }

    /* both parts must be non-empty */
    reg, rest := self.regionIntervals(vr, best)
    if reg.Empty() || rest.Empty() {
        return outcome{}
    }

    /* split the region */
    self.opts.Tracef("regalloc: %s: region split %s for %s, cost = %g", self.name(), vr, self.tgt.Name(best.reg), best.cost)
    self.stats.RegionSplits++
    return outcome { kind: outcomeSplit, vregs: self.split(vr, []slot.Interval { reg, rest }, []target.PhysReg { best.reg, target.NoReg }) }
}

func anyLive(live []bool) bool {
    for _, v := range live {
        if v {
            return true
        }
    }
    return false
}
