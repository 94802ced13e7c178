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
    `math`

    `github.com/cloudwego/regalloc/internal/opts`
    `github.com/cloudwego/regalloc/internal/target`
    `github.com/oleiade/lane`
)

type _OutcomeKind uint8

const (
    outcomeNone _OutcomeKind = iota
    outcomeAssign
    outcomeSplit
    outcomeSpill
)

/* outcome is the result of one escalation stage: nothing happened, vr got a register
 * (possibly with some new registers from eviction), or vr was replaced by new registers. */
type outcome struct {
    kind  _OutcomeKind
    reg   target.PhysReg
    vregs []*VirtReg
}

// Allocator is the greedy register allocator of one function.
type Allocator struct {
    fn      *Function
    opts    opts.Options
    tgt     Target
    cf      ControlFlow
    vrs     *VirtRegs
    vrm     *VirtRegMap
    lu      *LiveUnion
    sp      *SpillPlacer
    sa      *splitAnalysis
    queue   *lane.PQueue
    spiller Spiller
    stats   Stats
}

func NewAllocator(fn *Function, o opts.Options) *Allocator {
    self := &Allocator {
        fn    : fn,
        opts  : o,
        tgt   : fn.Target,
        cf    : fn.CFG,
        vrs   : fn.VirtRegs,
        vrm   : NewVirtRegMap(),
        lu    : NewLiveUnion(fn.Target),
        sp    : NewSpillPlacer(fn.CFG, o.SolverRounds),
        queue : lane.NewPQueue(lane.MAXPQ),
    }

    /* create the spiller */
    if fn.Spiller == nil {
        self.spiller = NewInlineSpiller(fn.VirtRegs, fn.CFG)
    } else {
        self.spiller = fn.Spiller(fn.VirtRegs, fn.CFG)
    }
    return self
}

func (self *Allocator) name() string {
    if self.fn.Name == "" {
        return "<anonymous>"
    } else {
        return self.fn.Name
    }
}

/* enqueue adds vr to the worklist, the heap only takes integer priorities, the upper
 * half of the IEEE-754 representation keeps the order of non-negative numbers */
func (self *Allocator) enqueue(vr *VirtReg) {
    if vr.Interval.Empty() {
        panic(fmt.Sprintf("regalloc: empty live interval for %%%d", vr.ID))
    }
    self.queue.Push(vr, int(math.Float64bits(priority(vr)) >> 32))
}

func (self *Allocator) assign(vr *VirtReg, r target.PhysReg) {
    self.lu.Assign(vr, r)
    self.vrm.Assign(vr, r)
    self.stats.Assigned++
    self.opts.Tracef("regalloc: %s: assign %s to %s", self.name(), vr, self.tgt.Name(r))
}

func (self *Allocator) unassign(vr *VirtReg) {
    self.lu.Unassign(vr, self.vrm.PhysReg(vr.ID))
    self.vrm.Unassign(vr)
}

func (self *Allocator) spill(vr *VirtReg, pending []*VirtReg) []*VirtReg {
    sl := self.vrm.Spill(vr)
    ret := self.spiller.Spill(vr, pending)

    /* update the weights if the spiller did not */
    for _, vc := range ret {
        if vc.Weight < 0 {
            vc.Weight = childWeight(vr, vc, self.cf)
        }
    }

    /* spilled registers never come back */
    self.stats.Spilled++
    self.opts.Tracef("regalloc: %s: spill %s to slot %d, %d new registers", self.name(), vr, sl, len(ret))
    return ret
}

func (self *Allocator) seed() {
    for _, vr := range self.vrs.All() {
        if vr.Interval.Empty() {
            panic(fmt.Sprintf("regalloc: empty live interval for %%%d", vr.ID))
        }

        /* every use must be inside the interval */
        for _, u := range vr.Uses {
            if !vr.Interval.Contains(u.At) {
                panic(fmt.Sprintf("regalloc: use of %s at %d is outside of its live interval", vr, u.At))
            }
        }

        /* initial spill weight */
        initWeight(vr, self.cf)
    }

    /* fixed registers go first */
    for _, vr := range self.vrs.All() {
        if vr.IsFixed() {
            if ints, _ := self.lu.Collect(vr, vr.Fixed, 1); len(ints) != 0 {
                panic(fmt.Sprintf("regalloc: fixed registers %s and %s collide on %s", vr, ints[0], self.tgt.Name(vr.Fixed)))
            } else {
                self.assign(vr, vr.Fixed)
            }
        }
    }

    /* and the remaining into the worklist */
    for _, vr := range self.vrs.All() {
        if !vr.IsFixed() {
            self.enqueue(vr)
        }
    }
}

/* reassignVReg moves the interferer ivr away from want, to some register that does not
 * alias with want. */
func (self *Allocator) reassignVReg(ivr *VirtReg, want target.PhysReg) bool {
    cur := self.vrm.PhysReg(ivr.ID)
    order := newAllocationOrder(ivr, self.vrs, self.vrm, self.tgt)

    /* the interferer must be in the way */
    if cur == target.NoReg || !self.tgt.Overlaps(cur, want) {
        panic(fmt.Sprintf("regalloc: reassigning %s from %s which does not alias %s", ivr, self.tgt.Name(cur), self.tgt.Name(want)))
    }

    /* find a new home */
    for r := order.Next(); r != target.NoReg; r = order.Next() {
        if !self.tgt.Overlaps(r, want) && !self.lu.QueryUncached(ivr, r) {
            self.unassign(ivr)
            self.assign(ivr, r)
            self.stats.Reassigned++
            return true
        }
    }
    return false
}

// tryReassign frees a candidate that is blocked by exactly one movable register.
func (self *Allocator) tryReassign(vr *VirtReg, order *AllocationOrder) outcome {
    for order.Rewind();; {
        r := order.Next()
        if r == target.NoReg {
            break
        }

        /* exactly one interferer */
        ints, ok := self.lu.Collect(vr, r, 1)
        if !ok || len(ints) != 1 || ints[0].IsFixed() {
            continue
        }

        /* move it away */
        if self.reassignVReg(ints[0], r) {
            return outcome { kind: outcomeAssign, reg: r }
        }
    }
    return outcome{}
}

// trySplit tries the local-loop splitter first and then the region splitter.
func (self *Allocator) trySplit(vr *VirtReg, order *AllocationOrder) outcome {
    if !vr.Splittable() {
        return outcome{}
    }

    /* only intervals crossing blocks are split */
    if b := self.cf.BlockAt(vr.Interval.Begin()); b >= 0 && self.cf.BlockRange(b).End >= vr.Interval.End() {
        return outcome{}
    }

    /* local loop splitting */
    if ret := self.tryLoopSplit(vr, order); ret.kind != outcomeNone {
        return ret
    }

    /* region splitting */
    return self.tryRegionSplit(vr, order)
}

/* selectOrSplit runs the escalation stages on vr, the first one that works wins.
 * Spilling always works. */
func (self *Allocator) selectOrSplit(vr *VirtReg) outcome {
    order := newAllocationOrder(vr, self.vrs, self.vrm, self.tgt)

    /* first free register */
    for r := order.Next(); r != target.NoReg; r = order.Next() {
        if !self.lu.Query(vr, r) {
            return outcome { kind: outcomeAssign, reg: r }
        }
    }

    /* reassign, split or evict */
    for _, fn := range []func(*VirtReg, *AllocationOrder) outcome {
        self.tryReassign,
        self.trySplit,
        self.tryEvict,
    } {
        if ret := fn(vr, order); ret.kind != outcomeNone {
            return ret
        }
    }

    /* spill to memory */
    return outcome { kind: outcomeSpill, vregs: self.spill(vr, nil) }
}

// Run allocates every virtual register of the function.
func (self *Allocator) Run() *Result {
    self.seed()

    /* process the worklist */
    for !self.queue.Empty() {
        v, _ := self.queue.Pop()
        vr := v.(*VirtReg)

        /* already resolved */
        if self.vrm.Get(vr.ID).Kind != Unassigned {
            continue
        }

        /* run the stages */
        self.lu.Reset()
        self.stats.Rounds++
        ret := self.selectOrSplit(vr)

        /* commit the assignment, split and spill are already done */
        if ret.kind == outcomeAssign {
            self.assign(vr, ret.reg)
        }

        /* queue the new registers */
        for _, vc := range ret.vregs {
            self.enqueue(vc)
        }
    }

    /* check the final state if needed */
    if self.opts.Verify {
        self.verify()
    }

    /* build the result */
    updateCounters(self.stats)
    return self.result()
}

func (self *Allocator) result() *Result {
    ret := &Result {
        Name       : self.fn.Name,
        VirtRegs   : self.vrs,
        Assignment : self.vrm,
        Stats      : self.stats,
    }

    /* add spill points if any */
    if sp, ok := self.spiller.(interface{ Points() []SpillPoint }); ok {
        ret.Spills = sp.Points()
    }
    return ret
}
