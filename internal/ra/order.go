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

// AllocationOrder walks the candidate registers of a virtual register: the register of
// its copy partner first, then its own hint, then the class order. Reserved registers
// and registers outside the class never show up, neither do duplicates.
type AllocationOrder struct {
    pos  int
    regs []target.PhysReg
}

func newAllocationOrder(vr *VirtReg, vrs *VirtRegs, vrm *VirtRegMap, tgt Target) *AllocationOrder {
    rs := target.NewRegSet()
    ret := new(AllocationOrder)

    /* add the candidate if possible */
    add := func(r target.PhysReg) {
        if r != target.NoReg && !rs.Contains(r) && tgt.InClass(vr.Class, r) && !tgt.Reserved(r) {
            rs.Add(r)
            ret.regs = append(ret.regs, r)
        }
    }

    /* paired hint */
    if vr.CopyOf >= 0 {
        add(copyHint(vr, vrs, vrm))
    }

    /* single hint, and then the remaining */
    add(vr.Hint)
    for _, r := range tgt.Order(vr.Class) { add(r) }
    return ret
}

/* copyHint returns the register of the copy partner. A partner that has been split or
 * spilled is resolved through its piece holding a register at the boundaries of vr. */
func copyHint(vr *VirtReg, vrs *VirtRegs, vrm *VirtRegMap) target.PhysReg {
    switch vrm.Get(vr.CopyOf).Kind {
        case InReg      : return vrm.PhysReg(vr.CopyOf)
        case Unassigned : return target.NoReg
    }

    /* the copy happens where vr starts or ends */
    begin, end := vr.Interval.Begin(), vr.Interval.End()
    for _, p := range []slot.Index { begin, begin - 1, end, end - 1 } {
        for _, vc := range vrs.All() {
            if vc.Interval.Contains(p) && vrm.Get(vc.ID).Kind == InReg && descends(vc, vr.CopyOf, vrs) {
                return vrm.PhysReg(vc.ID)
            }
        }
    }
    return target.NoReg
}

func descends(vr *VirtReg, id int, vrs *VirtRegs) bool {
    for p := vr.Parent; p >= 0; p = vrs.Get(p).Parent {
        if p == id {
            return true
        }
    }
    return false
}

// Next returns the next candidate, or NoReg when exhausted.
func (self *AllocationOrder) Next() target.PhysReg {
    if self.pos >= len(self.regs) {
        return target.NoReg
    } else {
        self.pos++
        return self.regs[self.pos - 1]
    }
}

// Rewind restarts the walk from the first candidate.
func (self *AllocationOrder) Rewind() {
    self.pos = 0
}

func (self *AllocationOrder) Len() int {
    return len(self.regs)
}
