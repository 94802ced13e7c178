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
    `sort`

    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
)

// Unspillable is the spill weight of a virtual register that must never be evicted.
var Unspillable = math.Inf(1)

// AutoWeight asks the allocator to compute the spill weight from the uses.
const AutoWeight = -1.0

// Use is a read or a write of a virtual register at some program point.
type Use struct {
    At  slot.Index
    Def bool
}

// VirtReg is a virtual register. Virtual registers are never changed once enqueued for
// allocation, splitting and spilling replace them with new ones.
type VirtReg struct {
    ID       int
    Class    target.Class
    Interval slot.Interval
    Uses     []Use
    Weight   float64
    Hint     target.PhysReg
    CopyOf   int
    Fixed    target.PhysReg
    Parent   int
    Origin   int
    NoSplit  bool
    Product  bool
}

func (self *VirtReg) String() string {
    return fmt.Sprintf("%%%d%s", self.ID, self.Interval)
}

func (self *VirtReg) Unspillable() bool {
    return math.IsInf(self.Weight, 1)
}

func (self *VirtReg) IsFixed() bool {
    return self.Fixed != target.NoReg
}

// Splittable checks whether the splitters may replace this register.
func (self *VirtReg) Splittable() bool {
    return !self.NoSplit && !self.Product && !self.IsFixed()
}

// Span is the number of program points covered by the live interval.
func (self *VirtReg) Span() int {
    return self.Interval.Span()
}

// VirtRegs is the table of all virtual registers of a function, including the ones
// created by splitting and spilling.
type VirtRegs struct {
    regs []*VirtReg
}

func NewVirtRegs() *VirtRegs {
    return new(VirtRegs)
}

// New creates a fresh virtual register without any hint.
func (self *VirtRegs) New(class target.Class, iv slot.Interval, uses ...Use) *VirtReg {
    vr := &VirtReg {
        ID       : len(self.regs),
        Class    : class,
        Interval : iv,
        Uses     : normalizeUses(uses),
        Weight   : AutoWeight,
        CopyOf   : -1,
        Parent   : -1,
    }

    /* add to register table */
    vr.Origin = vr.ID
    self.regs = append(self.regs, vr)
    return vr
}

// Child creates a virtual register that covers part of the parent, with the uses
// inside the new interval.
func (self *VirtRegs) Child(parent *VirtReg, iv slot.Interval) *VirtReg {
    vr := &VirtReg {
        ID       : len(self.regs),
        Class    : parent.Class,
        Interval : iv,
        Weight   : AutoWeight,
        Hint     : parent.Hint,
        CopyOf   : parent.CopyOf,
        Parent   : parent.ID,
        Origin   : parent.Origin,
    }

    /* copy the uses */
    for _, u := range parent.Uses {
        if iv.Contains(u.At) {
            vr.Uses = append(vr.Uses, u)
        }
    }

    /* add to register table */
    self.regs = append(self.regs, vr)
    return vr
}

func (self *VirtRegs) Get(id int) *VirtReg {
    return self.regs[id]
}

func (self *VirtRegs) Len() int {
    return len(self.regs)
}

func (self *VirtRegs) All() []*VirtReg {
    return self.regs
}

func normalizeUses(uses []Use) []Use {
    if len(uses) == 0 {
        return nil
    }

    /* sort by program point */
    buf := append([]Use(nil), uses...)
    sort.SliceStable(buf, func(i int, j int) bool { return buf[i].At < buf[j].At })

    /* merge the uses at the same point */
    ret := buf[:1]
    for _, u := range buf[1:] {
        if p := &ret[len(ret) - 1]; p.At == u.At {
            p.Def = p.Def || u.Def
        } else {
            ret = append(ret, u)
        }
    }
    return ret
}
