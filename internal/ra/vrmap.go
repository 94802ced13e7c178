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

    `github.com/cloudwego/regalloc/internal/target`
)

// LocKind is the kind of location a virtual register is mapped to.
type LocKind uint8

const (
    Unassigned LocKind = iota
    InReg
    OnStack
    Replaced
)

func (self LocKind) String() string {
    switch self {
        case Unassigned : return "unassigned"
        case InReg      : return "reg"
        case OnStack    : return "stack"
        case Replaced   : return "replaced"
        default         : return fmt.Sprintf("LocKind(%d)", self)
    }
}

// Location is where a virtual register lives.
type Location struct {
    Kind LocKind
    Reg  target.PhysReg
    Slot int
}

// VirtRegMap is the assignment map. Pieces of the same original virtual register share
// one stack slot.
type VirtRegMap struct {
    locs  []Location
    slots map[int]int
}

func NewVirtRegMap() *VirtRegMap {
    return &VirtRegMap { slots: make(map[int]int) }
}

func (self *VirtRegMap) at(id int) *Location {
    for len(self.locs) <= id {
        self.locs = append(self.locs, Location { Slot: -1 })
    }
    return &self.locs[id]
}

func (self *VirtRegMap) Get(id int) Location {
    if id >= len(self.locs) {
        return Location { Slot: -1 }
    } else {
        return self.locs[id]
    }
}

func (self *VirtRegMap) PhysReg(id int) target.PhysReg {
    if loc := self.Get(id); loc.Kind != InReg {
        return target.NoReg
    } else {
        return loc.Reg
    }
}

func (self *VirtRegMap) Assign(vr *VirtReg, r target.PhysReg) {
    if p := self.at(vr.ID); p.Kind != Unassigned {
        panic(fmt.Sprintf("regalloc: assigning %s which is already %s", vr, p.Kind))
    } else {
        p.Kind, p.Reg = InReg, r
    }
}

func (self *VirtRegMap) Unassign(vr *VirtReg) {
    if p := self.at(vr.ID); p.Kind != InReg {
        panic(fmt.Sprintf("regalloc: unassigning %s which is %s", vr, p.Kind))
    } else {
        p.Kind, p.Reg = Unassigned, target.NoReg
    }
}

// Spill maps the virtual register to the stack slot of its original register.
func (self *VirtRegMap) Spill(vr *VirtReg) int {
    p := self.at(vr.ID)
    sl, ok := self.slots[vr.Origin]

    /* allocate a new stack slot if needed */
    if !ok {
        sl = len(self.slots)
        self.slots[vr.Origin] = sl
    }

    /* map to stack */
    p.Kind, p.Reg, p.Slot = OnStack, target.NoReg, sl
    return sl
}

// Replace marks a virtual register as replaced by split children.
func (self *VirtRegMap) Replace(vr *VirtReg) {
    p := self.at(vr.ID)
    p.Kind, p.Reg = Replaced, target.NoReg
}

func (self *VirtRegMap) NumSlots() int {
    return len(self.slots)
}
