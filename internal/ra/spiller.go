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

// SpillKind tells whether a spill point stores to or reloads from the stack slot.
type SpillKind uint8

const (
    Store SpillKind = iota
    Reload
)

func (self SpillKind) String() string {
    switch self {
        case Store  : return "store"
        case Reload : return "reload"
        default     : return fmt.Sprintf("SpillKind(%d)", self)
    }
}

// SpillPoint is a memory access the rewriter has to insert at some program point.
// Stores go after the instruction, reloads go before it.
type SpillPoint struct {
    VReg int
    At   slot.Index
    Kind SpillKind
}

func (self SpillPoint) String() string {
    return fmt.Sprintf("%s %%%d @ %d", self.Kind, self.VReg, self.At)
}

// InlineSpiller spills a virtual register by reloading it right before every use and
// storing it right after every def, each use gets its own tiny virtual register that
// can neither be split nor spilled again. A tiny register that still cannot get a
// register is folded into a memory operand.
type InlineSpiller struct {
    vrs    *VirtRegs
    points []SpillPoint
}

func NewInlineSpiller(vrs *VirtRegs, _ ControlFlow) Spiller {
    return &InlineSpiller { vrs: vrs }
}

func (self *InlineSpiller) Spill(vr *VirtReg, _ []*VirtReg) []*VirtReg {
    var ret []*VirtReg

    /* spill products are folded */
    if vr.Product {
        return nil
    }

    /* one product per use */
    for _, u := range vr.Uses {
        vc := self.vrs.Child(vr, slot.Range(u.At, u.At + 1))
        vc.Weight = Unspillable
        vc.Product = true
        vc.NoSplit = true
        ret = append(ret, vc)

        /* memory accesses */
        if u.Def {
            self.points = append(self.points, SpillPoint { VReg: vc.ID, At: u.At, Kind: Store })
        } else {
            self.points = append(self.points, SpillPoint { VReg: vc.ID, At: u.At, Kind: Reload })
        }
    }
    return ret
}

// Points returns the memory accesses recorded so far.
func (self *InlineSpiller) Points() []SpillPoint {
    return self.points
}
