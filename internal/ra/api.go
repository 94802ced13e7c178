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
    `github.com/cloudwego/regalloc/internal/cfg`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
)

// Target describes the register file being allocated.
type Target interface {
    NumRegs() int
    Name(r target.PhysReg) string
    Order(c target.Class) []target.PhysReg
    InClass(c target.Class, r target.PhysReg) bool
    Aliases(r target.PhysReg) []target.PhysReg
    Overlaps(a target.PhysReg, b target.PhysReg) bool
    Reserved(r target.PhysReg) bool
}

// ControlFlow is the read-only control-flow service of the function.
type ControlFlow interface {
    NumBlocks() int
    BlockRange(b int) slot.Segment
    BlockAt(p slot.Index) int
    Frequency(b int) float64
    Bundle(b int, exit bool) int
    NumBundles() int
    Loops() []*cfg.Loop
}

// Spiller removes a virtual register from register candidacy. The register has already
// been mapped to its stack slot, the spiller returns the replacement virtual registers
// that still need a register. Pending holds the other registers spilled at the same time.
type Spiller interface {
    Spill(vr *VirtReg, pending []*VirtReg) []*VirtReg
}

// SpillerFactory creates the spiller of one allocation.
type SpillerFactory func(vrs *VirtRegs, cf ControlFlow) Spiller

// Function is everything the allocator needs to know about a function.
type Function struct {
    Name     string
    Target   Target
    CFG      ControlFlow
    VirtRegs *VirtRegs
    Spiller  SpillerFactory
}
