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

package target

import (
    `fmt`
    `sort`
    `strings`
)

// RegSet is an unordered set of physical registers.
type RegSet map[PhysReg]struct{}

func NewRegSet(rr ...PhysReg) (rs RegSet) {
    rs = make(RegSet, len(rr))
    for _, r := range rr { rs.Add(r) }
    return
}

func (self RegSet) Add(r PhysReg) {
    self[r] = struct{}{}
}

func (self RegSet) Union(rs RegSet) {
    for r := range rs {
        self.Add(r)
    }
}

func (self RegSet) Remove(r PhysReg) {
    delete(self, r)
}

func (self RegSet) Subtract(rs RegSet) {
    for r := range rs {
        self.Remove(r)
    }
}

func (self RegSet) Contains(r PhysReg) bool {
    _, ok := self[r]
    return ok
}

func (self RegSet) Clone() (rs RegSet) {
    rs = make(RegSet, len(self))
    for r := range self { rs.Add(r) }
    return
}

func (self RegSet) ToSlice() []PhysReg {
    nb := len(self)
    rr := make([]PhysReg, 0, nb)

    /* extract all registers */
    for r := range self {
        rr = append(rr, r)
    }

    /* sort by register ID */
    sort.Slice(rr, func(i int, j int) bool { return rr[i] < rr[j] })
    return rr
}

func (self RegSet) String() string {
    rr := self.ToSlice()
    rs := make([]string, 0, len(rr))

    /* convert every register */
    for _, r := range rr {
        rs = append(rs, r.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}
