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
    `testing`

    `github.com/cloudwego/regalloc/internal/target`
    `github.com/stretchr/testify/require`
)

func walk(order *AllocationOrder) []target.PhysReg {
    var ret []target.PhysReg
    for r := order.Next(); r != target.NoReg; r = order.Next() {
        ret = append(ret, r)
    }
    return ret
}

func TestAllocationOrder_Hints(t *testing.T) {
    tgt := target.Generic(4)
    vrs := NewVirtRegs()
    vrm := NewVirtRegMap()
    r0, _ := tgt.Lookup("r0")
    r1, _ := tgt.Lookup("r1")
    r2, _ := tgt.Lookup("r2")
    r3, _ := tgt.Lookup("r3")
    d0, _ := tgt.Lookup("d0")
    p := vrs.New(0, ival(seg(0, 10)))
    v := vrs.New(0, ival(seg(10, 20)))
    v.Hint = r3
    v.CopyOf = p.ID
    require.Equal(t, []target.PhysReg { r3, r0, r1, r2 }, walk(newAllocationOrder(v, vrs, vrm, tgt)))
    vrm.Assign(p, r2)
    order := newAllocationOrder(v, vrs, vrm, tgt)
    require.Equal(t, []target.PhysReg { r2, r3, r0, r1 }, walk(order))
    require.Equal(t, target.NoReg, order.Next())
    order.Rewind()
    require.Equal(t, []target.PhysReg { r2, r3, r0, r1 }, walk(order))
    v.Hint = d0
    require.Equal(t, []target.PhysReg { r2, r0, r1, r3 }, walk(newAllocationOrder(v, vrs, vrm, tgt)))
}

func TestAllocationOrder_Reserved(t *testing.T) {
    tgt := target.Generic(4)
    vrm := NewVirtRegMap()
    r0, _ := tgt.Lookup("r0")
    r2, _ := tgt.Lookup("r2")
    r3, _ := tgt.Lookup("r3")
    d0, _ := tgt.Lookup("d0")
    tgt.Reserve(d0)
    vrs := NewVirtRegs()
    v := vrs.New(0, ival(seg(0, 10)))
    v.Hint = r0
    order := newAllocationOrder(v, vrs, vrm, tgt)
    require.Equal(t, 2, order.Len())
    require.Equal(t, []target.PhysReg { r2, r3 }, walk(order))
}

func TestAllocationOrder_SplitPartner(t *testing.T) {
    tgt := target.Generic(4)
    vrs := NewVirtRegs()
    vrm := NewVirtRegMap()
    r0, _ := tgt.Lookup("r0")
    r1, _ := tgt.Lookup("r1")
    r2, _ := tgt.Lookup("r2")
    r3, _ := tgt.Lookup("r3")
    x := vrs.New(0, ival(seg(0, 30)))
    y := vrs.New(0, ival(seg(10, 20)))
    z := vrs.New(0, ival(seg(3, 8)))
    w := vrs.New(0, ival(seg(30, 40)))
    y.CopyOf, z.CopyOf, w.CopyOf = x.ID, x.ID, x.ID

    /* x is split, and one piece is split again */
    xa := vrs.Child(x, ival(seg(0, 10)))
    xb := vrs.Child(x, ival(seg(10, 30)))
    vrm.Replace(x)
    vrm.Assign(xa, r1)
    xc := vrs.Child(xb, ival(seg(10, 25)))
    xd := vrs.Child(xb, ival(seg(25, 30)))
    vrm.Replace(xb)
    vrm.Assign(xc, r2)
    vrm.Assign(xd, r3)

    /* the piece live where the copy happens wins */
    require.Equal(t, []target.PhysReg { r2, r0, r1, r3 }, walk(newAllocationOrder(y, vrs, vrm, tgt)))
    require.Equal(t, []target.PhysReg { r1, r0, r2, r3 }, walk(newAllocationOrder(z, vrs, vrm, tgt)))
    require.Equal(t, []target.PhysReg { r3, r0, r1, r2 }, walk(newAllocationOrder(w, vrs, vrm, tgt)))

    /* pieces on the stack are skipped, the one right before the copy is next */
    vrm.Unassign(xc)
    vrm.Spill(xc)
    require.Equal(t, []target.PhysReg { r1, r0, r2, r3 }, walk(newAllocationOrder(y, vrs, vrm, tgt)))
    vrm.Unassign(xa)
    require.Equal(t, []target.PhysReg { r0, r1, r2, r3 }, walk(newAllocationOrder(y, vrs, vrm, tgt)))
}
