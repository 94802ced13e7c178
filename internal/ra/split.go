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
    `github.com/cloudwego/regalloc/internal/target`
)

// split replaces vr with one child per interval. The intervals must be disjoint, cover vr
// exactly and be strictly smaller than vr.
func (self *Allocator) split(vr *VirtReg, parts []slot.Interval, hints []target.PhysReg) []*VirtReg {
    span := vr.Span()
    ret := make([]*VirtReg, 0, len(parts))

    /* create the children */
    for i, iv := range parts {
        if iv.Empty() || iv.Span() >= span {
            panic(fmt.Sprintf("regalloc: split of %s into %s does not make progress", vr, iv))
        }

        /* inherit everything from parent */
        vc := self.vrs.Child(vr, iv)
        vc.Weight = childWeight(vr, vc, self.cf)

        /* set the hint if any */
        if hints[i] != target.NoReg {
            vc.Hint = hints[i]
        }

        /* add to result */
        ret = append(ret, vc)
    }

    /* check the coverage if needed */
    if self.opts.Verify {
        self.verifySplit(vr, ret)
    }

    /* the parent is gone now */
    self.vrm.Replace(vr)
    return ret
}
