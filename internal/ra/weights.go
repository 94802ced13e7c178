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
    `github.com/cloudwego/regalloc/internal/target`
)

// useFrequency is the estimated number of memory accesses if vr lives on the stack.
func useFrequency(vr *VirtReg, cf ControlFlow) float64 {
    ret := 0.0
    for _, u := range vr.Uses {
        if b := cf.BlockAt(u.At); b >= 0 {
            ret += cf.Frequency(b)
        }
    }
    return ret
}

func initWeight(vr *VirtReg, cf ControlFlow) {
    if vr.IsFixed() {
        vr.Weight = Unspillable
    } else if vr.Weight < 0 {
        vr.Weight = useFrequency(vr, cf)
    }
}

/* Split children share the weight of the parent by their use frequency,
 * or by their span when the parent has no uses at all. */
func childWeight(parent *VirtReg, child *VirtReg, cf ControlFlow) float64 {
    if parent.Unspillable() {
        return Unspillable
    } else if pf := useFrequency(parent, cf); pf > 0 {
        return parent.Weight * useFrequency(child, cf) / pf
    } else {
        return parent.Weight * float64(child.Span()) / float64(parent.Span())
    }
}

// priority decides the order of the worklist, hinted registers go first.
func priority(vr *VirtReg) float64 {
    p := vr.Weight
    if vr.Hint != target.NoReg || vr.CopyOf >= 0 { p *= 2 }
    if vr.Hint != target.NoReg { p *= 2 }
    return p
}
