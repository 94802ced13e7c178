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
    `github.com/davecgh/go-spew/spew`
)

var dumper = spew.ConfigState {
    Indent                  : "    ",
    SortKeys                : true,
    DisableMethods          : true,
    DisablePointerAddresses : true,
}

// VerifyError is raised (as a panic) when the verifier finds a broken allocation.
type VerifyError struct {
    Func   string
    Reason string
    State  string
}

func (self *VerifyError) Error() string {
    return fmt.Sprintf("regalloc: verification failed for %s: %s", self.Func, self.Reason)
}

func (self *Allocator) fail(reason string, state ...interface{}) {
    panic(&VerifyError {
        Func   : self.name(),
        Reason : reason,
        State  : dumper.Sdump(state...),
    })
}

// verifySplit checks that the children cover the parent exactly.
func (self *Allocator) verifySplit(vr *VirtReg, children []*VirtReg) {
    var all slot.Interval
    var span int

    /* union of all children */
    for _, vc := range children {
        all = all.Union(vc.Interval)
        span += vc.Span()
    }

    /* no gaps and no duplications */
    if !all.Equal(vr.Interval) {
        self.fail(fmt.Sprintf("split children of %s cover %s", vr, all), vr, children)
    } else if span != vr.Span() {
        self.fail(fmt.Sprintf("split children of %s overlap", vr), vr, children)
    }

    /* uses are partitioned */
    nu := 0
    for _, vc := range children {
        nu += len(vc.Uses)
    }

    /* every use must go somewhere */
    if nu != len(vr.Uses) {
        self.fail(fmt.Sprintf("split children of %s have %d uses instead of %d", vr, nu, len(vr.Uses)), vr, children)
    }
}

// verify checks the final state: everything resolved, nothing overlaps.
func (self *Allocator) verify() {
    for _, vr := range self.vrs.All() {
        switch loc := self.vrm.Get(vr.ID); loc.Kind {
            case Unassigned: {
                self.fail(fmt.Sprintf("%s is not resolved", vr), vr)
            }
            case InReg: {
                if self.lu.QueryUncached(vr, loc.Reg) {
                    ints, _ := self.lu.Collect(vr, loc.Reg, 0)
                    self.fail(fmt.Sprintf("%s interferes on %s", vr, self.tgt.Name(loc.Reg)), vr, ints)
                }
                if !vr.IsFixed() && (self.tgt.Reserved(loc.Reg) || !self.tgt.InClass(vr.Class, loc.Reg)) {
                    self.fail(fmt.Sprintf("%s is assigned to unallocatable register %s", vr, self.tgt.Name(loc.Reg)), vr)
                }
            }
        }
    }
}
