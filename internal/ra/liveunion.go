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
    `sort`

    `github.com/cloudwego/regalloc/internal/cfg`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
)

type _Segment struct {
    slot.Segment
    vr *VirtReg
}

type _QueryKey struct {
    vr int
    r  target.PhysReg
}

type _QueryResult struct {
    gen uint64
    ok  bool
}

// LiveUnion is the interference index. For every physical register it keeps the sorted
// segments of the virtual registers assigned exactly to it, the queries walk the aliases.
type LiveUnion struct {
    tgt   Target
    gen   uint64
    segs  [][]_Segment
    cache map[_QueryKey]_QueryResult
}

func NewLiveUnion(tgt Target) *LiveUnion {
    return &LiveUnion {
        tgt   : tgt,
        segs  : make([][]_Segment, tgt.NumRegs() + 1),
        cache : make(map[_QueryKey]_QueryResult),
    }
}

func (self *LiveUnion) check(r target.PhysReg) {
    if r <= target.NoReg || int(r) > self.tgt.NumRegs() {
        panic(fmt.Sprintf("regalloc: interference query against invalid physical register %d", r))
    }
}

// Gen is bumped every time the index changes.
func (self *LiveUnion) Gen() uint64 {
    return self.gen
}

// Reset drops the cached query results.
func (self *LiveUnion) Reset() {
    for k := range self.cache {
        delete(self.cache, k)
    }
}

// Assign adds the segments of vr to register r.
func (self *LiveUnion) Assign(vr *VirtReg, r target.PhysReg) {
    self.check(r)
    self.gen++

    /* insert every segment in order */
    for _, s := range vr.Interval {
        ss := self.segs[r]
        i := sort.Search(len(ss), func(i int) bool { return ss[i].Start >= s.Start })
        ss = append(ss, _Segment{})
        copy(ss[i + 1:], ss[i:])
        ss[i] = _Segment { s, vr }
        self.segs[r] = ss
    }
}

// Unassign removes the segments of vr from register r.
func (self *LiveUnion) Unassign(vr *VirtReg, r target.PhysReg) {
    self.check(r)
    self.gen++

    /* filter in place */
    ss := self.segs[r][:0]
    for _, s := range self.segs[r] {
        if s.vr.ID != vr.ID {
            ss = append(ss, s)
        }
    }

    /* clear the tail to release the pointers */
    for i := len(ss); i < len(self.segs[r]); i++ {
        self.segs[r][i] = _Segment{}
    }

    /* update the segments */
    self.segs[r] = ss
}

// Assigned returns the virtual registers assigned exactly to r.
func (self *LiveUnion) Assigned(r target.PhysReg) []*VirtReg {
    var ret []*VirtReg
    self.check(r)

    /* deduplicate by ID */
    seen := make(map[int]bool)
    for _, s := range self.segs[r] {
        if !seen[s.vr.ID] {
            seen[s.vr.ID] = true
            ret = append(ret, s.vr)
        }
    }
    return ret
}

/* scan calls fn for every segment on r and its aliases overlapping iv, until fn returns false */
func (self *LiveUnion) scan(iv slot.Interval, r target.PhysReg, fn func(s _Segment) bool) {
    self.check(r)

    /* check every alias */
    for _, a := range self.tgt.Aliases(r) {
        ss := self.segs[a]

        /* check every segment of the interval */
        for _, q := range iv {
            i := sort.Search(len(ss), func(i int) bool { return ss[i].End > q.Start })
            for ; i < len(ss) && ss[i].Start < q.End; i++ {
                if !fn(ss[i]) {
                    return
                }
            }
        }
    }
}

func (self *LiveUnion) overlaps(vr *VirtReg, iv slot.Interval, r target.PhysReg) (ret bool) {
    self.scan(iv, r, func(s _Segment) bool {
        ret = s.vr.ID != vr.ID
        return !ret
    })
    return
}

// Query checks whether vr interferes with anything assigned to r or its aliases.
// The result is cached until the index changes.
func (self *LiveUnion) Query(vr *VirtReg, r target.PhysReg) bool {
    key := _QueryKey { vr.ID, r }
    ret, ok := self.cache[key]

    /* check the cache */
    if ok && ret.gen == self.gen {
        return ret.ok
    }

    /* compute and remember the result */
    ret = _QueryResult { self.gen, self.QueryUncached(vr, r) }
    self.cache[key] = ret
    return ret.ok
}

// QueryUncached is Query without the cache.
func (self *LiveUnion) QueryUncached(vr *VirtReg, r target.PhysReg) bool {
    return self.overlaps(vr, vr.Interval, r)
}

// LoopQuery checks for interference only inside the loop.
func (self *LiveUnion) LoopQuery(vr *VirtReg, r target.PhysReg, lp *cfg.Loop) bool {
    if iv := vr.Interval.Intersect(lp.Ranges); iv.Empty() {
        self.check(r)
        return false
    } else {
        return self.overlaps(vr, iv, r)
    }
}

// Collect enumerates the virtual registers interfering with vr on r and its aliases.
// At most limit registers are collected (no limit if limit <= 0), the second result is
// false if the enumeration was cut short.
func (self *LiveUnion) Collect(vr *VirtReg, r target.PhysReg, limit int) ([]*VirtReg, bool) {
    var ret []*VirtReg
    seen := make(map[int]bool)
    complete := true

    /* enumerate the interferences */
    self.scan(vr.Interval, r, func(s _Segment) bool {
        if s.vr.ID == vr.ID || seen[s.vr.ID] {
            return true
        }

        /* check for limits */
        if limit > 0 && len(ret) >= limit {
            complete = false
            return false
        }

        /* add to results */
        seen[s.vr.ID] = true
        ret = append(ret, s.vr)
        return true
    })

    /* sort by ID to keep the result stable */
    sort.Slice(ret, func(i int, j int) bool { return ret[i].ID < ret[j].ID })
    return ret, complete
}

// Interference returns the points within seg occupied by r or its aliases, excluding vr.
func (self *LiveUnion) Interference(vr *VirtReg, r target.PhysReg, seg slot.Segment) slot.Interval {
    var buf []slot.Segment
    self.scan(slot.Interval { seg }, r, func(s _Segment) bool {
        if s.vr.ID != vr.ID {
            buf = append(buf, s.Segment)
        }
        return true
    })
    return slot.Make(buf...).Clip(seg)
}
