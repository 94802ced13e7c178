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

package slot

import (
    `fmt`
    `sort`
    `strings`
)

// Index is a program point. Points are strictly ascending along the block layout.
type Index int

// Segment is the half-open range [Start, End).
type Segment struct {
    Start Index
    End   Index
}

func (self Segment) Empty() bool {
    return self.End <= self.Start
}

func (self Segment) Len() int {
    if self.Empty() {
        return 0
    } else {
        return int(self.End - self.Start)
    }
}

func (self Segment) Contains(p Index) bool {
    return self.Start <= p && p < self.End
}

func (self Segment) Overlaps(other Segment) bool {
    return self.Start < other.End && other.Start < self.End
}

func (self Segment) String() string {
    return fmt.Sprintf("[%d,%d)", self.Start, self.End)
}

// Interval is an ordered list of disjoint, non-adjacent segments.
// Use Make to build one from arbitrary segments.
type Interval []Segment

// Make normalizes the segments: drops empty ones, sorts and coalesces.
func Make(segs ...Segment) Interval {
    buf := make([]Segment, 0, len(segs))

    /* drop the empty segments */
    for _, s := range segs {
        if !s.Empty() {
            buf = append(buf, s)
        }
    }

    /* nothing left */
    if len(buf) == 0 {
        return nil
    }

    /* sort by start point */
    sort.Slice(buf, func(i int, j int) bool {
        return buf[i].Start < buf[j].Start
    })

    /* merge overlapping or touching segments */
    ret := Interval { buf[0] }
    for _, s := range buf[1:] {
        if p := &ret[len(ret) - 1]; s.Start <= p.End {
            if s.End > p.End { p.End = s.End }
        } else {
            ret = append(ret, s)
        }
    }
    return ret
}

// Range is a shorthand for a single-segment interval.
func Range(start Index, end Index) Interval {
    return Make(Segment { start, end })
}

func (self Interval) Empty() bool {
    return len(self) == 0
}

func (self Interval) Begin() Index {
    if len(self) == 0 {
        panic("slot: begin of empty interval")
    } else {
        return self[0].Start
    }
}

func (self Interval) End() Index {
    if len(self) == 0 {
        panic("slot: end of empty interval")
    } else {
        return self[len(self) - 1].End
    }
}

// Span is the number of program points covered.
func (self Interval) Span() int {
    ret := 0
    for _, s := range self { ret += s.Len() }
    return ret
}

// Find returns the index of the segment containing p, or -1.
func (self Interval) Find(p Index) int {
    i := sort.Search(len(self), func(i int) bool { return self[i].End > p })
    if i < len(self) && self[i].Start <= p {
        return i
    } else {
        return -1
    }
}

func (self Interval) Contains(p Index) bool {
    return self.Find(p) >= 0
}

// ContainsSegment checks whether s is fully covered by one segment.
func (self Interval) ContainsSegment(s Segment) bool {
    if s.Empty() {
        return true
    } else if i := self.Find(s.Start); i < 0 {
        return false
    } else {
        return s.End <= self[i].End
    }
}

// Overlaps reports whether the two intervals share at least one point.
func (self Interval) Overlaps(other Interval) bool {
    i, j := 0, 0
    for i < len(self) && j < len(other) {
        if self[i].Overlaps(other[j]) {
            return true
        } else if self[i].End <= other[j].Start {
            i++
        } else {
            j++
        }
    }
    return false
}

// OverlapsSegment reports whether any point of s is covered.
func (self Interval) OverlapsSegment(s Segment) bool {
    if s.Empty() {
        return false
    }
    i := sort.Search(len(self), func(i int) bool { return self[i].End > s.Start })
    return i < len(self) && self[i].Start < s.End
}

// Intersect returns the points covered by both intervals.
func (self Interval) Intersect(other Interval) Interval {
    var ret Interval
    i, j := 0, 0

    /* two-finger walk */
    for i < len(self) && j < len(other) {
        a, b := self[i], other[j]
        s := Segment { maxIndex(a.Start, b.Start), minIndex(a.End, b.End) }

        /* keep the common part */
        if !s.Empty() {
            ret = append(ret, s)
        }

        /* advance the one that ends first */
        if a.End <= b.End {
            i++
        } else {
            j++
        }
    }
    return ret
}

// Clip restricts the interval to a single segment.
func (self Interval) Clip(s Segment) Interval {
    return self.Intersect(Interval { s })
}

// Subtract returns the points covered by self but not by other.
func (self Interval) Subtract(other Interval) Interval {
    var ret Interval
    j := 0

    /* carve every segment */
    for _, s := range self {
        cur := s
        for j < len(other) && other[j].End <= cur.Start {
            j++
        }

        /* cut out everything that overlaps */
        for k := j; k < len(other) && other[k].Start < cur.End; k++ {
            if other[k].Start > cur.Start {
                ret = append(ret, Segment { cur.Start, other[k].Start })
            }
            if cur.Start = other[k].End; cur.Empty() {
                break
            }
        }

        /* remaining tail */
        if !cur.Empty() {
            ret = append(ret, cur)
        }
    }
    return ret
}

// Union returns the points covered by either interval.
func (self Interval) Union(other Interval) Interval {
    buf := make([]Segment, 0, len(self) + len(other))
    buf = append(buf, self...)
    buf = append(buf, other...)
    return Make(buf...)
}

func (self Interval) Equal(other Interval) bool {
    if len(self) != len(other) {
        return false
    }
    for i := range self {
        if self[i] != other[i] {
            return false
        }
    }
    return true
}

func (self Interval) String() string {
    buf := make([]string, 0, len(self))
    for _, s := range self { buf = append(buf, s.String()) }
    return "{" + strings.Join(buf, " ") + "}"
}

func minIndex(a Index, b Index) Index {
    if a < b {
        return a
    } else {
        return b
    }
}

func maxIndex(a Index, b Index) Index {
    if a > b {
        return a
    } else {
        return b
    }
}
