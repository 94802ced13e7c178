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

package cfg

import (
    `fmt`
    `sort`

    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/oleiade/lane`
)

// Loop is a natural loop of the function.
type Loop struct {
    Header int
    Blocks []int
    Parent *Loop
    Depth  int
    Ranges slot.Interval
}

// Area is the number of program points covered by the loop.
func (self *Loop) Area() int {
    return self.Ranges.Span()
}

// Contains checks whether the block is part of the loop body.
func (self *Loop) Contains(b int) bool {
    i := sort.SearchInts(self.Blocks, b)
    return i < len(self.Blocks) && self.Blocks[i] == b
}

func (self *Loop) String() string {
    return fmt.Sprintf("loop(bb_%d, depth=%d, blocks=%v)", self.Header, self.Depth, self.Blocks)
}

func (self *Func) findLoops() {
    body := make(map[int]map[int]bool)

    /* find all the back edges, grouped by loop header */
    for u, bb := range self.blocks {
        for _, h := range bb.Succs {
            if self.Dominates(h, u) {
                if body[h] == nil {
                    body[h] = map[int]bool { h: true }
                }
                self.loopBody(body[h], u)
            }
        }
    }

    /* create the loops */
    for h, bbs := range body {
        lp := &Loop { Header: h, Blocks: make([]int, 0, len(bbs)) }
        for b := range bbs { lp.Blocks = append(lp.Blocks, b) }
        sort.Ints(lp.Blocks)
        self.loops = append(self.loops, lp)
    }

    /* keep the loops ordered by header */
    sort.Slice(self.loops, func(i int, j int) bool {
        return self.loops[i].Header < self.loops[j].Header
    })

    /* loop nesting, the parent is the smallest loop that contains the header */
    for _, lp := range self.loops {
        for _, p := range self.loops {
            if p != lp && p.Contains(lp.Header) && len(p.Blocks) > len(lp.Blocks) {
                if lp.Parent == nil || len(p.Blocks) < len(lp.Parent.Blocks) {
                    lp.Parent = p
                }
            }
        }
    }

    /* loop depth, ranges and innermost loop of every block */
    for _, lp := range self.loops {
        segs := make([]slot.Segment, 0, len(lp.Blocks))
        for p := lp; p != nil; p = p.Parent { lp.Depth++ }
        for _, b := range lp.Blocks { segs = append(segs, self.BlockRange(b)) }
        lp.Ranges = slot.Make(segs...)
    }

    /* the innermost loop has the fewest blocks */
    for _, lp := range self.loops {
        for _, b := range lp.Blocks {
            if p := self.loopOf[b]; p == nil || len(lp.Blocks) < len(p.Blocks) {
                self.loopOf[b] = lp
            }
        }
    }
}

func (self *Func) loopBody(body map[int]bool, tail int) {
    st := lane.NewStack()

    /* walk backwards from the latch until the header */
    for st.Push(tail); !st.Empty(); {
        if b := st.Pop().(int); !body[b] {
            body[b] = true
            for _, p := range self.preds[b] {
                if self.reach[p] { st.Push(p) }
            }
        }
    }
}

// Loops returns every natural loop, ordered by header.
func (self *Func) Loops() []*Loop {
    return self.loops
}

// LoopFor returns the innermost loop containing the block, or nil.
func (self *Func) LoopFor(b int) *Loop {
    return self.loopOf[b]
}

// LoopDepth is the number of loops containing the block.
func (self *Func) LoopDepth(b int) int {
    if lp := self.loopOf[b]; lp == nil {
        return 0
    } else {
        return lp.Depth
    }
}
