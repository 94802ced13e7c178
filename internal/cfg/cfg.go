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
    `math`
    `sort`

    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/oleiade/lane`
)

// Block describes a basic block of the function being allocated. Blocks are laid out in
// ascending program point order, block 0 is the entry block.
type Block struct {
    Start slot.Index
    End   slot.Index
    Freq  float64
    Succs []int
}

// Func is the control-flow service of a function: block layout, frequencies,
// dominators, natural loops and edge bundles.
type Func struct {
    blocks  []Block
    preds   [][]int
    freq    []float64
    idom    []int
    reach   []bool
    loops   []*Loop
    loopOf  []*Loop
    bundles []int
    nbundle int
}

// New validates the blocks and runs every analysis.
func New(blocks []Block) (*Func, error) {
    if len(blocks) == 0 {
        return nil, fmt.Errorf("cfg: function has no blocks")
    }

    /* check block ranges and successors */
    for i, bb := range blocks {
        if bb.End <= bb.Start {
            return nil, fmt.Errorf("cfg: block %d has an empty range [%d,%d)", i, bb.Start, bb.End)
        } else if i > 0 && bb.Start < blocks[i - 1].End {
            return nil, fmt.Errorf("cfg: block %d overlaps with or precedes block %d", i, i - 1)
        }
        for _, s := range bb.Succs {
            if s < 0 || s >= len(blocks) {
                return nil, fmt.Errorf("cfg: block %d has an invalid successor %d", i, s)
            }
        }
    }

    /* build the function */
    fn := &Func {
        blocks : blocks,
        preds  : make([][]int, len(blocks)),
        freq   : make([]float64, len(blocks)),
        loopOf : make([]*Loop, len(blocks)),
    }

    /* predecessor lists */
    for i, bb := range blocks {
        for _, s := range bb.Succs {
            fn.preds[s] = append(fn.preds[s], i)
        }
    }

    /* run all the analysis */
    fn.reachability()
    fn.dominators()
    fn.findLoops()
    fn.frequencies()
    fn.edgeBundles()
    return fn, nil
}

func (self *Func) reachability() {
    st := lane.NewStack()
    self.reach = make([]bool, len(self.blocks))

    /* DFS from the entry block */
    for st.Push(0); !st.Empty(); {
        if b := st.Pop().(int); !self.reach[b] {
            self.reach[b] = true
            for _, s := range self.blocks[b].Succs { st.Push(s) }
        }
    }
}

func (self *Func) frequencies() {
    for i, bb := range self.blocks {
        if bb.Freq > 0 {
            self.freq[i] = bb.Freq
        } else if lp := self.loopOf[i]; lp == nil {
            self.freq[i] = 1
        } else {
            self.freq[i] = math.Pow(10, float64(lp.Depth))
        }
    }
}

func (self *Func) NumBlocks() int {
    return len(self.blocks)
}

func (self *Func) Succs(b int) []int {
    return self.blocks[b].Succs
}

func (self *Func) Preds(b int) []int {
    return self.preds[b]
}

func (self *Func) Reachable(b int) bool {
    return self.reach[b]
}

// BlockRange returns the program point range of the block.
func (self *Func) BlockRange(b int) slot.Segment {
    return slot.Segment { Start: self.blocks[b].Start, End: self.blocks[b].End }
}

// BlockAt returns the block containing p, or -1 if p is between blocks.
func (self *Func) BlockAt(p slot.Index) int {
    i := sort.Search(len(self.blocks), func(i int) bool { return self.blocks[i].End > p })
    if i < len(self.blocks) && self.blocks[i].Start <= p {
        return i
    } else {
        return -1
    }
}

// Frequency is the relative execution frequency of the block.
func (self *Func) Frequency(b int) float64 {
    return self.freq[b]
}

// Span is the program point range of the whole function.
func (self *Func) Span() slot.Segment {
    return slot.Segment { Start: self.blocks[0].Start, End: self.blocks[len(self.blocks) - 1].End }
}
