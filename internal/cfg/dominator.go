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
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

func (self *Func) dominators() {
    g := simple.NewDirectedGraph()
    self.idom = make([]int, len(self.blocks))

    /* add every reachable block */
    for i := range self.blocks {
        if self.idom[i] = -1; self.reach[i] {
            g.AddNode(simple.Node(i))
        }
    }

    /* add the edges, self loops does not affect dominance */
    for i, bb := range self.blocks {
        for _, s := range bb.Succs {
            if s != i && self.reach[i] {
                g.SetEdge(simple.Edge { F: simple.Node(i), T: simple.Node(s) })
            }
        }
    }

    /* compute the dominator tree */
    dt := flow.Dominators(simple.Node(0), g)
    for i := range self.blocks {
        if n := dt.DominatorOf(int64(i)); n != nil {
            self.idom[i] = int(n.ID())
        }
    }
}

// IDom returns the immediate dominator of the block, or -1 for the entry and
// unreachable blocks.
func (self *Func) IDom(b int) int {
    return self.idom[b]
}

// Dominates checks whether every path from the entry to b goes through a.
// A block dominates itself, unreachable blocks are dominated by nothing.
func (self *Func) Dominates(a int, b int) bool {
    if !self.reach[a] || !self.reach[b] {
        return false
    }
    for b != -1 && b != a {
        b = self.idom[b]
    }
    return b == a
}
