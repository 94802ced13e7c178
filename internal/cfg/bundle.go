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
    `sort`

    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/topo`
)

/* Edge bundles group the block boundaries that must agree on the location of a value.
 * Every block has an entry node (2*b) and an exit node (2*b+1), each CFG edge b -> s
 * connects exit(b) with entry(s), a bundle is a connected component of these nodes. */

func (self *Func) edgeBundles() {
    g := simple.NewUndirectedGraph()
    self.bundles = make([]int, len(self.blocks) * 2)

    /* every block boundary is a node */
    for i := range self.bundles {
        g.AddNode(simple.Node(i))
    }

    /* connect the boundaries along the edges */
    for i, bb := range self.blocks {
        for _, s := range bb.Succs {
            g.SetEdge(simple.Edge { F: simple.Node(i * 2 + 1), T: simple.Node(s * 2) })
        }
    }

    /* find all the components */
    cc := topo.ConnectedComponents(g)
    mm := make([]int64, len(cc))

    /* number them in the order of their lowest node */
    for i, c := range cc {
        mm[i] = minNodeID(c)
    }
    sort.Sort(&_ComponentSorter { cc, mm })

    /* assign bundle numbers */
    for i, c := range cc {
        for _, n := range c {
            self.bundles[n.ID()] = i
        }
    }

    /* update the bundle count */
    self.nbundle = len(cc)
}

// Bundle returns the edge bundle of the entry (exit == false) or the exit
// (exit == true) boundary of the block.
func (self *Func) Bundle(b int, exit bool) int {
    if exit {
        return self.bundles[b * 2 + 1]
    } else {
        return self.bundles[b * 2]
    }
}

func (self *Func) NumBundles() int {
    return self.nbundle
}

type _ComponentSorter struct {
    cc [][]graph.Node
    mm []int64
}

func (self *_ComponentSorter) Len() int {
    return len(self.cc)
}

func (self *_ComponentSorter) Less(i int, j int) bool {
    return self.mm[i] < self.mm[j]
}

func (self *_ComponentSorter) Swap(i int, j int) {
    self.cc[i], self.cc[j] = self.cc[j], self.cc[i]
    self.mm[i], self.mm[j] = self.mm[j], self.mm[i]
}

func minNodeID(nodes []graph.Node) int64 {
    ret := nodes[0].ID()
    for _, n := range nodes[1:] {
        if n.ID() < ret { ret = n.ID() }
    }
    return ret
}
