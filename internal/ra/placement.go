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

    `github.com/oleiade/lane`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
)

// Border is the preference of a block boundary.
type Border uint8

const (
    DontCare Border = iota
    PrefReg
    PrefSpill
    MustSpill
)

func (self Border) String() string {
    switch self {
        case DontCare  : return "dontcare"
        case PrefReg   : return "prefreg"
        case PrefSpill : return "prefspill"
        case MustSpill : return "mustspill"
        default        : return fmt.Sprintf("Border(%d)", self)
    }
}

// BlockConstraint is the entry and exit preference of one live block.
type BlockConstraint struct {
    Block       int
    Entry       Border
    Exit        Border
    Transparent bool
}

type _Node struct {
    bias   float64
    value  int
    frozen bool
}

func (self *_Node) addBias(freq float64, b Border) {
    switch b {
        case PrefReg   : self.bias += freq
        case PrefSpill : self.bias -= freq
        case MustSpill : self.frozen, self.value = true, -1
    }
}

/* SpillPlacer decides for every edge bundle whether the value should be in a register
 * (live) or on the stack when crossing it. It is a Hopfield network: every bundle is a
 * node with a bias from the block constraints, transparent blocks link the bundles on
 * both sides, and every node keeps following the weighted sum of its neighbours. */
type SpillPlacer struct {
    cf     ControlFlow
    rounds int
    nodes  []_Node
    active []bool
    graph  *simple.WeightedUndirectedGraph
}

func NewSpillPlacer(cf ControlFlow, rounds int) *SpillPlacer {
    return &SpillPlacer {
        cf     : cf,
        rounds : rounds,
    }
}

func (self *SpillPlacer) reset() {
    self.nodes = make([]_Node, self.cf.NumBundles())
    self.active = make([]bool, self.cf.NumBundles())
    self.graph = simple.NewWeightedUndirectedGraph(0, 0)
}

func (self *SpillPlacer) activate(id int) {
    if !self.active[id] {
        self.active[id] = true
        self.graph.AddNode(simple.Node(id))
    }
}

func (self *SpillPlacer) link(a int, b int, w float64) {
    if a != b {
        old, _ := self.graph.Weight(int64(a), int64(b))
        self.graph.SetWeightedEdge(self.graph.NewWeightedEdge(simple.Node(a), simple.Node(b), old + w))
    }
}

func (self *SpillPlacer) neighbours(id int) []int {
    nb := graph.NodesOf(self.graph.From(int64(id)))
    ret := make([]int, 0, len(nb))

    /* sort by ID to keep the iteration stable */
    for _, n := range nb { ret = append(ret, int(n.ID())) }
    sort.Ints(ret)
    return ret
}

func (self *SpillPlacer) update(id int) bool {
    p := &self.nodes[id]
    sum := p.bias

    /* frozen nodes never change */
    if p.frozen {
        return false
    }

    /* weighted sum of the neighbours */
    for _, nb := range self.neighbours(id) {
        w, _ := self.graph.Weight(int64(id), int64(nb))
        sum += w * float64(self.nodes[nb].value)
    }

    /* threshold function */
    v := 0
    if sum > 0 { v = 1 }
    if sum < 0 { v = -1 }

    /* check for changes */
    if v == p.value {
        return false
    } else {
        p.value = v
        return true
    }
}

// Place solves the placement problem. It returns the live bundles, and whether every
// register / spill preference is satisfied by the solution.
func (self *SpillPlacer) Place(cons []BlockConstraint) ([]bool, bool) {
    self.reset()
    queued := make([]bool, len(self.nodes))

    /* add biases from the constraints */
    for _, bc := range cons {
        freq := self.cf.Frequency(bc.Block)
        ib := self.cf.Bundle(bc.Block, false)
        ob := self.cf.Bundle(bc.Block, true)

        /* entry boundary */
        if bc.Entry != DontCare {
            self.activate(ib)
            self.nodes[ib].addBias(freq, bc.Entry)
        }

        /* exit boundary */
        if bc.Exit != DontCare {
            self.activate(ob)
            self.nodes[ob].addBias(freq, bc.Exit)
        }
    }

    /* transparent blocks link the bundles on both sides */
    for _, bc := range cons {
        if bc.Transparent && bc.Entry != MustSpill && bc.Exit != MustSpill {
            ib := self.cf.Bundle(bc.Block, false)
            ob := self.cf.Bundle(bc.Block, true)
            self.activate(ib)
            self.activate(ob)
            self.link(ib, ob, self.cf.Frequency(bc.Block))
        }
    }

    /* queue every active node */
    q := lane.NewQueue()
    for id, ok := range self.active {
        if ok && !self.nodes[id].frozen {
            q.Enqueue(id)
            queued[id] = true
        }
    }

    /* iterate until stable or out of budget */
    for n := self.rounds * len(self.nodes); n > 0 && !q.Empty(); n-- {
        id := q.Dequeue().(int)
        queued[id] = false

        /* wake up the neighbours on changes */
        if self.update(id) {
            for _, nb := range self.neighbours(id) {
                if !queued[nb] && !self.nodes[nb].frozen {
                    q.Enqueue(nb)
                    queued[nb] = true
                }
            }
        }
    }

    /* extract the live bundles */
    live := make([]bool, len(self.nodes))
    for id := range self.nodes {
        live[id] = self.nodes[id].value > 0
    }

    /* check the preferences */
    for _, bc := range cons {
        if broken(bc.Entry, live[self.cf.Bundle(bc.Block, false)]) || broken(bc.Exit, live[self.cf.Bundle(bc.Block, true)]) {
            return live, false
        }
    }
    return live, true
}

func broken(b Border, live bool) bool {
    return b != DontCare && live != (b == PrefReg)
}
