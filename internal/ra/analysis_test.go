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
    `testing`

    `github.com/cloudwego/regalloc/internal/cfg`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
    `github.com/stretchr/testify/require`
)

func TestSplitAnalysis_BlockInfo(t *testing.T) {
    fn := newFunction(t, target.Generic(2),
        cfg.Block { Start:  0, End: 10, Succs: []int { 1 } },
        cfg.Block { Start: 10, End: 20, Succs: []int { 2 } },
        cfg.Block { Start: 20, End: 30, Succs: []int { 3 } },
        cfg.Block { Start: 30, End: 40 },
    )
    v := fn.VirtRegs.New(0, ival(seg(4, 26), seg(32, 35)), reads(4, 8, 25, 32, 34)...)
    sa := analyzeSplit(v, fn.CFG)
    require.Equal(t, 4, sa.numBlocks())
    b0, b1, b2, b3 := sa.blocks[0], sa.blocks[1], sa.blocks[2], sa.blocks[3]
    require.False(t, b0.LiveIn)
    require.True(t, b0.LiveOut)
    require.Equal(t, slot.Index(4), b0.Def)
    require.Equal(t, slot.Index(4), b0.FirstUse)
    require.Equal(t, slot.Index(8), b0.LastUse)
    require.True(t, b1.Transparent())
    require.True(t, b2.LiveIn)
    require.False(t, b2.LiveOut)
    require.Equal(t, slot.Index(26), b2.Kill)
    require.Equal(t, slot.Index(25), b2.LastUse)
    require.False(t, b3.LiveIn)
    require.False(t, b3.LiveOut)
    require.False(t, b3.LiveThrough)
    require.Equal(t, slot.Index(32), b3.Def)
    require.Equal(t, slot.Index(35), b3.Kill)
}

func TestSplitAnalysis_Hole(t *testing.T) {
    fn := newFunction(t, target.Generic(2),
        cfg.Block { Start:  0, End: 10, Succs: []int { 1 } },
        cfg.Block { Start: 10, End: 20 },
    )
    v := fn.VirtRegs.New(0, ival(seg(0, 12), seg(15, 20)))
    sa := analyzeSplit(v, fn.CFG)
    require.True(t, sa.blocks[1].LiveIn)
    require.True(t, sa.blocks[1].LiveOut)
    require.False(t, sa.blocks[1].LiveThrough)
    require.False(t, sa.blocks[1].Uses)
}
