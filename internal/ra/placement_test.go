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
    `github.com/stretchr/testify/require`
)

func chain(t *testing.T, freqs ...float64) *cfg.Func {
    var bbs []cfg.Block
    for i, f := range freqs {
        bb := cfg.Block { Start: slot.Index(i * 10), End: slot.Index(i * 10 + 10), Freq: f }
        if i != len(freqs) - 1 {
            bb.Succs = []int { i + 1 }
        }
        bbs = append(bbs, bb)
    }
    cf, err := cfg.New(bbs)
    require.NoError(t, err)
    return cf
}

func TestSpillPlacer_Transparent(t *testing.T) {
    cf := chain(t, 1, 1, 1)
    live, perfect := NewSpillPlacer(cf, 10).Place([]BlockConstraint {
        { Block: 0, Exit: PrefReg },
        { Block: 1, Transparent: true },
        { Block: 2, Entry: PrefReg },
    })
    require.True(t, perfect)
    require.True(t, live[cf.Bundle(0, true)])
    require.True(t, live[cf.Bundle(2, false)])
    require.False(t, live[cf.Bundle(0, false)])
}

func TestSpillPlacer_MustSpill(t *testing.T) {
    cf := chain(t, 1, 1, 5)
    live, perfect := NewSpillPlacer(cf, 10).Place([]BlockConstraint {
        { Block: 0, Exit: PrefReg },
        { Block: 1, Entry: MustSpill, Exit: PrefSpill, Transparent: true },
        { Block: 2, Entry: PrefReg },
    })
    require.False(t, perfect)
    require.False(t, live[cf.Bundle(0, true)])
    require.True(t, live[cf.Bundle(2, false)])
}

func TestSpillPlacer_Frequency(t *testing.T) {
    cf := chain(t, 10, 1, 10)
    live, perfect := NewSpillPlacer(cf, 10).Place([]BlockConstraint {
        { Block: 0, Entry: DontCare, Exit: PrefReg },
        { Block: 1, Entry: PrefSpill, Exit: PrefSpill, Transparent: true },
        { Block: 2, Entry: PrefReg },
    })
    require.False(t, perfect)
    require.True(t, live[cf.Bundle(0, true)])
    require.True(t, live[cf.Bundle(1, true)])
}
