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
    `github.com/cloudwego/regalloc/internal/opts`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/stretchr/testify/require`
)

func newFunction(t *testing.T, tgt Target, blocks ...cfg.Block) *Function {
    cf, err := cfg.New(blocks)
    require.NoError(t, err)
    return &Function {
        Name     : t.Name(),
        Target   : tgt,
        CFG      : cf,
        VirtRegs : NewVirtRegs(),
    }
}

func testOptions() opts.Options {
    o := opts.GetDefaultOptions()
    o.Verify = true
    return o
}

func reads(pts ...int) []Use {
    ret := make([]Use, 0, len(pts))
    for _, p := range pts { ret = append(ret, Use { At: slot.Index(p) }) }
    return ret
}

func seg(start int, end int) slot.Segment {
    return slot.Segment { Start: slot.Index(start), End: slot.Index(end) }
}

func ival(segs ...slot.Segment) slot.Interval {
    return slot.Make(segs...)
}

/* pieceAt returns the final piece of the original register that covers p */
func pieceAt(t *testing.T, res *Result, origin int, p int) *VirtReg {
    for _, vr := range res.Pieces(origin) {
        if vr.Interval.Contains(slot.Index(p)) && !vr.Product {
            return vr
        }
    }
    require.FailNow(t, "no piece found", "origin %d at %d", origin, p)
    return nil
}
