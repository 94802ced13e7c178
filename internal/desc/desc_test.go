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

package desc

import (
    `bytes`
    `io`
    `strings`
    `testing`

    `github.com/cloudwego/regalloc/internal/opts`
    `github.com/cloudwego/regalloc/internal/ra`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
    `github.com/stretchr/testify/require`
)

const loopFunc = `
name: loop
blocks:
  - { start: 0,  end: 10, succs: [1] }
  - { start: 10, end: 20, succs: [1, 2] }
  - { start: 20, end: 30 }
vregs:
  - name: x
    class: gpr
    segments: [[0, 30]]
    uses: [{ at: 0, def: true }, { at: 15 }, { at: 25 }]
    hint: r1
  - name: y
    class: gpr
    segments: [[12, 14], [16, 18]]
    uses: [{ at: 12, def: true }, { at: 17 }]
    copy_of: x
    nosplit: true
  - class: gpr
    segments: [[5, 6]]
    fixed: r0
    weight: 3.5
`

func decodeAndBuild(r io.Reader, tgt *target.File) (*ra.Function, error) {
    if fd, err := Decode(r); err != nil {
        return nil, err
    } else {
        return fd.Build(tgt)
    }
}

func TestDesc_Build(t *testing.T) {
    tgt := target.Generic(2)
    fn, err := decodeAndBuild(strings.NewReader(loopFunc), tgt)
    require.NoError(t, err)
    require.Equal(t, "loop", fn.Name)
    require.Equal(t, 3, fn.CFG.NumBlocks())
    require.Equal(t, 10.0, fn.CFG.Frequency(1))
    require.Equal(t, 3, fn.VirtRegs.Len())

    /* named registers */
    x, y, z := fn.VirtRegs.Get(0), fn.VirtRegs.Get(1), fn.VirtRegs.Get(2)
    require.Equal(t, slot.Range(0, 30), x.Interval)
    require.Equal(t, []ra.Use { { At: 0, Def: true }, { At: 15 }, { At: 25 } }, x.Uses)
    require.Equal(t, "r1", tgt.Name(x.Hint))
    require.Equal(t, -1, x.CopyOf)
    require.Equal(t, ra.AutoWeight, x.Weight)
    require.Equal(t, 0, y.CopyOf)
    require.True(t, y.NoSplit)
    require.Equal(t, "r0", tgt.Name(z.Fixed))
    require.Equal(t, 3.5, z.Weight)
}

func TestDesc_Errors(t *testing.T) {
    tgt := target.Generic(2)
    tests := []struct {
        name string
        src  string
        err  string
    }{
        { "empty"        , ``, "no basic blocks" },
        { "malformed"    , `blocks: [`, "malformed function description" },
        { "unknown field", `blokcs: []`, "malformed function description" },
        { "bad cfg"      , `blocks: [{ start: 0, end: 10 }, { start: 5, end: 20 }]`, "invalid control flow" },
        { "bad class"    , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: fpr, segments: [[0, 1]] }]", "unknown register class" },
        { "empty ival"   , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[3, 3]] }]", "empty live interval" },
        { "bad segment"  , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[3]] }]", "not a [start, end] pair" },
        { "outside use"  , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[0, 4]], uses: [{ at: 4 }] }]", "outside of" },
        { "bad hint"     , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[0, 4]], hint: rax }]", "unknown hint register" },
        { "bad fixed"    , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[0, 4]], fixed: rax }]", "unknown fixed register" },
        { "bad copy"     , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[0, 4]], copy_of: w }]", "copy of unknown vreg" },
        { "self copy"    , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ name: a, class: gpr, segments: [[0, 4]], copy_of: a }]", "copy of itself" },
        { "dup name"     , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ name: a, class: gpr, segments: [[0, 4]] }, { name: a, class: gpr, segments: [[0, 4]] }]", "duplicated name" },
        { "bad weight"   , "blocks: [{ start: 0, end: 10 }]\nvregs: [{ class: gpr, segments: [[0, 4]], weight: -2 }]", "negative spill weight" },
    }
    for _, tc := range tests {
        t.Run(tc.name, func(t *testing.T) {
            _, err := decodeAndBuild(strings.NewReader(tc.src), tgt)
            require.Error(t, err)
            require.Contains(t, err.Error(), tc.err)
        })
    }
}

func TestDesc_Report(t *testing.T) {
    tgt := target.Generic(2)
    fn, err := decodeAndBuild(strings.NewReader(loopFunc), tgt)
    require.NoError(t, err)

    /* allocate and render */
    o := opts.GetDefaultOptions()
    o.Verify = true
    rep := NewReport(ra.NewAllocator(fn, o).Run(), tgt)
    require.Equal(t, "loop", rep.Name)
    require.Len(t, rep.VRegs, 3)
    require.Equal(t, "r0", rep.VRegs[2].Reg)

    /* text form */
    buf := new(bytes.Buffer)
    require.NoError(t, rep.EncodeText(buf))
    require.Contains(t, buf.String(), "function loop:")
    require.Contains(t, buf.String(), "{[5,6)}")

    /* YAML form */
    buf.Reset()
    require.NoError(t, rep.EncodeYAML(buf))
    require.Contains(t, buf.String(), "name: loop")
    require.Contains(t, buf.String(), "reg: r0")
}
