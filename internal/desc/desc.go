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
    `errors`
    `fmt`
    `io`

    `github.com/cloudwego/regalloc/internal/cfg`
    `github.com/cloudwego/regalloc/internal/ra`
    `github.com/cloudwego/regalloc/internal/slot`
    `github.com/cloudwego/regalloc/internal/target`
    `gopkg.in/yaml.v3`
)

var (
    ErrNoBlocks      = errors.New("no basic blocks")
    ErrEmptyInterval = errors.New("empty live interval")
)

// Func is the YAML description of a function ready for register allocation.
//
//  name: loop
//  blocks:
//    - { start: 0,  end: 10, succs: [1] }
//    - { start: 10, end: 20, succs: [1, 2] }
//    - { start: 20, end: 30 }
//  vregs:
//    - name: x
//      class: gpr
//      segments: [[0, 30]]
//      uses: [{ at: 0, def: true }, { at: 15 }, { at: 25 }]
//      hint: r0
type Func struct {
    Name   string  `yaml:"name"`
    Blocks []Block `yaml:"blocks"`
    VRegs  []VReg  `yaml:"vregs"`
}

type Block struct {
    Start int     `yaml:"start"`
    End   int     `yaml:"end"`
    Freq  float64 `yaml:"freq,omitempty"`
    Succs []int   `yaml:"succs,omitempty"`
}

type Use struct {
    At  int  `yaml:"at"`
    Def bool `yaml:"def,omitempty"`
}

// VReg describes one virtual register. CopyOf names another virtual register of the
// same function, Hint and Fixed name physical registers.
type VReg struct {
    Name     string   `yaml:"name,omitempty"`
    Class    string   `yaml:"class"`
    Segments [][]int  `yaml:"segments"`
    Uses     []Use    `yaml:"uses,omitempty"`
    Weight   *float64 `yaml:"weight,omitempty"`
    Hint     string   `yaml:"hint,omitempty"`
    CopyOf   string   `yaml:"copy_of,omitempty"`
    Fixed    string   `yaml:"fixed,omitempty"`
    NoSplit  bool     `yaml:"nosplit,omitempty"`
}

// Decode parses a function description.
func Decode(r io.Reader) (*Func, error) {
    var fn Func
    dec := yaml.NewDecoder(r)
    dec.KnownFields(true)

    /* an empty document is not a function */
    if err := dec.Decode(&fn); err == io.EOF {
        return nil, ErrNoBlocks
    } else if err != nil {
        return nil, fmt.Errorf("malformed function description: %w", err)
    } else {
        return &fn, nil
    }
}

// Build resolves the names against the register file and creates the function.
func (self *Func) Build(tgt *target.File) (*ra.Function, error) {
    if len(self.Blocks) == 0 {
        return nil, ErrNoBlocks
    }

    /* control flow */
    bbs := make([]cfg.Block, 0, len(self.Blocks))
    for _, b := range self.Blocks {
        bbs = append(bbs, cfg.Block {
            Start : slot.Index(b.Start),
            End   : slot.Index(b.End),
            Freq  : b.Freq,
            Succs : b.Succs,
        })
    }

    /* build the CFG */
    cf, err := cfg.New(bbs)
    if err != nil {
        return nil, fmt.Errorf("invalid control flow of %q: %w", self.Name, err)
    }

    /* name table for copy hints */
    vrs := ra.NewVirtRegs()
    ids := make(map[string]int, len(self.VRegs))

    /* create every virtual register */
    for i := range self.VRegs {
        vd := &self.VRegs[i]
        vr, err := vd.build(vrs, tgt)

        /* attach the name if any */
        if err != nil {
            return nil, fmt.Errorf("vreg #%d (%s): %w", i, vd.Name, err)
        } else if vd.Name == "" {
            continue
        } else if _, ok := ids[vd.Name]; ok {
            return nil, fmt.Errorf("vreg #%d: duplicated name %q", i, vd.Name)
        } else {
            ids[vd.Name] = vr.ID
        }
    }

    /* resolve copy hints after all registers are known */
    for i, vd := range self.VRegs {
        if vd.CopyOf == "" {
            continue
        } else if id, ok := ids[vd.CopyOf]; !ok {
            return nil, fmt.Errorf("vreg #%d (%s): copy of unknown vreg %q", i, vd.Name, vd.CopyOf)
        } else if id == i {
            return nil, fmt.Errorf("vreg #%d (%s): copy of itself", i, vd.Name)
        } else {
            vrs.Get(i).CopyOf = id
        }
    }

    /* construct the function */
    return &ra.Function {
        Name     : self.Name,
        Target   : tgt,
        CFG      : cf,
        VirtRegs : vrs,
    }, nil
}

func (self *VReg) build(vrs *ra.VirtRegs, tgt *target.File) (*ra.VirtReg, error) {
    var ok bool
    var cls target.Class

    /* register class */
    if cls, ok = tgt.LookupClass(self.Class); !ok {
        return nil, fmt.Errorf("unknown register class %q for %s", self.Class, tgt)
    }

    /* live interval */
    segs := make([]slot.Segment, 0, len(self.Segments))
    for _, s := range self.Segments {
        if len(s) != 2 {
            return nil, fmt.Errorf("segment %v is not a [start, end] pair", s)
        } else if s[1] < s[0] {
            return nil, fmt.Errorf("inverted segment [%d,%d)", s[0], s[1])
        } else {
            segs = append(segs, slot.Segment { Start: slot.Index(s[0]), End: slot.Index(s[1]) })
        }
    }

    /* must cover something */
    iv := slot.Make(segs...)
    if iv.Empty() {
        return nil, ErrEmptyInterval
    }

    /* uses must be inside the interval */
    uses := make([]ra.Use, 0, len(self.Uses))
    for _, u := range self.Uses {
        if !iv.Contains(slot.Index(u.At)) {
            return nil, fmt.Errorf("use at %d is outside of %s", u.At, iv)
        } else {
            uses = append(uses, ra.Use { At: slot.Index(u.At), Def: u.Def })
        }
    }

    /* create the register */
    vr := vrs.New(cls, iv, uses...)
    vr.NoSplit = self.NoSplit

    /* user-specified spill weight */
    if self.Weight != nil {
        if *self.Weight < 0 {
            return nil, fmt.Errorf("negative spill weight %g", *self.Weight)
        } else {
            vr.Weight = *self.Weight
        }
    }

    /* physical register hint */
    if self.Hint != "" {
        if vr.Hint, ok = tgt.Lookup(self.Hint); !ok {
            return nil, fmt.Errorf("unknown hint register %q", self.Hint)
        }
    }

    /* pre-colored registers */
    if self.Fixed != "" {
        if vr.Fixed, ok = tgt.Lookup(self.Fixed); !ok {
            return nil, fmt.Errorf("unknown fixed register %q", self.Fixed)
        }
    }
    return vr, nil
}
