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
    `fmt`
    `io`
    `text/tabwriter`

    `github.com/cloudwego/regalloc/internal/ra`
    `gopkg.in/yaml.v3`
)

// Report is the printable form of an allocation result.
type Report struct {
    Name   string     `yaml:"name"`
    Slots  int        `yaml:"slots"`
    VRegs  []Location `yaml:"vregs"`
    Spills []Spill    `yaml:"spills,omitempty"`
    Stats  ra.Stats   `yaml:"stats"`
}

// Location is the final location of one virtual register piece.
type Location struct {
    ID       int    `yaml:"id"`
    Origin   int    `yaml:"origin"`
    Interval string `yaml:"interval"`
    Kind     string `yaml:"kind"`
    Reg      string `yaml:"reg,omitempty"`
    Slot     *int   `yaml:"slot,omitempty"`
}

type Spill struct {
    VReg int    `yaml:"vreg"`
    At   int    `yaml:"at"`
    Kind string `yaml:"kind"`
}

// NewReport collects the final pieces of every virtual register. Registers replaced by
// splitting are left out.
func NewReport(res *ra.Result, tgt ra.Target) *Report {
    ret := &Report {
        Name  : res.Name,
        Slots : res.Assignment.NumSlots(),
        Stats : res.Stats,
    }

    /* final locations */
    for _, vr := range res.VirtRegs.All() {
        loc := res.Location(vr.ID)
        if loc.Kind == ra.Replaced {
            continue
        }

        /* convert the location */
        item := Location {
            ID       : vr.ID,
            Origin   : vr.Origin,
            Interval : vr.Interval.String(),
            Kind     : loc.Kind.String(),
        }

        /* register or stack slot */
        switch loc.Kind {
            case ra.InReg   : item.Reg = tgt.Name(loc.Reg)
            case ra.OnStack : item.Slot = &loc.Slot
        }

        /* add to report */
        ret.VRegs = append(ret.VRegs, item)
    }

    /* memory accesses */
    for _, sp := range res.Spills {
        ret.Spills = append(ret.Spills, Spill {
            VReg : sp.VReg,
            At   : int(sp.At),
            Kind : sp.Kind.String(),
        })
    }
    return ret
}

// EncodeYAML writes the report as a YAML document.
func (self *Report) EncodeYAML(w io.Writer) error {
    enc := yaml.NewEncoder(w)
    enc.SetIndent(2)

    /* flush the encoder */
    if err := enc.Encode(self); err != nil {
        return err
    } else {
        return enc.Close()
    }
}

// EncodeText writes the report as an aligned table.
func (self *Report) EncodeText(w io.Writer) error {
    tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
    fmt.Fprintf(tw, "function %s: %d rounds, %d stack slots\n", self.Name, self.Stats.Rounds, self.Slots)

    /* every piece */
    for _, v := range self.VRegs {
        switch {
            case v.Reg  != "" : fmt.Fprintf(tw, "  %%%d\t%%%d\t%s\t%s\n", v.ID, v.Origin, v.Interval, v.Reg)
            case v.Slot != nil : fmt.Fprintf(tw, "  %%%d\t%%%d\t%s\tslot#%d\n", v.ID, v.Origin, v.Interval, *v.Slot)
            default            : fmt.Fprintf(tw, "  %%%d\t%%%d\t%s\t%s\n", v.ID, v.Origin, v.Interval, v.Kind)
        }
    }

    /* spill code */
    for _, sp := range self.Spills {
        fmt.Fprintf(tw, "  %s\t%%%d\t@%d\n", sp.Kind, sp.VReg, sp.At)
    }
    return tw.Flush()
}
