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

package target

import (
    `fmt`
    `sort`
)

// PhysReg identifies a physical register within a File. Zero is never a valid register.
type PhysReg int

// NoReg is the "no register" marker.
const NoReg PhysReg = 0

func (self PhysReg) String() string {
    return fmt.Sprintf("$%d", int(self))
}

// Class identifies a register class within a File.
type Class int

type _Register struct {
    name    string
    units   []int
    aliases []PhysReg
}

type _Class struct {
    name  string
    regs  []PhysReg
    order []PhysReg
    set   RegSet
}

// File describes a register file: registers made of register units, register classes
// and the reserved registers. Two registers alias when their unit sets intersect.
type File struct {
    name     string
    regs     []_Register
    classes  []_Class
    reserved RegSet
    regmap   map[string]PhysReg
    clsmap   map[string]Class
}

// NewFile creates an empty register file.
func NewFile(name string) *File {
    return &File {
        name     : name,
        regs     : []_Register {{ name: "noreg" }},
        reserved : NewRegSet(),
        regmap   : make(map[string]PhysReg),
        clsmap   : make(map[string]Class),
    }
}

func (self *File) String() string {
    return self.name
}

// AddReg defines a new register made of the given register units.
func (self *File) AddReg(name string, units ...int) PhysReg {
    if len(units) == 0 {
        panic("target: register without units: " + name)
    } else if _, ok := self.regmap[name]; ok {
        panic("target: duplicated register: " + name)
    }

    /* normalize the units */
    uu := append([]int(nil), units...)
    sort.Ints(uu)

    /* allocate the register */
    id := PhysReg(len(self.regs))
    self.regs = append(self.regs, _Register { name: name, units: uu, aliases: []PhysReg { id } })
    self.regmap[name] = id

    /* update the alias lists */
    for i := PhysReg(1); i < id; i++ {
        if unitsOverlap(self.regs[i].units, uu) {
            self.regs[i].aliases = append(self.regs[i].aliases, id)
            self.regs[id].aliases = append(self.regs[id].aliases, i)
        }
    }

    /* keep the alias lists sorted */
    sort.Slice(self.regs[id].aliases, func(i int, j int) bool {
        return self.regs[id].aliases[i] < self.regs[id].aliases[j]
    })
    return id
}

// AddClass defines a new register class, the register order is the allocation order.
func (self *File) AddClass(name string, regs ...PhysReg) Class {
    if _, ok := self.clsmap[name]; ok {
        panic("target: duplicated register class: " + name)
    }

    /* check every register */
    for _, r := range regs {
        self.check(r)
    }

    /* add to class list */
    id := Class(len(self.classes))
    self.clsmap[name] = id
    self.classes = append(self.classes, _Class { name: name, regs: regs, set: NewRegSet(regs...) })
    self.refresh(id)
    return id
}

// Reserve marks the register and every register aliasing it as not allocatable.
func (self *File) Reserve(r PhysReg) {
    self.reserved.Union(NewRegSet(self.Aliases(r)...))
    for i := range self.classes {
        self.refresh(Class(i))
    }
}

func (self *File) refresh(c Class) {
    cc := &self.classes[c]
    rs := self.Allocatable(c)
    cc.order = cc.order[:0]

    /* keep the class order */
    for _, r := range cc.regs {
        if rs.Contains(r) {
            cc.order = append(cc.order, r)
        }
    }
}

func (self *File) check(r PhysReg) {
    if r <= NoReg || int(r) >= len(self.regs) {
        panic(fmt.Sprintf("target: invalid physical register %d", r))
    }
}

// NumRegs returns the number of registers, valid registers are 1 ~ NumRegs().
func (self *File) NumRegs() int {
    return len(self.regs) - 1
}

func (self *File) Valid(r PhysReg) bool {
    return r > NoReg && int(r) < len(self.regs)
}

func (self *File) Name(r PhysReg) string {
    if !self.Valid(r) {
        return "noreg"
    } else {
        return self.regs[r].name
    }
}

// Aliases returns every register sharing a unit with r, including r itself.
func (self *File) Aliases(r PhysReg) []PhysReg {
    self.check(r)
    return self.regs[r].aliases
}

func (self *File) Overlaps(a PhysReg, b PhysReg) bool {
    self.check(a)
    self.check(b)
    return a == b || unitsOverlap(self.regs[a].units, self.regs[b].units)
}

func (self *File) Reserved(r PhysReg) bool {
    self.check(r)
    return self.reserved.Contains(r)
}

func (self *File) Lookup(name string) (PhysReg, bool) {
    r, ok := self.regmap[name]
    return r, ok
}

func (self *File) NumClasses() int {
    return len(self.classes)
}

func (self *File) ClassName(c Class) string {
    return self.classes[c].name
}

func (self *File) LookupClass(name string) (Class, bool) {
    c, ok := self.clsmap[name]
    return c, ok
}

// Order returns the allocation order of the class, without reserved registers.
func (self *File) Order(c Class) []PhysReg {
    return self.classes[c].order
}

// Allocatable returns the registers of the class that are not reserved.
func (self *File) Allocatable(c Class) RegSet {
    rs := self.classes[c].set.Clone()
    rs.Subtract(self.reserved)
    return rs
}

func (self *File) InClass(c Class, r PhysReg) bool {
    return self.classes[c].set.Contains(r)
}

func unitsOverlap(a []int, b []int) bool {
    i, j := 0, 0
    for i < len(a) && j < len(b) {
        switch {
            case a[i] == b[j] : return true
            case a[i] <  b[j] : i++
            default           : j++
        }
    }
    return false
}
