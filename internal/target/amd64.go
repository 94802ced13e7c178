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

    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/klauspost/cpuid/v2`
)

// Features selects the optional parts of the AMD64 register file.
type Features struct {
    AVX    bool
    AVX512 bool
}

// HostFeatures detects the vector extensions of the running CPU.
func HostFeatures() Features {
    return Features {
        AVX    : cpuid.CPU.Supports(cpuid.AVX),
        AVX512 : cpuid.CPU.Supports(cpuid.AVX512F),
    }
}

var (
    gpr8 = [...]x86_64.Register8 {
        x86_64.AL, x86_64.CL, x86_64.DL, x86_64.BL, x86_64.SPL, x86_64.BPL, x86_64.SIL, x86_64.DIL,
        x86_64.R8b, x86_64.R9b, x86_64.R10b, x86_64.R11b, x86_64.R12b, x86_64.R13b, x86_64.R14b, x86_64.R15b,
    }
    gpr8h = [...]x86_64.Register8 {
        x86_64.AH, x86_64.CH, x86_64.DH, x86_64.BH,
    }
    gpr16 = [...]x86_64.Register16 {
        x86_64.AX, x86_64.CX, x86_64.DX, x86_64.BX, x86_64.SP, x86_64.BP, x86_64.SI, x86_64.DI,
        x86_64.R8w, x86_64.R9w, x86_64.R10w, x86_64.R11w, x86_64.R12w, x86_64.R13w, x86_64.R14w, x86_64.R15w,
    }
    gpr32 = [...]x86_64.Register32 {
        x86_64.EAX, x86_64.ECX, x86_64.EDX, x86_64.EBX, x86_64.ESP, x86_64.EBP, x86_64.ESI, x86_64.EDI,
        x86_64.R8d, x86_64.R9d, x86_64.R10d, x86_64.R11d, x86_64.R12d, x86_64.R13d, x86_64.R14d, x86_64.R15d,
    }
    gpr64 = [...]x86_64.Register64 {
        x86_64.RAX, x86_64.RCX, x86_64.RDX, x86_64.RBX, x86_64.RSP, x86_64.RBP, x86_64.RSI, x86_64.RDI,
        x86_64.R8, x86_64.R9, x86_64.R10, x86_64.R11, x86_64.R12, x86_64.R13, x86_64.R14, x86_64.R15,
    }
)

/* Register units of the AMD64 general purpose registers (4 per register):
 *
 *   unit 0 : bits 0 ~ 7
 *   unit 1 : bits 8 ~ 15
 *   unit 2 : bits 16 ~ 31
 *   unit 3 : bits 32 ~ 63
 *
 * Vector registers are made of 3 units each, starting at _VecUnits:
 *
 *   unit 0 : XMM part
 *   unit 1 : upper half of YMM
 *   unit 2 : upper half of ZMM
 */
const (
    _VecUnits = 1024
)

// AMD64 builds the AMD64 register file with the given vector features.
// The stack pointer and the frame pointer are reserved.
func AMD64(f Features) *File {
    fp := NewFile("amd64")
    nv := 16

    /* AVX-512 doubles the vector registers */
    if f.AVX512 {
        nv = 32
    }

    /* 8-bit registers, including the legacy high-byte ones */
    r8 := make([]PhysReg, 0, len(gpr8) + len(gpr8h))
    for i, r := range gpr8 { r8 = append(r8, fp.AddReg(r.String(), i * 4)) }
    for i, r := range gpr8h { r8 = append(r8, fp.AddReg(r.String(), i * 4 + 1)) }

    /* 16-bit, 32-bit and 64-bit registers */
    r16 := make([]PhysReg, 0, len(gpr16))
    r32 := make([]PhysReg, 0, len(gpr32))
    r64 := make([]PhysReg, 0, len(gpr64))
    for i, r := range gpr16 { r16 = append(r16, fp.AddReg(r.String(), i * 4, i * 4 + 1)) }
    for i, r := range gpr32 { r32 = append(r32, fp.AddReg(r.String(), i * 4, i * 4 + 1, i * 4 + 2)) }
    for i, r := range gpr64 { r64 = append(r64, fp.AddReg(r.String(), i * 4, i * 4 + 1, i * 4 + 2, i * 4 + 3)) }

    /* XMM registers */
    xmm := make([]PhysReg, 0, nv)
    for i := 0; i < nv; i++ {
        xmm = append(xmm, fp.AddReg(x86_64.XMMRegister(i).String(), _VecUnits + i * 3))
    }

    /* general purpose classes */
    fp.AddClass("gr8", r8...)
    fp.AddClass("gr16", r16...)
    fp.AddClass("gr32", r32...)
    fp.AddClass("gr64", r64...)
    fp.AddClass("xmm", xmm...)

    /* YMM registers */
    if f.AVX {
        ymm := make([]PhysReg, 0, nv)
        for i := 0; i < nv; i++ { ymm = append(ymm, fp.AddReg(x86_64.YMMRegister(i).String(), _VecUnits + i * 3, _VecUnits + i * 3 + 1)) }
        fp.AddClass("ymm", ymm...)
    }

    /* ZMM registers */
    if f.AVX512 {
        zmm := make([]PhysReg, 0, nv)
        for i := 0; i < nv; i++ { zmm = append(zmm, fp.AddReg(x86_64.ZMMRegister(i).String(), _VecUnits + i * 3, _VecUnits + i * 3 + 1, _VecUnits + i * 3 + 2)) }
        fp.AddClass("zmm", zmm...)
    }

    /* reserve SP & BP */
    fp.Reserve(mustLookup(fp, x86_64.RSP.String()))
    fp.Reserve(mustLookup(fp, x86_64.RBP.String()))
    return fp
}

func mustLookup(fp *File, name string) PhysReg {
    if r, ok := fp.Lookup(name); !ok {
        panic(fmt.Sprintf("target: register %s does not exist", name))
    } else {
        return r
    }
}
