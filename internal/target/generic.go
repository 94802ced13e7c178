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
)

// Generic builds a toy register file with n general purpose registers named "r0" ~ "r{n-1}"
// in class "gpr", plus n/2 register pairs "d0" ~ "d{n/2-1}" in class "pair", where "d{i}"
// overlaps with both "r{2i}" and "r{2i+1}".
func Generic(n int) *File {
    if n <= 0 {
        panic(fmt.Sprintf("target: invalid register count %d", n))
    }

    /* single registers */
    fp := NewFile(fmt.Sprintf("generic%d", n))
    rr := make([]PhysReg, 0, n)
    for i := 0; i < n; i++ {
        rr = append(rr, fp.AddReg(fmt.Sprintf("r%d", i), i))
    }

    /* register pairs */
    dd := make([]PhysReg, 0, n / 2)
    for i := 0; i < n / 2; i++ {
        dd = append(dd, fp.AddReg(fmt.Sprintf("d%d", i), i * 2, i * 2 + 1))
    }

    /* register classes */
    fp.AddClass("gpr", rr...)
    fp.AddClass("pair", dd...)
    return fp
}
