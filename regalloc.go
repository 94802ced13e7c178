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

package regalloc

import (
	"errors"
	"io"

	"github.com/cloudwego/regalloc/internal/desc"
	"github.com/cloudwego/regalloc/internal/opts"
	"github.com/cloudwego/regalloc/internal/ra"
	"github.com/cloudwego/regalloc/internal/target"
)

type (
	Function    = ra.Function
	Result      = ra.Result
	Stats       = ra.Stats
	VirtReg     = ra.VirtReg
	VirtRegs    = ra.VirtRegs
	Use         = ra.Use
	Location    = ra.Location
	SpillPoint  = ra.SpillPoint
	Spiller     = ra.Spiller
	Target      = ra.Target
	ControlFlow = ra.ControlFlow
	File        = target.File
	PhysReg     = target.PhysReg
)

// Allocate assigns a physical register or a stack slot to every virtual register of
// fn. Running out of registers is not an error, the affected virtual registers are
// split or spilled instead.
//
// The virtual register table of fn is extended with the registers created by
// splitting and spilling, so fn must not be allocated twice.
func Allocate(fn *Function, options ...Option) *Result {
	o := opts.GetDefaultOptions()
	for _, fp := range options {
		fp(&o)
	}
	return ra.NewAllocator(fn, o).Run()
}

// Load reads a YAML function description and builds the function against the
// register file. Malformed descriptions are reported as InputError.
func Load(r io.Reader, tgt *File) (*Function, error) {
	fd, err := desc.Decode(r)
	if err != nil {
		return nil, InputError{Reason: err}
	}

	/* resolve the names */
	fn, err := fd.Build(tgt)
	if err != nil {
		return nil, InputError{Name: fd.Name, Reason: err}
	}
	return fn, nil
}

// IsInputError reports whether err was caused by a malformed function description.
func IsInputError(err error) bool {
	var ie InputError
	return errors.As(err, &ie)
}

// Generic creates a toy register file with n general purpose registers.
func Generic(n int) *File {
	return target.Generic(n)
}

// AMD64 creates the x86-64 register file for the features of the host CPU.
func AMD64() *File {
	return target.AMD64(target.HostFeatures())
}
