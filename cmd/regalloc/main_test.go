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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
name: sample
blocks:
  - { start: 0,  end: 10, succs: [1] }
  - { start: 10, end: 20, succs: [1, 2] }
  - { start: 20, end: 30 }
vregs:
  - name: x
    class: gpr
    segments: [[0, 30]]
    uses: [{ at: 0, def: true }, { at: 15 }, { at: 25 }]
  - name: y
    class: gpr
    segments: [[12, 18]]
    uses: [{ at: 12, def: true }, { at: 17 }]
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestFlagsExist(t *testing.T) {
	cmd := newRootCmd(new(bytes.Buffer), new(bytes.Buffer))
	for _, name := range []string{"target", "regs", "output", "verify", "debug", "dump", "solver-rounds", "collect-limit"} {
		require.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestStdinText(t *testing.T) {
	out, _, err := execute(t, sample, "--regs", "2", "--verify")
	require.NoError(t, err)
	require.Contains(t, out, "function sample:")
	require.Contains(t, out, "r0")
	require.Contains(t, out, "r1")
}

func TestFileYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(sample), 0644))
	out, _, err := execute(t, "", "-o", "yaml", "-n", "1", fn)
	require.NoError(t, err)
	require.Contains(t, out, "name: sample")
	require.Contains(t, out, "kind: stack")
	require.Contains(t, out, "spills:")
}

func TestDump(t *testing.T) {
	out, _, err := execute(t, sample, "--dump")
	require.NoError(t, err)
	require.Contains(t, out, "Assignment")
}

func TestBadInput(t *testing.T) {
	_, _, err := execute(t, "blocks: [", "--regs", "2")
	require.Error(t, err)
	require.Contains(t, err.Error(), "InputError")

	_, _, err = execute(t, sample, "--target", "arm64")
	require.Error(t, err)

	_, _, err = execute(t, sample, "--regs", "0")
	require.Error(t, err)

	_, _, err = execute(t, "", "missing.yaml")
	require.Error(t, err)
}
