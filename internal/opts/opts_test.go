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

package opts

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	lines []string
}

func (self *recorder) Debugf(format string, v ...interface{}) {
	self.lines = append(self.lines, fmt.Sprintf(format, v...))
}

func TestOptions_ParseOrDefault(t *testing.T) {
	require.NoError(t, os.Setenv("REGALLOC_TEST_INT", "42"))
	require.NoError(t, os.Setenv("REGALLOC_TEST_BAD", "xx"))
	require.NoError(t, os.Setenv("REGALLOC_TEST_BOOL", "true"))
	defer os.Unsetenv("REGALLOC_TEST_INT")
	defer os.Unsetenv("REGALLOC_TEST_BAD")
	defer os.Unsetenv("REGALLOC_TEST_BOOL")
	require.Equal(t, 42, parseOrDefault("REGALLOC_TEST_INT", 1, 0))
	require.Equal(t, 7, parseOrDefault("REGALLOC_TEST_NONE", 7, 0))
	require.Panics(t, func() { parseOrDefault("REGALLOC_TEST_INT", 1, 100) })
	require.Panics(t, func() { parseOrDefault("REGALLOC_TEST_BAD", 1, 0) })
	require.True(t, parseBoolOrDefault("REGALLOC_TEST_BOOL", false))
	require.Panics(t, func() { parseBoolOrDefault("REGALLOC_TEST_BAD", false) })
}

func TestOptions_CollectLimitZero(t *testing.T) {
	require.NoError(t, os.Setenv("REGALLOC_COLLECT_LIMIT", "0"))
	defer os.Unsetenv("REGALLOC_COLLECT_LIMIT")
	require.Equal(t, 0, parseOrDefault("REGALLOC_COLLECT_LIMIT", _DefaultCollectLimit, _MinCollectLimit))
}

func TestOptions_Tracef(t *testing.T) {
	rec := new(recorder)
	o := GetDefaultOptions()
	o.Logger = rec
	o.Debug = false
	o.Tracef("hidden %d", 1)
	o.Debug = true
	o.Tracef("shown %d", 2)
	require.Equal(t, []string{"shown 2"}, rec.lines)
}
