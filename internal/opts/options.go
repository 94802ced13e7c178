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
	"github.com/bytedance/gopkg/util/logger"
)

// Logger receives the allocator traces, logger.Logger from gopkg satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
}

type Options struct {
	Verify       bool
	Debug        bool
	CollectLimit int
	SolverRounds int
	Logger       Logger
}

// Tracef emits a debug trace when tracing is enabled.
func (self *Options) Tracef(format string, v ...interface{}) {
	if self.Debug {
		if self.Logger != nil {
			self.Logger.Debugf(format, v...)
		} else {
			logger.Debugf(format, v...)
		}
	}
}

func GetDefaultOptions() Options {
	return Options{
		Verify:       Verify,
		Debug:        Debug,
		CollectLimit: CollectLimit,
		SolverRounds: SolverRounds,
	}
}
