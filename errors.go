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
    `fmt`

    `github.com/cloudwego/regalloc/internal/ra`
)

// InputError occures when a function description cannot be turned into a function.
type InputError struct {
    Name   string
    Reason error
}

func (self InputError) Error() string {
    if self.Name != "" {
        return fmt.Sprintf("InputError(%s): %v", self.Name, self.Reason)
    } else {
        return fmt.Sprintf("InputError: %v", self.Reason)
    }
}

func (self InputError) Unwrap() error {
    return self.Reason
}

// VerifyError is the panic value when the verifier finds a broken allocation, only
// raised when verification is enabled.
type VerifyError = ra.VerifyError
