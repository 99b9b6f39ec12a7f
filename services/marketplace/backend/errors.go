// Copyright 2025 Innovation Lab Inc. <dev+marketplace@innovationlab.ai>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import "fmt"

// UnknownApplicationError is raised when trying to operate on an unknown
// application
type UnknownApplicationError struct {
	ApplicationID string
}

func (e *UnknownApplicationError) Error() string {
	return fmt.Sprintf("unknown application %q", e.ApplicationID)
}

// UnexpectedError is raised when an unexpected error occurs in the backend
type UnexpectedError struct {
	wrapped error
}

// NewUnexpectedError creates an UnexpectedError from a format string
func NewUnexpectedError(format string, a ...interface{}) *UnexpectedError {
	return &UnexpectedError{wrapped: fmt.Errorf(format, a...)}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected backend error: %s", e.wrapped.Error())
}

func (e *UnexpectedError) Unwrap() error {
	return e.wrapped
}
