// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"gopkg.microglot.org/odata.go/internal/cursor"
)

// Result is the outcome of running a parser. Value is only meaningful when OK
// is true. Rest is where parsing continues after a success, and the original
// cursor after a failure.
type Result[T any] struct {
	OK    bool
	Value T
	Rest  cursor.Cursor
}

// Parser matches a T at the given cursor.
type Parser[T any] func(cursor.Cursor) Result[T]

// Success builds a successful result.
func Success[T any](value T, rest cursor.Cursor) Result[T] {
	return Result[T]{OK: true, Value: value, Rest: rest}
}

// Failure builds a failed result that consumed nothing.
func Failure[T any](at cursor.Cursor) Result[T] {
	return Result[T]{Rest: at}
}

// Consumed returns how many code points a successful result matched when it
// was started at from.
func (r Result[T]) Consumed(from cursor.Cursor) int {
	if !r.OK {
		return 0
	}
	return r.Rest.Offset() - from.Offset()
}
