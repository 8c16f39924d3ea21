// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"fmt"

	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/optional"
)

// Cursor is the remaining input starting at some offset of a Source. It is a
// small value; advancing returns a new Cursor and never copies the source.
// Two cursors are equal when they point into the same Source at the same
// offset, so == compares them.
type Cursor struct {
	src    *Source
	offset int
}

// Peek returns the code point at the cursor, or None at end of input.
func (c Cursor) Peek() optional.Optional[idl.CodePoint] {
	if c.src == nil || c.offset >= len(c.src.units) {
		return optional.None[idl.CodePoint]()
	}
	return optional.Some(c.src.units[c.offset])
}

// Advance returns a cursor n code points further along. The result is clamped
// to the end of input.
func (c Cursor) Advance(n int) Cursor {
	if c.src == nil {
		return c
	}
	offset := c.offset + n
	if offset > len(c.src.units) {
		offset = len(c.src.units)
	}
	if offset < 0 {
		offset = 0
	}
	return Cursor{src: c.src, offset: offset}
}

// Offset returns the code point offset into the source.
func (c Cursor) Offset() int {
	return c.offset
}

// Source returns the backing source.
func (c Cursor) Source() *Source {
	return c.src
}

// AtEnd reports whether no input remains.
func (c Cursor) AtEnd() bool {
	return c.src == nil || c.offset >= len(c.src.units)
}

// Remaining returns the number of code points left.
func (c Cursor) Remaining() int {
	if c.src == nil {
		return 0
	}
	return len(c.src.units) - c.offset
}

// Fail records a furthest-failure candidate at this cursor.
func (c Cursor) Fail(label string) {
	if c.src != nil {
		c.src.Fail(c.offset, label)
	}
}

func (c Cursor) String() string {
	return fmt.Sprintf("@%d", c.offset)
}
