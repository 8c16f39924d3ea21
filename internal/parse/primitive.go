// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/idl"
)

// Satisfy matches one code point for which pred returns true. On failure the
// label is recorded as expected at the cursor.
func Satisfy(label string, pred func(idl.CodePoint) bool) Parser[idl.CodePoint] {
	return func(c cursor.Cursor) Result[idl.CodePoint] {
		cp, ok := c.Peek().Get()
		if !ok || !pred(cp) {
			c.Fail(label)
			return Failure[idl.CodePoint](c)
		}
		return Success(cp, c.Advance(1))
	}
}

// Char matches exactly r.
func Char(r rune) Parser[idl.CodePoint] {
	want := idl.CodePoint(r)
	return Satisfy(quote(string(r)), func(cp idl.CodePoint) bool {
		return cp == want
	})
}

// CharFold matches r ignoring case.
func CharFold(r rune) Parser[idl.CodePoint] {
	return Satisfy(quote(string(r)), func(cp idl.CodePoint) bool {
		return equalFold(rune(cp), r)
	})
}

// Range matches any code point in the inclusive range [lo, hi].
func Range(label string, lo rune, hi rune) Parser[idl.CodePoint] {
	return Satisfy(label, func(cp idl.CodePoint) bool {
		return rune(cp) >= lo && rune(cp) <= hi
	})
}

// CharIn matches any one of the code points in set.
func CharIn(label string, set string) Parser[idl.CodePoint] {
	return Satisfy(label, func(cp idl.CodePoint) bool {
		return strings.ContainsRune(set, rune(cp))
	})
}

// Any matches any single code point.
func Any() Parser[idl.CodePoint] {
	return Satisfy("any character", func(idl.CodePoint) bool {
		return true
	})
}

// Literal matches the exact text. The whole literal must match or nothing is
// consumed.
func Literal(text string) Parser[string] {
	return literal(text, func(a rune, b rune) bool { return a == b })
}

// LiteralFold matches text ignoring case, as ABNF quoted strings do. The
// value is the matched input, not text.
func LiteralFold(text string) Parser[string] {
	return literal(text, equalFold)
}

func literal(text string, eq func(rune, rune) bool) Parser[string] {
	want := []rune(text)
	label := quote(text)
	return func(c cursor.Cursor) Result[string] {
		if len(want) == 0 {
			return Success("", c)
		}
		if c.Remaining() < len(want) {
			c.Fail(label)
			return Failure[string](c)
		}
		at := c
		for _, r := range want {
			cp := at.Peek().Value()
			if !eq(rune(cp), r) {
				c.Fail(label)
				return Failure[string](c)
			}
			at = at.Advance(1)
		}
		return Success(c.Source().Slice(c.Offset(), at.Offset()), at)
	}
}

// End succeeds only at end of input and consumes nothing.
func End() Parser[struct{}] {
	return func(c cursor.Cursor) Result[struct{}] {
		if !c.AtEnd() {
			c.Fail("end of input")
			return Failure[struct{}](c)
		}
		return Success(struct{}{}, c)
	}
}

// Pure succeeds with value without consuming input.
func Pure[T any](value T) Parser[T] {
	return func(c cursor.Cursor) Result[T] {
		return Success(value, c)
	}
}

// Fail never matches. The label is recorded as expected at the cursor.
func Fail[T any](label string) Parser[T] {
	return func(c cursor.Cursor) Result[T] {
		c.Fail(label)
		return Failure[T](c)
	}
}

func equalFold(a rune, b rune) bool {
	return a == b || unicode.SimpleFold(a) == b || unicode.ToLower(a) == unicode.ToLower(b)
}

func quote(text string) string {
	return fmt.Sprintf("'%s'", text)
}
