// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/idl"
)

// Complete runs p over the whole of src. It fails unless p matches and
// consumes every code point. The error is an exc.Exception positioned at the
// furthest point the parse reached.
func Complete[T any](p Parser[T], src *cursor.Source) (T, error) {
	var zero T
	r := p(src.Start())
	if src.DepthExceeded() {
		return zero, exc.New(
			location(src, src.ExceededAt()),
			exc.CodeDepthExceeded,
			fmt.Sprintf("rule nesting exceeds the maximum depth of %d", src.MaxDepth()),
		)
	}
	if r.OK && r.Rest.AtEnd() {
		return r.Value, nil
	}
	offset, expected := src.Furthest()
	code := exc.CodeSyntaxError
	if r.OK && r.Rest.Offset() >= offset {
		if r.Rest.Offset() > offset {
			expected = nil
		}
		offset = r.Rest.Offset()
		code = exc.CodeTrailingInput
		expected = append(expected, "end of input")
	}
	if offset < 0 {
		offset = 0
	}
	return zero, exc.New(location(src, offset), code, describe(src, offset, expected))
}

// Parse is Complete over text.
func Parse[T any](p Parser[T], text string, options ...cursor.Option) (T, error) {
	return Complete(p, cursor.New(text, options...))
}

// Matches reports whether p consumes all of text.
func Matches[T any](p Parser[T], text string) bool {
	_, err := Parse(p, text)
	return err == nil
}

func location(src *cursor.Source, offset int) exc.Location {
	return exc.Location{Location: src.Location(offset)}
}

func describe(src *cursor.Source, offset int, expected []string) string {
	var b strings.Builder
	if offset >= src.Len() {
		b.WriteString("unexpected end of input")
	} else {
		cp := src.Start().Advance(offset).Peek().Value()
		fmt.Fprintf(&b, "unexpected %s", printable(cp))
	}
	if len(expected) > 0 {
		fmt.Fprintf(&b, " (expecting %s)", strings.Join(expected, ", "))
	}
	return b.String()
}

func printable(cp idl.CodePoint) string {
	r := rune(cp)
	if r < 0x20 || r == 0x7f {
		return fmt.Sprintf("%U", r)
	}
	return quote(string(r))
}
