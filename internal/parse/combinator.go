// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"sync"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/optional"
)

// Unbounded is passed as the maximum to Repeat when there is no upper limit.
const Unbounded = -1

// Pair holds the values of two parsers run in sequence.
type Pair[A any, B any] struct {
	First  A
	Second B
}

// Either holds the value of whichever side of an Or matched.
type Either[L any, R any] struct {
	IsRight bool
	Left    L
	Right   R
}

// Span is a value together with the input range it was parsed from.
type Span[T any] struct {
	Value T
	Start cursor.Cursor
	End   cursor.Cursor
}

// Text returns the input covered by the span.
func (self Span[T]) Text() string {
	if self.Start.Source() == nil {
		return ""
	}
	return self.Start.Source().Slice(self.Start.Offset(), self.End.Offset())
}

// Seq2 runs a then b. If either fails the input is left untouched.
func Seq2[A any, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(c cursor.Cursor) Result[Pair[A, B]] {
		ra := a(c)
		if !ra.OK {
			return Failure[Pair[A, B]](c)
		}
		rb := b(ra.Rest)
		if !rb.OK {
			return Failure[Pair[A, B]](c)
		}
		return Success(Pair[A, B]{First: ra.Value, Second: rb.Value}, rb.Rest)
	}
}

// Seq runs every parser in order and collects their values.
func Seq[T any](parsers ...Parser[T]) Parser[[]T] {
	return func(c cursor.Cursor) Result[[]T] {
		values := make([]T, 0, len(parsers))
		at := c
		for _, p := range parsers {
			r := p(at)
			if !r.OK {
				return Failure[[]T](c)
			}
			values = append(values, r.Value)
			at = r.Rest
		}
		return Success(values, at)
	}
}

// Left runs a then b and keeps the value of a.
func Left[A any, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Seq2(a, b), func(p Pair[A, B]) A {
		return p.First
	})
}

// Right runs a then b and keeps the value of b.
func Right[A any, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Seq2(a, b), func(p Pair[A, B]) B {
		return p.Second
	})
}

// Between runs open, p and close and keeps the value of p.
func Between[O any, T any, C any](open Parser[O], p Parser[T], close Parser[C]) Parser[T] {
	return Right(open, Left(p, close))
}

// Or tries a and then b. The first to match wins, even if the other would
// have matched more input.
func Or[L any, R any](a Parser[L], b Parser[R]) Parser[Either[L, R]] {
	return func(c cursor.Cursor) Result[Either[L, R]] {
		if ra := a(c); ra.OK {
			return Success(Either[L, R]{Left: ra.Value}, ra.Rest)
		}
		if rb := b(c); rb.OK {
			return Success(Either[L, R]{IsRight: true, Right: rb.Value}, rb.Rest)
		}
		return Failure[Either[L, R]](c)
	}
}

// Choice tries each parser in order and returns the first match.
func Choice[T any](parsers ...Parser[T]) Parser[T] {
	return func(c cursor.Cursor) Result[T] {
		for _, p := range parsers {
			if r := p(c); r.OK {
				return r
			}
		}
		return Failure[T](c)
	}
}

// Optional never fails. It returns Some when p matched and None, without
// consuming input, when it did not.
func Optional[T any](p Parser[T]) Parser[optional.Optional[T]] {
	return func(c cursor.Cursor) Result[optional.Optional[T]] {
		if r := p(c); r.OK {
			return Success(optional.Some(r.Value), r.Rest)
		}
		return Success(optional.None[T](), c)
	}
}

// Repeat matches p greedily between min and max times. Max may be Unbounded.
// If p matches fewer than min times nothing is consumed. A match of p that
// consumes no input counts once and ends the repetition once min is reached,
// so a parser that can match the empty string cannot loop forever.
func Repeat[T any](p Parser[T], min int, max int) Parser[[]T] {
	if min < 0 || (max != Unbounded && max < min) {
		panic(fmt.Sprintf("parse: invalid repetition bounds %d..%d", min, max))
	}
	return func(c cursor.Cursor) Result[[]T] {
		var values []T
		at := c
		for max == Unbounded || len(values) < max {
			r := p(at)
			if !r.OK {
				break
			}
			values = append(values, r.Value)
			if r.Rest == at && len(values) >= min {
				break
			}
			at = r.Rest
		}
		if len(values) < min {
			return Failure[[]T](c)
		}
		if values == nil {
			values = []T{}
		}
		return Success(values, at)
	}
}

// Many matches p zero or more times.
func Many[T any](p Parser[T]) Parser[[]T] {
	return Repeat(p, 0, Unbounded)
}

// Many1 matches p one or more times.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return Repeat(p, 1, Unbounded)
}

// Times matches p exactly n times.
func Times[T any](p Parser[T], n int) Parser[[]T] {
	return Repeat(p, n, n)
}

// SepBy matches at least min occurrences of p separated by sep.
func SepBy[T any, S any](p Parser[T], sep Parser[S], min int) Parser[[]T] {
	tail := Many(Right(sep, p))
	return func(c cursor.Cursor) Result[[]T] {
		first := p(c)
		if !first.OK {
			if min == 0 {
				return Success([]T{}, c)
			}
			return Failure[[]T](c)
		}
		rest := tail(first.Rest)
		values := append([]T{first.Value}, rest.Value...)
		if len(values) < min {
			return Failure[[]T](c)
		}
		return Success(values, rest.Rest)
	}
}

// Map transforms the value of a successful match. The consumed input is
// unchanged.
func Map[T any, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(c cursor.Cursor) Result[U] {
		r := p(c)
		if !r.OK {
			return Failure[U](c)
		}
		return Success(f(r.Value), r.Rest)
	}
}

// Where matches p and then rejects the match, without consuming input, when
// pred returns false. The label is recorded as expected at the start.
func Where[T any](label string, p Parser[T], pred func(T) bool) Parser[T] {
	return func(c cursor.Cursor) Result[T] {
		r := p(c)
		if !r.OK {
			return r
		}
		if !pred(r.Value) {
			c.Fail(label)
			return Failure[T](c)
		}
		return r
	}
}

// Not succeeds, consuming nothing, when p does not match at the cursor.
func Not[T any](p Parser[T]) Parser[struct{}] {
	return func(c cursor.Cursor) Result[struct{}] {
		if r := p(c); r.OK {
			return Failure[struct{}](c)
		}
		return Success(struct{}{}, c)
	}
}

// Ahead matches p but consumes nothing.
func Ahead[T any](p Parser[T]) Parser[T] {
	return func(c cursor.Cursor) Result[T] {
		r := p(c)
		if !r.OK {
			return r
		}
		return Success(r.Value, c)
	}
}

// Spanned records the input range matched by p alongside its value.
func Spanned[T any](p Parser[T]) Parser[Span[T]] {
	return func(c cursor.Cursor) Result[Span[T]] {
		r := p(c)
		if !r.OK {
			return Failure[Span[T]](c)
		}
		return Success(Span[T]{Value: r.Value, Start: c, End: r.Rest}, r.Rest)
	}
}

// Text replaces the value of p with the input it matched.
func Text[T any](p Parser[T]) Parser[string] {
	return Map(Spanned(p), func(s Span[T]) string {
		return s.Text()
	})
}

// Lazy defers building a parser until its first use. The build function runs
// at most once.
func Lazy[T any](build func() Parser[T]) Parser[T] {
	var once sync.Once
	var p Parser[T]
	return func(c cursor.Cursor) Result[T] {
		once.Do(func() {
			p = build()
		})
		return p(c)
	}
}
