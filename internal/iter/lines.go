// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"
	"strings"

	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/optional"
)

// NewLines groups a stream of code points into numbered lines. A line ends at
// "\n", "\r\n" or a lone "\r"; terminators are not part of the line text. A
// final line without a terminator is still returned, but an empty input
// produces no lines.
func NewLines(points idl.Iterator[idl.CodePoint]) idl.Iterator[idl.Line] {
	return &lines{
		points: NewLookahead(points, 1),
	}
}

type lines struct {
	points idl.Lookahead[idl.CodePoint]
	number int32
	done   bool
}

func (self *lines) Next(ctx context.Context) optional.Optional[idl.Line] {
	if self.done {
		return optional.None[idl.Line]()
	}
	var b strings.Builder
	for point := self.points.Next(ctx); point.IsPresent(); point = self.points.Next(ctx) {
		switch point.Value() {
		case '\r':
			if n := self.points.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '\n' {
				_ = self.points.Next(ctx)
			}
			return self.line(b.String())
		case '\n':
			return self.line(b.String())
		default:
			b.WriteRune(rune(point.Value()))
		}
	}
	self.done = true
	if b.Len() == 0 {
		return optional.None[idl.Line]()
	}
	return self.line(b.String())
}

func (self *lines) line(text string) optional.Optional[idl.Line] {
	self.number = self.number + 1
	return optional.Some(idl.Line{Number: self.number, Text: text})
}

func (self *lines) Close(ctx context.Context) error {
	return self.points.Close(ctx)
}
