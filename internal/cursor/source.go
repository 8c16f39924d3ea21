// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package cursor holds the input side of a parse: a Source owns the decoded
// code points of one input and Cursor is a cheap value pointing into it.
//
// A Source also carries the bookkeeping of a single parse run: the furthest
// failure seen, the current rule nesting depth, and an optional trace logger.
// Parsers themselves never hold state, so one grammar can be used from many
// goroutines as long as every goroutine parses its own Source.
package cursor

import (
	"sort"

	"github.com/sirupsen/logrus"

	"gopkg.microglot.org/odata.go/internal/idl"
)

// Option configures a Source.
type Option func(*Source)

// WithMaxDepth limits how deeply named rules may nest. Zero means unlimited.
func WithMaxDepth(n int) Option {
	return func(s *Source) {
		s.maxDepth = n
	}
}

// WithoutMemo turns off the per-source cache of named rule results. Without
// it a grammar with shared prefixes may take exponential time on bad input.
func WithoutMemo() Option {
	return func(s *Source) {
		s.memo = nil
	}
}

// WithTrace logs entry to and exit from every named rule at debug level.
func WithTrace(logger logrus.FieldLogger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// Source is the backing sequence for a parse. It is not safe for concurrent
// use; create one per parse.
type Source struct {
	units []idl.CodePoint

	maxDepth   int
	depth      int
	exceeded   bool
	exceededAt int
	logger     logrus.FieldLogger

	memo map[memoKey]any

	furthest int
	expected map[string]struct{}
}

// New decodes text into a Source. Invalid UTF-8 decodes to utf8.RuneError.
func New(text string, options ...Option) *Source {
	units := make([]idl.CodePoint, 0, len(text))
	for _, r := range text {
		units = append(units, idl.CodePoint(r))
	}
	return FromCodePoints(units, options...)
}

// FromCodePoints wraps an already decoded buffer. The slice is used directly
// and must not be modified while the Source is in use.
func FromCodePoints(units []idl.CodePoint, options ...Option) *Source {
	s := &Source{
		units:    units,
		furthest: -1,
		memo:     make(map[memoKey]any),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Start returns a cursor at offset zero.
func (self *Source) Start() Cursor {
	return Cursor{src: self}
}

// Len returns the number of code points in the source.
func (self *Source) Len() int {
	return len(self.units)
}

// Slice returns the text between two offsets. Offsets are clamped to the
// bounds of the source. A nil Source is empty.
func (self *Source) Slice(from int, to int) string {
	if self == nil {
		return ""
	}
	from = self.clamp(from)
	to = self.clamp(to)
	if from >= to {
		return ""
	}
	runes := make([]rune, 0, to-from)
	for _, u := range self.units[from:to] {
		runes = append(runes, rune(u))
	}
	return string(runes)
}

func (self *Source) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(self.units) {
		return len(self.units)
	}
	return offset
}

// Location converts an offset into a line and column. Lines end at "\n",
// "\r\n" or a lone "\r".
func (self *Source) Location(offset int) idl.Location {
	offset = self.clamp(offset)
	line := int32(1)
	start := 0
	for x := 0; x < offset; x = x + 1 {
		switch self.units[x] {
		case '\n':
			line = line + 1
			start = x + 1
		case '\r':
			if x+1 < len(self.units) && self.units[x+1] == '\n' {
				continue
			}
			line = line + 1
			start = x + 1
		}
	}
	return idl.Location{
		Line:   line,
		Column: int32(offset-start) + 1,
		Offset: int64(offset),
	}
}

// Fail records that something described by label was expected at offset.
// Only the labels at the furthest offset are retained.
func (self *Source) Fail(offset int, label string) {
	switch {
	case offset > self.furthest:
		self.furthest = offset
		self.expected = map[string]struct{}{label: {}}
	case offset == self.furthest:
		self.expected[label] = struct{}{}
	}
}

// Furthest returns the furthest offset at which a failure was recorded and
// the sorted set of labels expected there. The offset is -1 if nothing
// failed.
func (self *Source) Furthest() (int, []string) {
	labels := make([]string, 0, len(self.expected))
	for label := range self.expected {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return self.furthest, labels
}

// Enter is called on entry to a named rule at offset. It returns false once
// the depth limit has been exceeded; from then on every call returns false so
// the whole parse unwinds quickly.
func (self *Source) Enter(offset int) bool {
	if self.exceeded {
		return false
	}
	if self.maxDepth > 0 && self.depth >= self.maxDepth {
		self.exceeded = true
		self.exceededAt = self.clamp(offset)
		return false
	}
	self.depth = self.depth + 1
	return true
}

// Leave undoes a successful Enter.
func (self *Source) Leave() {
	self.depth = self.depth - 1
}

// Depth returns the current rule nesting depth.
func (self *Source) Depth() int {
	return self.depth
}

// DepthExceeded reports whether the depth limit was hit during the parse.
func (self *Source) DepthExceeded() bool {
	return self.exceeded
}

// ExceededAt returns the offset of the rule application that first went past
// the depth limit. It is only meaningful when DepthExceeded is true.
func (self *Source) ExceededAt() int {
	return self.exceededAt
}

// MaxDepth returns the configured depth limit, zero when unlimited.
func (self *Source) MaxDepth() int {
	return self.maxDepth
}

// Logger returns the trace logger, or nil when tracing is off.
func (self *Source) Logger() logrus.FieldLogger {
	return self.logger
}

type memoKey struct {
	rule   any
	offset int
}

// Recall returns the result stored for rule at offset. rule is any comparable
// value identifying a named rule, usually a pointer.
func (self *Source) Recall(rule any, offset int) (any, bool) {
	if self.memo == nil {
		return nil, false
	}
	v, ok := self.memo[memoKey{rule: rule, offset: offset}]
	return v, ok
}

// Remember stores the result of rule at offset. It does nothing when
// memoization is off.
func (self *Source) Remember(rule any, offset int, result any) {
	if self.memo == nil {
		return
	}
	self.memo[memoKey{rule: rule, offset: offset}] = result
}
