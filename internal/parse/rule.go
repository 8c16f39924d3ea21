// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"gopkg.microglot.org/odata.go/internal/cursor"
)

// Rule is a named parser that may be referenced before it is defined. Rules
// are how recursive and mutually recursive grammars are written: declare every
// rule with NewRule, refer to them through Parser, and then Define each one.
//
// Each application of a rule counts against the depth limit of the source
// being parsed. The result of a rule at an offset is cached on the source, so
// a rule is evaluated at most once per offset in a parse.
type Rule[T any] struct {
	name string
	body atomic.Pointer[Parser[T]]
}

func NewRule[T any](name string) *Rule[T] {
	return &Rule[T]{name: name}
}

func (self *Rule[T]) Name() string {
	return self.name
}

// Define binds the body of the rule. A rule can only be defined once.
func (self *Rule[T]) Define(p Parser[T]) {
	if !self.body.CompareAndSwap(nil, &p) {
		panic(fmt.Sprintf("parse: rule %s defined twice", self.name))
	}
}

// Defined reports whether Define has been called.
func (self *Rule[T]) Defined() bool {
	return self.body.Load() != nil
}

// Parser returns the rule as a Parser. The body is looked up on every call so
// the result may be taken before Define runs.
func (self *Rule[T]) Parser() Parser[T] {
	return self.Parse
}

// Parse applies the rule at c.
func (self *Rule[T]) Parse(c cursor.Cursor) Result[T] {
	body := self.body.Load()
	if body == nil {
		panic(fmt.Sprintf("parse: rule %s used before it was defined", self.name))
	}
	src := c.Source()
	if src == nil {
		return (*body)(c)
	}
	if cached, ok := src.Recall(self, c.Offset()); ok {
		return cached.(Result[T])
	}
	if !src.Enter(c.Offset()) {
		c.Fail(self.name)
		return Failure[T](c)
	}
	logger := src.Logger()
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"rule":   self.name,
			"offset": c.Offset(),
			"depth":  src.Depth(),
		}).Debug("enter")
	}
	r := (*body)(c)
	src.Leave()
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"rule":     self.name,
			"offset":   c.Offset(),
			"ok":       r.OK,
			"consumed": r.Consumed(c),
		}).Debug("leave")
	}
	if !r.OK {
		r = Failure[T](c)
	}
	src.Remember(self, c.Offset(), r)
	return r
}
