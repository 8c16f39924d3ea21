// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"fmt"
	"sort"

	"gopkg.microglot.org/odata.go/internal/parse"
)

// grammar is the set of named rules. Rules are declared on first reference and
// defined later, so definitions may appear in any order and refer to each
// other cyclically.
type grammar struct {
	rules map[string]*parse.Rule[*Node]
}

func newGrammar() *grammar {
	g := &grammar{
		rules: make(map[string]*parse.Rule[*Node]),
	}
	g.identifiers()
	g.literals()
	g.expressions()
	g.methods()
	g.queryOptions()
	g.search()
	g.resources()
	g.uris()
	g.verify()
	return g
}

func (self *grammar) rule(name string) *parse.Rule[*Node] {
	r, ok := self.rules[name]
	if !ok {
		r = parse.NewRule[*Node](name)
		self.rules[name] = r
	}
	return r
}

func (self *grammar) ref(name string) syntax {
	return node(self.rule(name).Parser())
}

// define binds a rule to its body. The rule's node spans everything the body
// matched and adopts the nodes the body produced as children.
func (self *grammar) define(name string, body syntax) {
	self.rule(name).Define(parse.Map(parse.Spanned(body), func(s parse.Span[[]*Node]) *Node {
		return &Node{
			Kind:     name,
			Start:    s.Start.Offset(),
			End:      s.End.Offset(),
			Text:     s.Text(),
			Children: s.Value,
		}
	}))
}

func (self *grammar) verify() {
	for name, r := range self.rules {
		if !r.Defined() {
			panic(fmt.Sprintf("odata: rule %s is referenced but never defined", name))
		}
	}
}

func (self *grammar) lookup(name string) (parse.Parser[*Node], bool) {
	r, ok := self.rules[name]
	if !ok {
		return nil, false
	}
	return r.Parser(), true
}

func (self *grammar) names() []string {
	names := make([]string, 0, len(self.rules))
	for name := range self.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
