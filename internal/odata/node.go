// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"strings"
)

// Node is the concrete syntax tree produced by a named grammar rule. Start and
// End are code point offsets into the parsed input. Children holds the nodes
// of the named rules matched inside this one, in input order.
type Node struct {
	Kind     string
	Start    int
	End      int
	Text     string
	Children []*Node
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (self *Node) Walk(fn func(*Node) bool) {
	if self == nil || !fn(self) {
		return
	}
	for _, child := range self.Children {
		child.Walk(fn)
	}
}

// Find returns every node of the given kind, outermost first.
func (self *Node) Find(kind string) []*Node {
	var found []*Node
	self.Walk(func(n *Node) bool {
		if n.Kind == kind {
			found = append(found, n)
		}
		return true
	})
	return found
}

// First returns the first node of the given kind or nil.
func (self *Node) First(kind string) *Node {
	found := self.Find(kind)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// String renders the tree as an s-expression of rule names, leaves shown with
// their text. It is meant for tests and debugging.
func (self *Node) String() string {
	var b strings.Builder
	self.write(&b)
	return b.String()
}

func (self *Node) write(b *strings.Builder) {
	if self == nil {
		b.WriteString("()")
		return
	}
	b.WriteString("(")
	b.WriteString(self.Kind)
	if len(self.Children) == 0 {
		b.WriteString(" ")
		b.WriteString(quoteText(self.Text))
	}
	for _, child := range self.Children {
		b.WriteString(" ")
		child.write(b)
	}
	b.WriteString(")")
}

func quoteText(text string) string {
	return "\"" + strings.ReplaceAll(text, "\"", "\\\"") + "\""
}
