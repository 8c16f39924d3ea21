// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package odata is a grammar for OData 4.01 URLs written with the parse
// combinators. It covers service roots, resource paths with key predicates
// and function parameters, system query options, the $filter expression
// language, $search, and primitive literals.
//
// Every named rule produces a Node; see Rules for the list. The grammar is
// built once and is safe for concurrent use.
package odata

import (
	"fmt"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/parse"
)

const (
	RuleURI     = "odataUri"
	RuleFilter  = "boolCommonExpr"
	RuleLiteral = "primitiveLiteral"
	RuleQuery   = "queryOptions"
)

var rules = newGrammar()

// Rules returns the names of every rule, sorted.
func Rules() []string {
	return rules.names()
}

// Lookup returns the parser for a named rule.
func Lookup(name string) (parse.Parser[*Node], bool) {
	return rules.lookup(name)
}

// Parse matches all of input against the named rule.
func Parse(rule string, input string, options ...cursor.Option) (*Node, error) {
	return ParseSource(rule, cursor.New(input, options...))
}

// ParseSource matches all of an already decoded source against the named
// rule.
func ParseSource(rule string, src *cursor.Source) (*Node, error) {
	p, ok := rules.lookup(rule)
	if !ok {
		return nil, exc.New(exc.Location{}, exc.CodeUnknownRule, fmt.Sprintf("unknown rule %q", rule))
	}
	return parse.Complete(p, src)
}

// ParseURI parses an absolute OData URL.
func ParseURI(input string, options ...cursor.Option) (*Node, error) {
	return Parse(RuleURI, input, options...)
}

// ParseFilter parses a boolean expression as used by $filter.
func ParseFilter(input string, options ...cursor.Option) (*Node, error) {
	return Parse(RuleFilter, input, options...)
}

// ParseLiteral parses a primitive literal such as 42, 'text' or a date.
func ParseLiteral(input string, options ...cursor.Option) (*Node, error) {
	return Parse(RuleLiteral, input, options...)
}

// ParseQuery parses the query part of a URL, without the leading "?".
func ParseQuery(input string, options ...cursor.Option) (*Node, error) {
	return Parse(RuleQuery, input, options...)
}
