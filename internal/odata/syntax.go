// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/optional"
	"gopkg.microglot.org/odata.go/internal/parse"
)

// syntax is the parser shape every grammar fragment shares: the nodes of the
// named rules it matched, in order. Fragments that are not named rules match
// input but contribute no nodes of their own.
type syntax = parse.Parser[[]*Node]

func term[T any](p parse.Parser[T]) syntax {
	return parse.Map(p, func(T) []*Node {
		return nil
	})
}

func node(p parse.Parser[*Node]) syntax {
	return parse.Map(p, func(n *Node) []*Node {
		return []*Node{n}
	})
}

func ch(r rune) syntax {
	return term(parse.Char(r))
}

func set(label string, chars string) syntax {
	return term(parse.CharIn(label, chars))
}

func class(label string, pred func(idl.CodePoint) bool) syntax {
	return term(parse.Satisfy(label, pred))
}

// lit matches text case-insensitively, as ABNF quoted strings do.
func lit(text string) syntax {
	return term(parse.LiteralFold(text))
}

func exact(text string) syntax {
	return term(parse.Literal(text))
}

func cat(parts ...syntax) syntax {
	return parse.Map(parse.Seq(parts...), flatten)
}

func alt(parts ...syntax) syntax {
	return parse.Choice(parts...)
}

func opt(p syntax) syntax {
	return parse.Map(parse.Optional(p), func(o optional.Optional[[]*Node]) []*Node {
		return o.ValueOr(nil)
	})
}

func rep(p syntax, min int, max int) syntax {
	return parse.Map(parse.Repeat(p, min, max), flatten)
}

func many(p syntax) syntax {
	return rep(p, 0, parse.Unbounded)
}

func many1(p syntax) syntax {
	return rep(p, 1, parse.Unbounded)
}

func not(p syntax) syntax {
	return term(parse.Not(p))
}

// list matches one or more p separated by sep.
func list(p syntax, sep syntax) syntax {
	return cat(p, many(cat(sep, p)))
}

func flatten(parts [][]*Node) []*Node {
	var out []*Node
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
