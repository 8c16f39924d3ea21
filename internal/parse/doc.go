// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package parse implements a parser combinator kernel over code point input.
//
// A Parser is a plain function from a cursor.Cursor to a Result. Parsers carry
// no per-call state, so a grammar built from them can be defined once as
// package level values and shared freely between goroutines. All per-parse
// state lives in the cursor.Source being parsed.
//
// Every parser is total: it either succeeds and returns the cursor after what
// it matched, or it fails and returns the cursor it was given. Combinators
// rely on that to backtrack without bookkeeping. Alternation is ordered; the
// first alternative that matches wins, as in ABNF.
//
// Recursive grammars are written with Rule, which is declared first and
// defined later so that rules can refer to each other in any order.
//
// https://en.wikipedia.org/wiki/Parser_combinator
package parse
