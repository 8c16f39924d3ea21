// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"strings"
	"unicode"

	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/parse"
)

func isAlpha(cp idl.CodePoint) bool {
	return (cp >= 'a' && cp <= 'z') || (cp >= 'A' && cp <= 'Z')
}

func isDigit(cp idl.CodePoint) bool {
	return cp >= '0' && cp <= '9'
}

func isHex(cp idl.CodePoint) bool {
	return isDigit(cp) || (cp >= 'a' && cp <= 'f') || (cp >= 'A' && cp <= 'F')
}

func isUnreserved(cp idl.CodePoint) bool {
	return isAlpha(cp) || isDigit(cp) || strings.ContainsRune("-._~", rune(cp))
}

// Identifiers may use any Unicode letter, including letter numbers, and
// continue with marks, digits and connector punctuation.
var (
	identifierLeading  = []*unicode.RangeTable{unicode.L, unicode.Nl}
	identifierTrailing = []*unicode.RangeTable{
		unicode.L, unicode.Nl, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Cf,
	}
)

func isIdentifierLeading(cp idl.CodePoint) bool {
	return cp == '_' || unicode.IsOneOf(identifierLeading, rune(cp))
}

func isIdentifierChar(cp idl.CodePoint) bool {
	return cp == '_' || unicode.IsOneOf(identifierTrailing, rune(cp))
}

var (
	alpha     = class("ALPHA", isAlpha)
	digit     = class("DIGIT", isDigit)
	hexdig    = class("HEXDIG", isHex)
	digits    = many1(digit)
	oneToNine = term(parse.Range("DIGIT", '1', '9'))

	pctEncoded = cat(ch('%'), hexdig, hexdig)
	unreserved = class("unreserved", isUnreserved)
	subDelims  = set("sub-delims", "$&'()*+,;=")
	// other-delims is sub-delims without "$", "&", "'" and "=".
	otherDelims = set("other-delims", "!()*+,;")

	pctEncodedNoSquote = cat(not(lit("%27")), pctEncoded)
	pctEncodedNoDquote = cat(not(lit("%22")), pctEncoded)

	pchar         = alt(unreserved, pctEncoded, subDelims, set("pchar", ":@"))
	pcharNoSquote = alt(unreserved, pctEncodedNoSquote, otherDelims, set("pchar", "$&=:@"))
	segmentNz     = many1(pchar)

	qcharNoAmp           = alt(unreserved, pctEncoded, otherDelims, set("qchar", ":@/?$'="))
	qcharNoAmpDquote     = alt(unreserved, pctEncodedNoDquote, otherDelims, set("qchar", ":@/?$'="))
	qcharNoAmpEq         = alt(unreserved, pctEncoded, otherDelims, set("qchar", ":@/?$'"))
	qcharNoAmpEqAtDollar = alt(unreserved, pctEncoded, otherDelims, set("qchar", ":/?'"))

	identifierLeadingChar = class("identifier", isIdentifierLeading)
	identifierChar        = class("identifier", isIdentifierChar)
	endOfWord             = not(identifierChar)

	// Whitespace may be written literally or percent-encoded.
	space = alt(set("whitespace", " \t"), lit("%20"), lit("%09"))
	rws   = many1(space)
	bws   = many(space)

	lparen = alt(ch('('), lit("%28"))
	rparen = alt(ch(')'), lit("%29"))
	comma  = alt(ch(','), lit("%2C"))
	squote = alt(ch('\''), lit("%27"))
	dquote = alt(ch('"'), lit("%22"))
	colon  = alt(ch(':'), lit("%3A"))
	semi   = alt(ch(';'), lit("%3B"))
	star   = alt(ch('*'), lit("%2A"))
	atSign = alt(ch('@'), lit("%40"))
	sign   = alt(ch('+'), lit("%2B"), ch('-'))
	eqSign = ch('=')
	slash  = ch('/')
	amp    = ch('&')
)

// keyword matches a case-insensitive word that is not the prefix of a longer
// identifier.
func keyword(text string) syntax {
	return cat(lit(text), endOfWord)
}

func (self *grammar) identifiers() {
	// odataIdentifier is at most 128 characters.
	self.define("odataIdentifier", cat(identifierLeadingChar, rep(identifierChar, 0, 127)))
	self.define("qualifiedName", cat(self.ref("odataIdentifier"), many1(cat(ch('.'), self.ref("odataIdentifier")))))
	self.define("namespace", list(self.ref("odataIdentifier"), ch('.')))
	self.define("parameterAlias", cat(atSign, self.ref("odataIdentifier")))
}
