// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"strings"
	"unicode"

	"gopkg.microglot.org/odata.go/internal/idl"
)

func isSearchWordChar(cp idl.CodePoint) bool {
	r := rune(cp)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.~!$*+:@/?'", r)
}

var (
	// Percent-encoded whitespace, quotes and parentheses delimit words.
	searchDelimiter = alt(lit("%20"), lit("%09"), lit("%22"), lit("%28"), lit("%29"))
	searchWordChar  = alt(class("search word", isSearchWordChar), cat(not(searchDelimiter), pctEncoded))
	searchOperator  = cat(alt(exact("AND"), exact("OR"), exact("NOT")), not(searchWordChar))
)

// search defines the $search expression language. Operators are upper case
// and adjacent terms are implicitly joined with AND.
func (self *grammar) search() {
	self.define("search", cat(optionName("search"), bws, self.ref("searchExpr")))
	self.define("searchExpr", cat(
		alt(
			cat(lparen, bws, self.ref("searchExpr"), bws, rparen),
			self.ref("searchTerm"),
		),
		opt(alt(self.ref("searchOrExpr"), self.ref("searchAndExpr"))),
	))
	self.define("searchOrExpr", cat(rws, exact("OR"), rws, self.ref("searchExpr")))
	self.define("searchAndExpr", cat(rws, opt(cat(exact("AND"), rws)), self.ref("searchExpr")))
	self.define("searchTerm", cat(
		opt(cat(self.ref("searchNot"), rws)),
		alt(self.ref("searchPhrase"), self.ref("searchWord")),
	))
	self.define("searchNot", exact("NOT"))
	self.define("searchPhrase", cat(dquote, many1(alt(qcharNoAmpDquote, ch(' '))), dquote))
	self.define("searchWord", cat(not(searchOperator), many1(searchWordChar)))
}
