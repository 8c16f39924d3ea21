// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/parse"
)

var (
	year = cat(
		opt(ch('-')),
		alt(cat(ch('0'), rep(digit, 3, 3)), cat(oneToNine, rep(digit, 3, parse.Unbounded))),
	)
	month = alt(cat(ch('0'), oneToNine), cat(ch('1'), set("month", "012")))
	day   = alt(
		cat(ch('0'), oneToNine),
		cat(set("day", "12"), digit),
		cat(ch('3'), set("day", "01")),
	)
	hour              = alt(cat(set("hour", "01"), digit), cat(ch('2'), set("hour", "0123")))
	zeroToFiftyNine   = cat(term(parse.Range("DIGIT", '0', '5')), digit)
	fractionalSeconds = rep(digit, 1, 12)

	base64char = class("base64url", func(cp idl.CodePoint) bool {
		return isAlpha(cp) || isDigit(cp) || cp == '-' || cp == '_'
	})
	base64b16 = cat(rep(base64char, 2, 2), set("base64url", "AEIMQUYcgkosw048"), opt(ch('=')))
	base64b8  = cat(base64char, set("base64url", "AQgw"), opt(lit("==")))

	durationValue = cat(
		opt(sign),
		lit("P"),
		opt(cat(digits, lit("D"))),
		opt(cat(
			lit("T"),
			opt(cat(digits, lit("H"))),
			opt(cat(digits, lit("M"))),
			opt(cat(digits, opt(cat(ch('.'), digits)), lit("S"))),
		)),
	)
)

func (self *grammar) literals() {
	self.define("primitiveLiteral", alt(
		self.ref("nullValue"),
		self.ref("booleanValue"),
		self.ref("guidValue"),
		self.ref("dateTimeOffsetValue"),
		self.ref("dateValue"),
		self.ref("timeOfDayValue"),
		self.ref("decimalValue"),
		self.ref("string"),
		self.ref("duration"),
		self.ref("enum"),
		self.ref("binary"),
	))

	self.define("nullValue", keyword("null"))
	self.define("booleanValue", alt(keyword("true"), keyword("false")))
	self.define("guidValue", cat(
		rep(hexdig, 8, 8), ch('-'),
		rep(hexdig, 4, 4), ch('-'),
		rep(hexdig, 4, 4), ch('-'),
		rep(hexdig, 4, 4), ch('-'),
		rep(hexdig, 12, 12),
		not(hexdig),
	))
	self.define("dateValue", cat(year, ch('-'), month, ch('-'), day, not(digit)))
	self.define("timeOfDayValue", cat(
		hour, colon, zeroToFiftyNine,
		opt(cat(colon, zeroToFiftyNine, opt(cat(ch('.'), fractionalSeconds)))),
		not(digit),
	))
	self.define("dateTimeOffsetValue", cat(
		year, ch('-'), month, ch('-'), day,
		lit("T"),
		hour, colon, zeroToFiftyNine,
		opt(cat(colon, zeroToFiftyNine, opt(cat(ch('.'), fractionalSeconds)))),
		alt(lit("Z"), cat(sign, hour, colon, zeroToFiftyNine)),
	))
	self.define("decimalValue", alt(
		cat(
			opt(sign),
			digits,
			opt(cat(ch('.'), digits)),
			opt(cat(lit("e"), opt(sign), digits)),
		),
		cat(alt(exact("NaN"), exact("-INF"), exact("INF")), endOfWord),
	))
	// Quotes inside a string are doubled. Literal spaces are accepted as well
	// as %20 so that unencoded URIs typed by hand still parse.
	self.define("string", cat(
		squote,
		many(alt(cat(squote, squote), pcharNoSquote, ch(' '))),
		squote,
	))
	self.define("duration", cat(opt(lit("duration")), squote, durationValue, squote))
	self.define("enum", cat(
		self.ref("qualifiedName"),
		squote,
		list(self.ref("enumMember"), comma),
		squote,
	))
	self.define("enumMember", alt(self.ref("odataIdentifier"), cat(opt(ch('-')), digits)))
	self.define("binary", cat(
		lit("binary"),
		squote,
		many(rep(base64char, 4, 4)),
		opt(alt(base64b16, base64b8)),
		squote,
	))
}
