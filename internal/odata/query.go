// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

// optionName matches the name of a system query option followed by "=". The
// leading "$" is optional and names are case-insensitive.
func optionName(name string) syntax {
	return cat(opt(ch('$')), lit(name), eqSign)
}

var (
	mediaTypeChar = alt(unreserved, pctEncoded, otherDelims, set("media type", ":@$="))
)

func (self *grammar) queryOptions() {
	self.define("queryOptions", list(self.ref("queryOption"), amp))
	self.define("queryOption", alt(
		self.ref("systemQueryOption"),
		self.ref("aliasAndValue"),
		self.ref("customQueryOption"),
	))
	self.define("systemQueryOption", alt(
		self.ref("filter"),
		self.ref("orderby"),
		self.ref("select"),
		self.ref("expand"),
		self.ref("top"),
		self.ref("skiptoken"),
		self.ref("skip"),
		self.ref("index"),
		self.ref("count"),
		self.ref("search"),
		self.ref("format"),
		self.ref("deltatoken"),
		self.ref("levels"),
		self.ref("id"),
	))

	self.define("filter", cat(optionName("filter"), self.ref("boolCommonExpr")))
	self.define("orderby", cat(optionName("orderby"), list(self.ref("orderbyItem"), comma)))
	self.define("orderbyItem", cat(
		self.ref("commonExpr"),
		opt(cat(rws, self.ref("orderDirection"))),
	))
	self.define("orderDirection", alt(keyword("asc"), keyword("desc")))
	self.define("top", cat(optionName("top"), digits))
	self.define("skip", cat(optionName("skip"), digits))
	self.define("index", cat(optionName("index"), opt(ch('-')), digits))
	self.define("count", cat(optionName("count"), self.ref("booleanValue")))
	self.define("levels", cat(optionName("levels"), alt(digits, keyword("max"))))
	self.define("format", cat(optionName("format"), alt(
		cat(many1(mediaTypeChar), slash, many1(mediaTypeChar)),
		keyword("atom"),
		keyword("json"),
		keyword("xml"),
	)))
	self.define("skiptoken", cat(optionName("skiptoken"), many1(qcharNoAmp)))
	self.define("deltatoken", cat(optionName("deltatoken"), many1(qcharNoAmp)))
	self.define("id", cat(optionName("id"), many1(qcharNoAmp)))

	self.define("select", cat(optionName("select"), list(self.ref("selectItem"), comma)))
	self.define("selectItem", alt(
		star,
		self.ref("allOperationsInSchema"),
		cat(self.ref("selectPath"), opt(cat(lparen, self.ref("selectOptions"), rparen))),
	))
	self.define("allOperationsInSchema", cat(self.ref("namespace"), ch('.'), star))
	self.define("selectPath", list(alt(self.ref("qualifiedName"), self.ref("odataIdentifier")), slash))
	self.define("selectOptions", list(alt(
		self.ref("filter"),
		self.ref("search"),
		self.ref("orderby"),
		self.ref("skip"),
		self.ref("top"),
		self.ref("count"),
		self.ref("select"),
	), semi))

	self.define("expand", cat(optionName("expand"), list(self.ref("expandItem"), comma)))
	self.define("expandItem", alt(
		cat(star, opt(alt(
			cat(slash, lit("$ref")),
			cat(lparen, self.ref("levels"), rparen),
		))),
		keyword("$value"),
		cat(self.ref("expandPath"), opt(alt(
			cat(slash, lit("$ref"), opt(cat(lparen, self.ref("expandOptions"), rparen))),
			cat(slash, lit("$count"), opt(cat(lparen, self.ref("expandOptions"), rparen))),
			cat(lparen, self.ref("expandOptions"), rparen),
		))),
	))
	self.define("expandPath", cat(
		opt(cat(self.ref("qualifiedName"), slash)),
		self.ref("odataIdentifier"),
		many(cat(slash, alt(self.ref("qualifiedName"), self.ref("odataIdentifier")))),
	))
	self.define("expandOptions", list(alt(
		self.ref("filter"),
		self.ref("search"),
		self.ref("orderby"),
		self.ref("skip"),
		self.ref("top"),
		self.ref("count"),
		self.ref("select"),
		self.ref("expand"),
		self.ref("levels"),
	), semi))

	self.define("aliasAndValue", cat(self.ref("parameterAlias"), eqSign, self.ref("commonExpr")))
	self.define("customQueryOption", cat(
		self.ref("customName"),
		opt(cat(eqSign, self.ref("customValue"))),
	))
	self.define("customName", cat(qcharNoAmpEqAtDollar, many(qcharNoAmpEq)))
	self.define("customValue", many(qcharNoAmp))
}
