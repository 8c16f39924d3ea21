// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

func (self *grammar) resources() {
	self.define("resourcePath", alt(
		cat(keyword("$all"), opt(cat(slash, self.ref("qualifiedName")))),
		cat(
			keyword("$crossjoin"),
			lparen, list(self.ref("odataIdentifier"), comma), rparen,
		),
		list(self.ref("pathSegment"), slash),
	))

	// Without service metadata a parenthesised group of name=value pairs
	// after a plain name reads as a compound key and after a qualified name
	// as the parameters of a bound function.
	self.define("pathSegment", alt(
		self.ref("pathKeyword"),
		cat(
			self.ref("qualifiedName"),
			opt(alt(self.ref("functionParameters"), self.ref("keyPredicate"))),
			opt(self.ref("keyPredicate")),
		),
		cat(
			self.ref("odataIdentifier"),
			opt(alt(self.ref("keyPredicate"), self.ref("functionParameters"))),
			opt(self.ref("keyPredicate")),
		),
	))
	self.define("pathKeyword", alt(
		keyword("$count"),
		keyword("$ref"),
		keyword("$value"),
		keyword("$each"),
	))

	keyValue := alt(self.ref("parameterAlias"), self.ref("primitiveLiteral"))
	self.define("keyPredicate", alt(self.ref("compoundKey"), self.ref("simpleKey")))
	self.define("simpleKey", cat(lparen, keyValue, rparen))
	self.define("compoundKey", cat(lparen, list(self.ref("keyValuePair"), comma), rparen))
	self.define("keyValuePair", cat(self.ref("odataIdentifier"), eqSign, keyValue))
	self.define("functionParameters", cat(
		lparen,
		opt(list(self.ref("functionParameter"), comma)),
		rparen,
	))
	self.define("functionParameter", cat(self.ref("odataIdentifier"), eqSign, keyValue))
}
