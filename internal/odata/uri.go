// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

import (
	"gopkg.microglot.org/odata.go/internal/idl"
)

func isIPLiteralChar(cp idl.CodePoint) bool {
	return isHex(cp) || cp == ':' || cp == '.'
}

func (self *grammar) uris() {
	self.define("odataUri", cat(self.ref("serviceRoot"), opt(self.ref("odataRelativeUri"))))

	// The service root takes every complete "segment/" it can, so the
	// relative URI is whatever follows the last slash before the query.
	self.define("serviceRoot", cat(
		alt(lit("https"), lit("http")),
		lit("://"),
		self.ref("host"),
		opt(cat(ch(':'), self.ref("port"))),
		slash,
		many(cat(segmentNz, slash)),
	))
	self.define("host", alt(
		cat(ch('['), many1(class("IP literal", isIPLiteralChar)), ch(']')),
		many(alt(unreserved, pctEncoded, subDelims)),
	))
	self.define("port", many(digit))

	query := cat(ch('?'), self.ref("queryOptions"))
	self.define("odataRelativeUri", alt(
		cat(keyword("$batch"), opt(query)),
		cat(keyword("$entity"), opt(cat(slash, self.ref("qualifiedName"))), query),
		cat(keyword("$metadata"), opt(query), opt(cat(ch('#'), self.ref("context")))),
		cat(self.ref("resourcePath"), opt(cat(ch('?'), opt(self.ref("queryOptions"))))),
	))
	self.define("context", many(alt(pchar, slash, ch('?'))))
}
