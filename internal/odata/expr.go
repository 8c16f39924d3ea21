// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package odata

func (self *grammar) infix(name string, operator string, operand string) {
	self.define(name, cat(rws, lit(operator), rws, self.ref(operand)))
}

func (self *grammar) expressions() {
	commonExpr := self.ref("commonExpr")

	// Operators are matched in the flat form of the ABNF: an operand is
	// followed by at most one arithmetic, one comparison and one logical
	// operator, each of which takes the rest of the expression as its right
	// hand side.
	self.define("commonExpr", cat(
		alt(
			self.ref("primitiveLiteral"),
			self.ref("parameterAlias"),
			self.ref("rootExpr"),
			self.ref("methodCallExpr"),
			self.ref("castExpr"),
			self.ref("isofExpr"),
			self.ref("notExpr"),
			self.ref("negateExpr"),
			self.ref("parenExpr"),
			self.ref("listExpr"),
			self.ref("firstMemberExpr"),
		),
		opt(alt(
			self.ref("addExpr"),
			self.ref("subExpr"),
			self.ref("mulExpr"),
			self.ref("divExpr"),
			self.ref("divbyExpr"),
			self.ref("modExpr"),
		)),
		opt(alt(
			self.ref("eqExpr"),
			self.ref("neExpr"),
			self.ref("ltExpr"),
			self.ref("leExpr"),
			self.ref("gtExpr"),
			self.ref("geExpr"),
			self.ref("hasExpr"),
			self.ref("inExpr"),
		)),
		opt(alt(
			self.ref("andExpr"),
			self.ref("orExpr"),
		)),
	))
	self.define("boolCommonExpr", commonExpr)

	self.infix("addExpr", "add", "commonExpr")
	self.infix("subExpr", "sub", "commonExpr")
	self.infix("mulExpr", "mul", "commonExpr")
	self.infix("divExpr", "div", "commonExpr")
	self.infix("divbyExpr", "divby", "commonExpr")
	self.infix("modExpr", "mod", "commonExpr")
	self.infix("eqExpr", "eq", "commonExpr")
	self.infix("neExpr", "ne", "commonExpr")
	self.infix("ltExpr", "lt", "commonExpr")
	self.infix("leExpr", "le", "commonExpr")
	self.infix("gtExpr", "gt", "commonExpr")
	self.infix("geExpr", "ge", "commonExpr")
	self.infix("hasExpr", "has", "commonExpr")
	self.infix("inExpr", "in", "commonExpr")
	self.infix("andExpr", "and", "boolCommonExpr")
	self.infix("orExpr", "or", "boolCommonExpr")

	self.define("notExpr", cat(lit("not"), rws, self.ref("boolCommonExpr")))
	self.define("negateExpr", cat(ch('-'), bws, commonExpr))
	self.define("parenExpr", cat(lparen, bws, commonExpr, bws, rparen))
	self.define("listExpr", cat(
		lparen, bws,
		opt(list(commonExpr, cat(bws, comma, bws))),
		bws, rparen,
	))

	self.define("castExpr", self.typeTest("cast"))
	self.define("isofExpr", self.typeTest("isof"))
	self.define("qualifiedTypeName", alt(
		cat(lit("Collection"), lparen, self.ref("qualifiedName"), rparen),
		self.ref("qualifiedName"),
	))

	self.define("rootExpr", cat(
		lit("$root/"),
		self.ref("odataIdentifier"),
		opt(self.ref("keyPredicate")),
		opt(cat(slash, self.ref("memberPath"))),
	))
	self.define("implicitVariableExpr", alt(keyword("$it"), keyword("$this")))
	self.define("firstMemberExpr", alt(
		cat(self.ref("implicitVariableExpr"), opt(cat(slash, self.ref("memberPath")))),
		self.ref("memberPath"),
	))
	self.define("memberPath", list(self.ref("memberSegment"), slash))
	self.define("memberSegment", alt(
		keyword("$count"),
		self.ref("anyExpr"),
		self.ref("allExpr"),
		cat(self.ref("qualifiedName"), opt(self.ref("functionExprParameters"))),
		cat(self.ref("odataIdentifier"), opt(alt(self.ref("functionExprParameters"), self.ref("keyPredicate")))),
	))
	self.define("anyExpr", cat(
		lit("any"), lparen, bws,
		opt(cat(self.ref("lambdaVariableExpr"), bws, colon, bws, self.ref("lambdaPredicateExpr"))),
		bws, rparen,
	))
	self.define("allExpr", cat(
		lit("all"), lparen, bws,
		self.ref("lambdaVariableExpr"), bws, colon, bws, self.ref("lambdaPredicateExpr"),
		bws, rparen,
	))
	self.define("lambdaVariableExpr", self.ref("odataIdentifier"))
	self.define("lambdaPredicateExpr", self.ref("boolCommonExpr"))
	self.define("functionExprParameters", cat(
		lparen,
		opt(list(self.ref("functionExprParameter"), comma)),
		rparen,
	))
	self.define("functionExprParameter", cat(
		self.ref("odataIdentifier"),
		eqSign,
		alt(self.ref("parameterAlias"), commonExpr),
	))
}

// typeTest builds cast and isof: the expression argument is optional and
// defaults to the current instance.
func (self *grammar) typeTest(name string) syntax {
	return cat(
		lit(name), lparen, bws,
		opt(cat(self.ref("commonExpr"), bws, comma, bws)),
		self.ref("qualifiedTypeName"),
		bws, rparen,
	)
}

type method struct {
	rule string
	name string
	min  int
	max  int
}

var builtinMethods = []method{
	{rule: "containsMethodCallExpr", name: "contains", min: 2, max: 2},
	{rule: "startsWithMethodCallExpr", name: "startswith", min: 2, max: 2},
	{rule: "endsWithMethodCallExpr", name: "endswith", min: 2, max: 2},
	{rule: "lengthMethodCallExpr", name: "length", min: 1, max: 1},
	{rule: "indexOfMethodCallExpr", name: "indexof", min: 2, max: 2},
	{rule: "substringMethodCallExpr", name: "substring", min: 2, max: 3},
	{rule: "matchesPatternMethodCallExpr", name: "matchesPattern", min: 2, max: 2},
	{rule: "toLowerMethodCallExpr", name: "tolower", min: 1, max: 1},
	{rule: "toUpperMethodCallExpr", name: "toupper", min: 1, max: 1},
	{rule: "trimMethodCallExpr", name: "trim", min: 1, max: 1},
	{rule: "concatMethodCallExpr", name: "concat", min: 2, max: 2},
	{rule: "yearMethodCallExpr", name: "year", min: 1, max: 1},
	{rule: "monthMethodCallExpr", name: "month", min: 1, max: 1},
	{rule: "dayMethodCallExpr", name: "day", min: 1, max: 1},
	{rule: "hourMethodCallExpr", name: "hour", min: 1, max: 1},
	{rule: "minuteMethodCallExpr", name: "minute", min: 1, max: 1},
	{rule: "secondMethodCallExpr", name: "second", min: 1, max: 1},
	{rule: "fractionalSecondsMethodCallExpr", name: "fractionalseconds", min: 1, max: 1},
	{rule: "totalSecondsMethodCallExpr", name: "totalseconds", min: 1, max: 1},
	{rule: "dateMethodCallExpr", name: "date", min: 1, max: 1},
	{rule: "timeMethodCallExpr", name: "time", min: 1, max: 1},
	{rule: "totalOffsetMinutesMethodCallExpr", name: "totaloffsetminutes", min: 1, max: 1},
	{rule: "minDateTimeMethodCallExpr", name: "mindatetime", min: 0, max: 0},
	{rule: "maxDateTimeMethodCallExpr", name: "maxdatetime", min: 0, max: 0},
	{rule: "nowMethodCallExpr", name: "now", min: 0, max: 0},
	{rule: "roundMethodCallExpr", name: "round", min: 1, max: 1},
	{rule: "floorMethodCallExpr", name: "floor", min: 1, max: 1},
	{rule: "ceilingMethodCallExpr", name: "ceiling", min: 1, max: 1},
	{rule: "distanceMethodCallExpr", name: "geo.distance", min: 2, max: 2},
	{rule: "geoLengthMethodCallExpr", name: "geo.length", min: 1, max: 1},
	{rule: "intersectsMethodCallExpr", name: "geo.intersects", min: 2, max: 2},
	{rule: "hasSubsetMethodCallExpr", name: "hassubset", min: 2, max: 2},
	{rule: "hasSubsequenceMethodCallExpr", name: "hassubsequence", min: 2, max: 2},
}

// methods defines one rule per built-in function. Arity is part of the
// grammar, so a call with the wrong number of arguments does not parse.
func (self *grammar) methods() {
	calls := make([]syntax, 0, len(builtinMethods))
	for _, m := range builtinMethods {
		var args syntax
		if m.max == 0 {
			args = bws
		} else {
			next := cat(bws, comma, bws, self.ref("commonExpr"))
			args = cat(bws, self.ref("commonExpr"), rep(next, m.min-1, m.max-1), bws)
		}
		self.define(m.rule, cat(lit(m.name), lparen, args, rparen))
		calls = append(calls, self.ref(m.rule))
	}
	self.define("methodCallExpr", alt(calls...))
}
