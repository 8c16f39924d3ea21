// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/optional"
)

var digit = Range("DIGIT", '0', '9')

var number = Map(Many1(digit), func(ds []idl.CodePoint) int {
	n := 0
	for _, d := range ds {
		n = n*10 + int(d-'0')
	}
	return n
})

func run[T any](p Parser[T], text string) (Result[T], cursor.Cursor) {
	start := cursor.New(text).Start()
	return p(start), start
}

func TestDigits(t *testing.T) {
	t.Parallel()

	digits := Many1(digit)
	r, _ := run(digits, "42x")
	require.True(t, r.OK)
	require.Equal(t, []idl.CodePoint{'4', '2'}, r.Value)
	require.Equal(t, 2, r.Rest.Offset())

	r, start := run(digits, "x42")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	n, _ := run(number, "42x")
	require.True(t, n.OK)
	require.Equal(t, 42, n.Value)
}

func TestPrimitives(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		parser   Parser[idl.CodePoint]
		input    string
		ok       bool
		expected idl.CodePoint
	}{
		{name: "char", parser: Char('a'), input: "abc", ok: true, expected: 'a'},
		{name: "char mismatch", parser: Char('a'), input: "Abc"},
		{name: "char fold", parser: CharFold('a'), input: "Abc", ok: true, expected: 'A'},
		{name: "range", parser: digit, input: "7", ok: true, expected: '7'},
		{name: "range outside", parser: digit, input: "a"},
		{name: "char in", parser: CharIn("sign", "+-"), input: "-1", ok: true, expected: '-'},
		{name: "any", parser: Any(), input: "名", ok: true, expected: '名'},
		{name: "any at end", parser: Any(), input: ""},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			r, start := run(testCase.parser, testCase.input)
			require.Equal(t, testCase.ok, r.OK)
			if !testCase.ok {
				require.Equal(t, start, r.Rest)
				return
			}
			require.Equal(t, testCase.expected, r.Value)
			require.Equal(t, 1, r.Consumed(start))
		})
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	r, _ := run(Literal("eq"), "eq 1")
	require.True(t, r.OK)
	require.Equal(t, "eq", r.Value)
	require.Equal(t, 2, r.Rest.Offset())

	r, start := run(Literal("eq"), "EQ")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, start = run(Literal("eq"), "e")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, _ = run(LiteralFold("eq"), "EQ")
	require.True(t, r.OK)
	require.Equal(t, "EQ", r.Value)

	r, _ = run(Literal(""), "abc")
	require.True(t, r.OK)
	require.Equal(t, 0, r.Rest.Offset())
}

func TestZeroCursorPrimitives(t *testing.T) {
	t.Parallel()

	var zero cursor.Cursor
	r := Literal("")(zero)
	require.True(t, r.OK)
	require.Equal(t, "", r.Value)
	require.Equal(t, zero, r.Rest)

	require.False(t, Literal("a")(zero).OK)
	require.True(t, End()(zero).OK)

	text := Text(Many(Char('a')))(zero)
	require.True(t, text.OK)
	require.Equal(t, "", text.Value)
}

func TestEnd(t *testing.T) {
	t.Parallel()

	r, _ := run(End(), "")
	require.True(t, r.OK)
	r, _ = run(End(), "a")
	require.False(t, r.OK)
	require.True(t, Matches(Left(Char('a'), End()), "a"))
}

func TestAlternationOrder(t *testing.T) {
	t.Parallel()

	p := Choice(Literal("a"), Literal("ab"))
	r, _ := run(p, "ab")
	require.True(t, r.OK)
	require.Equal(t, "a", r.Value)
	require.Equal(t, 1, r.Rest.Offset())
	require.False(t, Matches(p, "ab"), "ordered choice does not retry on trailing input")

	r, start := run(Choice[string](), "a")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	either, _ := run(Or(number, Literal("x")), "x")
	require.True(t, either.OK)
	require.True(t, either.Value.IsRight)
	require.Equal(t, "x", either.Value.Right)

	either, _ = run(Or(number, Literal("x")), "12")
	require.True(t, either.OK)
	require.False(t, either.Value.IsRight)
	require.Equal(t, 12, either.Value.Left)
}

func TestOrPrefersFirstMatch(t *testing.T) {
	t.Parallel()

	r, _ := run(Or(Char('a'), CharIn("a or b", "ab")), "a")
	require.True(t, r.OK)
	require.False(t, r.Value.IsRight)
	require.Equal(t, idl.CodePoint('a'), r.Value.Left)

	r, _ = run(Or(Char('a'), CharIn("a or b", "ab")), "b")
	require.True(t, r.OK)
	require.True(t, r.Value.IsRight)
	require.Equal(t, idl.CodePoint('b'), r.Value.Right)
}

func TestSequenceAtomicity(t *testing.T) {
	t.Parallel()

	p := Seq(Literal("a"), Literal("b"))
	r, start := run(p, "ac")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, _ = run(p, "abc")
	require.True(t, r.OK)
	require.Equal(t, []string{"a", "b"}, r.Value)
	require.Equal(t, 2, r.Rest.Offset())

	pair, start := run(Seq2(Literal("a"), number), "a1")
	require.True(t, pair.OK)
	require.Equal(t, Pair[string, int]{First: "a", Second: 1}, pair.Value)

	pair, start = run(Seq2(Literal("a"), number), "ab")
	require.False(t, pair.OK)
	require.Equal(t, start, pair.Rest)

	left, _ := run(Left(number, Char(';')), "3;")
	require.Equal(t, 3, left.Value)
	right, _ := run(Right(Char('-'), number), "-3")
	require.Equal(t, 3, right.Value)
	between, _ := run(Between(Char('('), number, Char(')')), "(9)")
	require.True(t, between.OK)
	require.Equal(t, 9, between.Value)
	require.Equal(t, 3, between.Rest.Offset())
}

func TestRepetitionBoundaries(t *testing.T) {
	t.Parallel()

	atLeastThree := Repeat(Char('a'), 3, Unbounded)
	r, _ := run(atLeastThree, "aaaa")
	require.True(t, r.OK)
	require.Len(t, r.Value, 4)
	require.Equal(t, 4, r.Rest.Offset())

	r, start := run(atLeastThree, "")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, start = run(atLeastThree, "aa")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, _ = run(Repeat(Char('a'), 1, 3), "aaaa")
	require.True(t, r.OK)
	require.Len(t, r.Value, 3)
	require.Equal(t, 3, r.Rest.Offset())

	r, start = run(Repeat(Char('a'), 1, 3), "")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, _ = run(Repeat(Char('a'), 0, 2), "aaa")
	require.True(t, r.OK)
	require.Equal(t, 2, r.Rest.Offset())

	r, _ = run(Many(Char('a')), "b")
	require.True(t, r.OK)
	require.Empty(t, r.Value)
	require.NotNil(t, r.Value)
	require.Equal(t, 0, r.Rest.Offset())

	r, _ = run(Times(Char('a'), 2), "aaa")
	require.True(t, r.OK)
	require.Equal(t, 2, r.Rest.Offset())

	r, _ = run(Many1(Char('a')), "b")
	require.False(t, r.OK)
}

func TestRepetitionZeroWidth(t *testing.T) {
	t.Parallel()

	r, _ := run(Many(Pure(1)), "abc")
	require.True(t, r.OK)
	require.Equal(t, []int{1}, r.Value)
	require.Equal(t, 0, r.Rest.Offset())

	r, _ = run(Repeat(Pure(1), 3, Unbounded), "abc")
	require.True(t, r.OK)
	require.Equal(t, []int{1, 1, 1}, r.Value)

	opt := Many(Optional(Char('a')))
	o, _ := run(opt, "aab")
	require.True(t, o.OK)
	require.Equal(t, 2, o.Rest.Offset())
}

func TestRepetitionInvalidBounds(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { Repeat(Char('a'), -1, 2) })
	require.Panics(t, func() { Repeat(Char('a'), 3, 2) })
	require.NotPanics(t, func() { Repeat(Char('a'), 0, 0) })
}

func TestOptional(t *testing.T) {
	t.Parallel()

	r, start := run(Optional(Char('a')), "b")
	require.True(t, r.OK)
	require.Equal(t, optional.None[idl.CodePoint](), r.Value)
	require.Equal(t, start, r.Rest)

	r, _ = run(Optional(Char('a')), "a")
	require.True(t, r.OK)
	require.Equal(t, optional.Some(idl.CodePoint('a')), r.Value)
	require.Equal(t, 1, r.Rest.Offset())

	r, _ = run(Optional(Char('a')), "")
	require.True(t, r.OK)
	require.False(t, r.Value.IsPresent())
}

func TestSepBy(t *testing.T) {
	t.Parallel()

	list := SepBy(number, Char(','), 1)
	r, _ := run(list, "1,22,3,")
	require.True(t, r.OK)
	require.Equal(t, []int{1, 22, 3}, r.Value)
	require.Equal(t, 6, r.Rest.Offset())

	r, start := run(list, ",1")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	r, _ = run(SepBy(number, Char(','), 0), "x")
	require.True(t, r.OK)
	require.Empty(t, r.Value)

	r, start = run(SepBy(number, Char(','), 3), "1,2")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)
}

func TestLookaround(t *testing.T) {
	t.Parallel()

	keyword := Left(Literal("true"), Not(Range("letter", 'a', 'z')))
	require.True(t, Matches(keyword, "true"))
	r, start := run(keyword, "trueish")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	a, start := run(Ahead(number), "12")
	require.True(t, a.OK)
	require.Equal(t, 12, a.Value)
	require.Equal(t, start, a.Rest)
}

func TestWhere(t *testing.T) {
	t.Parallel()

	octet := Where("0..255", number, func(n int) bool { return n <= 255 })
	require.True(t, Matches(octet, "255"))
	r, start := run(octet, "256")
	require.False(t, r.OK)
	require.Equal(t, start, r.Rest)

	_, labels := start.Source().Furthest()
	require.Contains(t, labels, "DIGIT")
	require.False(t, Matches(octet, "256"))
}

func TestSpanned(t *testing.T) {
	t.Parallel()

	r, _ := run(Right(Char(' '), Spanned(number)), " 123 ")
	require.True(t, r.OK)
	require.Equal(t, 123, r.Value.Value)
	require.Equal(t, 1, r.Value.Start.Offset())
	require.Equal(t, 4, r.Value.End.Offset())
	require.Equal(t, "123", r.Value.Text())

	text, _ := run(Text(Many1(CharIn("hex", "0123456789abcdef"))), "c0ffee!")
	require.Equal(t, "c0ffee", text.Value)

	require.Equal(t, "", Span[int]{}.Text())
}

func TestLazy(t *testing.T) {
	t.Parallel()

	calls := 0
	p := Lazy(func() Parser[int] {
		calls = calls + 1
		return number
	})
	require.Equal(t, 0, calls)
	require.True(t, Matches(p, "1"))
	require.True(t, Matches(p, "2"))
	require.Equal(t, 1, calls)
}

func parens(max int) (*Rule[int], []cursor.Option) {
	expr := NewRule[int]("expr")
	expr.Define(Choice(
		Map(Between(Char('('), expr.Parser(), Char(')')), func(n int) int { return n + 1 }),
		Map(Char('x'), func(idl.CodePoint) int { return 0 }),
	))
	return expr, []cursor.Option{cursor.WithMaxDepth(max)}
}

func nested(n int) string {
	text := "x"
	for x := 0; x < n; x = x + 1 {
		text = "(" + text + ")"
	}
	return text
}

func TestRecursion(t *testing.T) {
	t.Parallel()

	expr, _ := parens(0)
	n, err := Parse(expr.Parser(), nested(50))
	require.NoError(t, err)
	require.Equal(t, 50, n)

	_, err = Parse(expr.Parser(), "((x)")
	require.Error(t, err)
}

func TestMutualRecursion(t *testing.T) {
	t.Parallel()

	// list = "[" [item *("," item)] "]"; item = DIGIT / list
	list := NewRule[int]("list")
	item := NewRule[int]("item")
	item.Define(Choice(Map(digit, func(idl.CodePoint) int { return 1 }), list.Parser()))
	list.Define(Map(Between(Char('['), SepBy(item.Parser(), Char(','), 0), Char(']')), func(items []int) int {
		total := 0
		for _, n := range items {
			total = total + n
		}
		return total
	}))

	n, err := Parse(list.Parser(), "[1,[2,3,[]],[[4]]]")
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestDepthLimit(t *testing.T) {
	t.Parallel()

	expr, options := parens(10)
	_, err := Parse(expr.Parser(), nested(12), options...)
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeDepthExceeded, e.Code())
	require.Equal(t, int32(11), e.Location().Column, "the error points at the eleventh '('")

	n, err := Parse(expr.Parser(), nested(5), options...)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestRuleDefinition(t *testing.T) {
	t.Parallel()

	r := NewRule[int]("r")
	require.Equal(t, "r", r.Name())
	require.False(t, r.Defined())
	require.Panics(t, func() { r.Parse(cursor.New("1").Start()) })
	r.Define(number)
	require.True(t, r.Defined())
	require.Panics(t, func() { r.Define(number) })
}

func TestRuleTrace(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	expr, _ := parens(0)
	_, err := Parse(expr.Parser(), "(x)", cursor.WithTrace(logger))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	require.Equal(t, "enter", entries[0].Message)
	require.Equal(t, "expr", entries[0].Data["rule"])
	require.Equal(t, 1, entries[1].Data["offset"])
	require.Equal(t, "leave", entries[3].Message)
	require.Equal(t, true, entries[3].Data["ok"])
	require.Equal(t, 3, entries[3].Data["consumed"])
}

func TestComplete(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		code     string
		message  string
		column   int32
		expected int
	}{
		{input: "42", expected: 42},
		{input: "42x", code: exc.CodeTrailingInput, message: "unexpected 'x' (expecting DIGIT, end of input)", column: 3},
		{input: "x42", code: exc.CodeSyntaxError, message: "unexpected 'x' (expecting DIGIT)", column: 1},
		{input: "", code: exc.CodeSyntaxError, message: "unexpected end of input (expecting DIGIT)", column: 1},
		{input: "4\t", code: exc.CodeTrailingInput, message: "unexpected U+0009 (expecting DIGIT, end of input)", column: 2},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(strconv.Quote(testCase.input), func(t *testing.T) {
			t.Parallel()
			n, err := Parse(number, testCase.input)
			if testCase.code == "" {
				require.NoError(t, err)
				require.Equal(t, testCase.expected, n)
				return
			}
			require.Error(t, err)
			var e exc.Exception
			require.True(t, errors.As(err, &e))
			require.Equal(t, testCase.code, e.Code())
			require.Equal(t, testCase.message, e.Message())
			require.Equal(t, int32(1), e.Location().Line)
			require.Equal(t, testCase.column, e.Location().Column)
		})
	}
}

func TestFurthestFailureWins(t *testing.T) {
	t.Parallel()

	p := Choice(
		Seq(Literal("ab"), Literal("cd")),
		Seq(Literal("a")),
	)
	_, err := Parse(p, "abx")
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeSyntaxError, e.Code())
	require.Equal(t, int32(3), e.Location().Column)
	require.Equal(t, "unexpected 'x' (expecting 'cd')", e.Message())
}

func TestNoConsumptionOnFailure(t *testing.T) {
	t.Parallel()

	word := Many1(Range("letter", 'a', 'b'))
	recursive, _ := parens(0)
	parsers := map[string]Parser[any]{
		"char":      erase(Char('a')),
		"literal":   erase(Literal("ab(")),
		"fold":      erase(LiteralFold("AB")),
		"seq":       erase(Seq(Literal("a"), Literal("b"), Literal("1"))),
		"choice":    erase(Choice(Literal("ab1"), Literal("b("))),
		"repeat":    erase(Repeat(Char('a'), 2, 4)),
		"many1":     erase(word),
		"map":       erase(Map(number, strconv.Itoa)),
		"between":   erase(Between(Char('('), word, Char(')'))),
		"sepby":     erase(SepBy(word, Char('1'), 2)),
		"where":     erase(Where("even", number, func(n int) bool { return n%2 == 0 })),
		"not":       erase(Not(Char('a'))),
		"ahead":     erase(Ahead(Literal("ba"))),
		"end":       erase(End()),
		"seq2":      erase(Seq2(word, number)),
		"or":        erase(Or(Literal("ab"), number)),
		"recursive": erase(recursive.Parser()),
	}

	rng := rand.New(rand.NewSource(1))
	alphabet := []rune("ab1(x)")
	for x := 0; x < 500; x = x + 1 {
		length := rng.Intn(8)
		runes := make([]rune, length)
		for y := range runes {
			runes[y] = alphabet[rng.Intn(len(alphabet))]
		}
		text := string(runes)
		for name, p := range parsers {
			src := cursor.New(text)
			for offset := 0; offset <= src.Len(); offset = offset + 1 {
				at := src.Start().Advance(offset)
				r := p(at)
				if !r.OK {
					require.Equal(t, at, r.Rest, "%s consumed input on failure of %q at %d", name, text, offset)
					continue
				}
				require.GreaterOrEqual(t, r.Rest.Offset(), at.Offset(), "%s moved backwards", name)
				require.Equal(t, r, p(at), "%s is not deterministic", name)
			}
		}
	}
}

func erase[T any](p Parser[T]) Parser[any] {
	return Map(p, func(v T) any { return v })
}

func TestConcurrentReuse(t *testing.T) {
	t.Parallel()

	expr, _ := parens(0)
	var wg sync.WaitGroup
	errs := make([]error, 32)
	for x := 0; x < len(errs); x = x + 1 {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			n, err := Parse(expr.Parser(), nested(x))
			if err == nil && n != x {
				err = errors.New("wrong depth " + strconv.Itoa(n))
			}
			errs[x] = err
		}(x)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
}

func BenchmarkNested(b *testing.B) {
	expr, _ := parens(0)
	text := nested(200)
	b.ResetTimer()
	for x := 0; x < b.N; x = x + 1 {
		_, _ = Parse(expr.Parser(), text)
	}
}
