// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package check validates files of OData URIs in bulk. Every non-blank line
// that does not start with "#" is parsed on its own against a single grammar
// rule. Lines are parsed concurrently and the results are returned in input
// order.
package check

import (
	"context"
	"errors"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/iter"
	"gopkg.microglot.org/odata.go/internal/odata"
	"gopkg.microglot.org/odata.go/internal/parse"
	"gopkg.microglot.org/odata.go/internal/target"
)

type Option func(c *checker) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *checker) error {
		c.FS = fs
		return nil
	}
}

// OptionWithReporter installs the accumulator for failures. A failure is
// fatal, and stops the batch, when Report returns it. The default reporter
// treats parse failures as non-fatal and everything else as fatal.
func OptionWithReporter(reporter exc.Reporter) Option {
	return func(c *checker) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithConcurrency(n int) Option {
	return func(c *checker) error {
		if n < 0 {
			return exc.New(exc.Location{}, exc.CodeInvalidConfig, "concurrency must not be negative")
		}
		c.MaxConcurrency = n
		return nil
	}
}

func OptionWithLogger(logger logrus.FieldLogger) Option {
	return func(c *checker) error {
		c.Logger = logger
		return nil
	}
}

// OptionWithRule selects the grammar rule every line must match. The default
// is odata.RuleURI.
func OptionWithRule(rule string) Option {
	return func(c *checker) error {
		p, ok := odata.Lookup(rule)
		if !ok {
			return exc.New(exc.Location{}, exc.CodeUnknownRule, "unknown rule "+rule)
		}
		c.Rule = rule
		c.parser = p
		return nil
	}
}

// OptionWithParseOptions sets the options applied to the source of every
// line, such as the depth limit.
func OptionWithParseOptions(options ...cursor.Option) Option {
	return func(c *checker) error {
		c.ParseOptions = append(c.ParseOptions, options...)
		return nil
	}
}

// ParseFailureCodes are the codes a single line can fail with.
var ParseFailureCodes = []string{
	exc.CodeSyntaxError,
	exc.CodeTrailingInput,
	exc.CodeDepthExceeded,
}

type Checker interface {
	Check(ctx context.Context, req *Request) (*Response, error)
}

type Request struct {
	// Targets are file paths, file URIs or "-" for standard input.
	Targets []string
}

// Result is the outcome for one input line.
type Result struct {
	URI  string
	Line int32
	Text string
	// Tree is nil when Err is set.
	Tree *odata.Node
	Err  exc.Exception
}

func (self Result) OK() bool {
	return self.Err == nil
}

type Response struct {
	Results []Result
}

// Failed returns the results that did not parse.
func (self *Response) Failed() []Result {
	out := make([]Result, 0)
	for _, result := range self.Results {
		if !result.OK() {
			out = append(out, result)
		}
	}
	return out
}

func New(opts ...Option) (Checker, error) {
	c := &checker{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.FS == nil {
		return nil, exc.New(exc.Location{}, exc.CodeInvalidConfig, "a file system is required")
	}
	if c.parser == nil {
		if err := OptionWithRule(odata.RuleURI)(c); err != nil {
			return nil, err
		}
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(ParseFailureCodes)
	}
	if c.Logger == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		c.Logger = logger
	}
	return c, nil
}

type checker struct {
	FS             idl.FileSystem
	Rule           string
	MaxConcurrency int
	Reporter       exc.Reporter
	Logger         logrus.FieldLogger
	ParseOptions   []cursor.Option
	parser         parse.Parser[*odata.Node]
}

type input struct {
	uri  string
	line idl.Line
}

func (self *checker) Check(ctx context.Context, req *Request) (*Response, error) {
	inputs, err := self.load(ctx, req.Targets)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(self.MaxConcurrency)
	for x := 0; x < len(inputs); x = x + 1 {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[x] = self.checkLine(inputs[x])
			if results[x].Err == nil {
				return nil
			}
			if fatal := self.Reporter.Report(results[x].Err); fatal != nil {
				return fatal
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		var fatal exc.Exception
		if errors.As(waitErr, &fatal) {
			// Lines after a fatal failure were not checked.
			return nil, MultiException(self.Reporter.Reported())
		}
		return nil, waitErr
	}

	resp := &Response{Results: results}
	failed := len(resp.Failed())
	self.Logger.WithFields(logrus.Fields{
		"rule":    self.Rule,
		"checked": len(results),
		"failed":  failed,
	}).Info("check complete")

	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return resp, MultiException(caught)
	}
	return resp, nil
}

func (self *checker) checkLine(in input) Result {
	result := Result{URI: in.uri, Line: in.line.Number, Text: in.line.Text}
	src := cursor.New(in.line.Text, self.ParseOptions...)
	tree, err := parse.Complete(self.parser, src)
	if err != nil {
		var e exc.Exception
		if !errors.As(err, &e) {
			e = exc.WrapUnknown(exc.Location{}, err)
		}
		loc := e.Location()
		loc.URI = in.uri
		loc.Line = in.line.Number
		result.Err = exc.Relocate(loc, e)
		return result
	}
	result.Tree = tree
	return result
}

// load reads every target into memory, one input per kept line.
func (self *checker) load(ctx context.Context, targets []string) ([]input, error) {
	inputs := make([]input, 0)
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uri := target.Normalize(t)
		files, err := self.FS.Open(ctx, uri)
		if err != nil {
			if fatal := self.Reporter.Report(asException(uri, err)); fatal != nil {
				return nil, MultiException(self.Reporter.Reported())
			}
			continue
		}
		for _, file := range files {
			path := file.Path(ctx)
			if file.Kind(ctx) == idl.FileKindNone {
				self.Logger.WithField("uri", path).Debug("skipping file of unknown kind")
				continue
			}
			lines, err := readLines(ctx, file)
			if err != nil {
				if fatal := self.Reporter.Report(asException(path, err)); fatal != nil {
					return nil, MultiException(self.Reporter.Reported())
				}
				continue
			}
			self.Logger.WithFields(logrus.Fields{
				"uri":   path,
				"lines": len(lines),
			}).Debug("loaded file")
			for _, line := range lines {
				inputs = append(inputs, input{uri: path, line: line})
			}
		}
	}
	return inputs, nil
}

func readLines(ctx context.Context, file idl.File) ([]idl.Line, error) {
	body, err := file.Body(ctx)
	if err != nil {
		return nil, err
	}
	lines := iter.NewIteratorFilter(
		iter.NewLines(iter.NewUnicodeFileBodyCtx(ctx, body)),
		iter.FilterFunc[idl.Line](keepLine),
	)
	return iter.Collect(ctx, lines)
}

func keepLine(ctx context.Context, line idl.Line) bool {
	text := strings.TrimSpace(line.Text)
	return text != "" && !strings.HasPrefix(text, "#")
}

func asException(uri string, err error) exc.Exception {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
