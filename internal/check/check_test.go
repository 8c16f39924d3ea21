// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/fs"
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/odata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func manyURIs(n int) string {
	var b strings.Builder
	for x := 0; x < n; x = x + 1 {
		fmt.Fprintf(&b, "http://host/svc/People(%d)\n", x)
	}
	return b.String()
}

func newTestFS(t *testing.T) idl.FileSystem {
	t.Helper()
	mapFS := fstest.MapFS{
		"good.uris": {Data: []byte("# people\nhttp://host/svc/People\n\n  \nhttp://host/svc/People('x')/Trips\n")},
		"mixed.uris": {Data: []byte(strings.Join([]string{
			"http://host/svc/People",
			"http://host/svc/People?$top=x",
			"# comment",
			"http://host/svc/Products(1)/Name/$value",
			"http://host",
		}, "\r\n"))},
		"filters.txt": {Data: []byte("Price gt 5\nName eq 'x' and Age le 65\n")},
		"many.uris":   {Data: []byte(manyURIs(50))},
		"deep.uris":   {Data: []byte("http://host/svc/People?$filter=" + strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40) + "\n")},
		"dir/a.uris":  {Data: []byte("http://host/svc/A\n")},
		"dir/b.odata": {Data: []byte("http://host/svc/B\n")},
		"dir/c.md":    {Data: []byte("not a list\n")},
	}
	f, err := fs.NewFileSystemLocal("/", fs.WithOptionFSFactory(func(string) iofs.FS { return mapFS }))
	require.NoError(t, err)
	return f
}

func newChecker(t *testing.T, opts ...Option) Checker {
	t.Helper()
	c, err := New(append([]Option{OptionWithFS(newTestFS(t))}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestCheckGood(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t).Check(context.Background(), &Request{Targets: []string{"good.uris"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	require.Empty(t, resp.Failed())
	require.Equal(t, int32(2), resp.Results[0].Line)
	require.Equal(t, int32(5), resp.Results[1].Line)
	require.Equal(t, "/good.uris", resp.Results[1].URI)
	require.Equal(t, odata.RuleURI, resp.Results[1].Tree.Kind)
}

func TestCheckFailuresAreRelocated(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t).Check(context.Background(), &Request{Targets: []string{"mixed.uris"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Results, 4)

	var multi MultiException
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi, 2)

	failed := resp.Failed()
	require.Len(t, failed, 2)
	require.Equal(t, int32(2), failed[0].Line)
	require.Equal(t, int32(5), failed[1].Line)
	for _, result := range failed {
		loc := result.Err.Location()
		require.Equal(t, "/mixed.uris", loc.URI)
		require.Equal(t, result.Line, loc.Line)
		require.Greater(t, loc.Column, int32(1))
		require.Equal(t, exc.CodeSyntaxError, result.Err.Code())
		require.Nil(t, result.Tree)
	}
	require.Contains(t, err.Error(), "/mixed.uris:2:")
}

func TestCheckDirectory(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t).Check(context.Background(), &Request{Targets: []string{"dir"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	uris := []string{resp.Results[0].URI, resp.Results[1].URI}
	require.ElementsMatch(t, []string{"/dir/a.uris", "/dir/b.odata"}, uris)
}

func TestCheckOrder(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t, OptionWithConcurrency(4)).Check(context.Background(), &Request{Targets: []string{"many.uris"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 50)
	for x, result := range resp.Results {
		require.Equal(t, int32(x+1), result.Line)
		require.Equal(t, fmt.Sprintf("http://host/svc/People(%d)", x), result.Text)
	}
}

func TestCheckRule(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t, OptionWithRule(odata.RuleFilter)).Check(context.Background(), &Request{Targets: []string{"filters.txt"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	_, err = New(OptionWithFS(newTestFS(t)), OptionWithRule("nope"))
	require.Error(t, err)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeUnknownRule, e.Code())
}

func TestCheckParseOptions(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t).Check(context.Background(), &Request{Targets: []string{"deep.uris"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	resp, err = newChecker(t, OptionWithParseOptions(cursor.WithMaxDepth(20))).Check(context.Background(), &Request{Targets: []string{"deep.uris"}})
	require.Error(t, err)
	require.Len(t, resp.Failed(), 1)
	require.Equal(t, exc.CodeDepthExceeded, resp.Failed()[0].Err.Code())
}

func TestCheckMissingTarget(t *testing.T) {
	t.Parallel()

	resp, err := newChecker(t).Check(context.Background(), &Request{Targets: []string{"good.uris", "missing.uris"}})
	require.Error(t, err)
	require.Nil(t, resp)
	var multi MultiException
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi, 1)
	require.Equal(t, exc.CodeFileNotFound, multi[0].Code())
}

func TestCheckFailFast(t *testing.T) {
	t.Parallel()

	reporter := exc.NewReporter(nil)
	resp, err := newChecker(t, OptionWithReporter(reporter), OptionWithConcurrency(1)).Check(context.Background(), &Request{Targets: []string{"mixed.uris"}})
	require.Error(t, err)
	require.Nil(t, resp)
	require.Len(t, reporter.Reported(), 1, "the batch stops at the first failure")
}

func TestCheckCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := newChecker(t).Check(ctx, &Request{Targets: []string{"many.uris"}})
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, resp)
}

func TestCheckLogging(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	_, err := newChecker(t, OptionWithLogger(logger)).Check(context.Background(), &Request{Targets: []string{"good.uris"}})
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, "loaded file", entries[0].Message)
	require.Equal(t, 2, entries[0].Data["lines"])
	require.Equal(t, "check complete", entries[1].Message)
	require.Equal(t, logrus.InfoLevel, entries[1].Level)
	require.Equal(t, 0, entries[1].Data["failed"])
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.Error(t, err)
	_, err = New(OptionWithFS(newTestFS(t)), OptionWithConcurrency(-1))
	require.Error(t, err)
}
