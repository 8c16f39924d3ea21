// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/fs"
	"gopkg.microglot.org/odata.go/internal/idl"
	"gopkg.microglot.org/odata.go/internal/iter"
	"gopkg.microglot.org/odata.go/internal/odata"
	"gopkg.microglot.org/odata.go/internal/target"
)

func newParseCmd(root *rootCommand) *cobra.Command {
	var dumpTree bool

	cmd := &cobra.Command{
		Use:   "parse INPUT...",
		Short: "Parse each argument against a grammar rule",
		Long: `Parse each argument against a grammar rule, by default a full OData URL.

An argument of "-" reads standard input and parses every non-blank line that
does not start with "#". Each success prints "ok", or the parse tree as JSON
with --dump-tree. Failures are printed to stderr with the offending column
marked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]string, 0, len(args))
			for _, arg := range args {
				if arg != target.Stdin {
					inputs = append(inputs, arg)
					continue
				}
				lines, err := root.stdinLines(cmd.Context())
				if err != nil {
					return err
				}
				inputs = append(inputs, lines...)
			}

			options := root.conf.ParseOptions(root.logger)
			failed := 0
			for _, input := range inputs {
				tree, err := odata.Parse(root.conf.Rule, input, options...)
				if err != nil {
					var e exc.Exception
					if !errors.As(err, &e) {
						return err
					}
					failed = failed + 1
					if err := exc.Render(root.stderr, input, e); err != nil {
						return err
					}
					continue
				}
				if !dumpTree {
					fmt.Fprintln(root.stdout, "ok")
					continue
				}
				b, err := dumpJSON(tree)
				if err != nil {
					return err
				}
				fmt.Fprintln(root.stdout, string(b))
			}
			root.logger.WithField("inputs", len(inputs)).WithField("failed", failed).Debug("parse complete")
			if failed > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root.flags.Rule, "rule", "r", odata.RuleURI, "grammar rule each input must match")
	cmd.Flags().BoolVar(&dumpTree, "dump-tree", false, "print the parse tree as JSON")

	return cmd
}

// stdinLines reads the inputs given on standard input.
func (c *rootCommand) stdinLines(ctx context.Context) ([]string, error) {
	files, err := fs.NewFileSystemReader(target.Stdin, c.stdin).Open(ctx, target.Stdin)
	if err != nil {
		return nil, err
	}
	body, err := files[0].Body(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := iter.Collect(ctx, iter.NewIteratorFilter(
		iter.NewLines(iter.NewUnicodeFileBodyCtx(ctx, body)),
		iter.FilterFunc[idl.Line](func(ctx context.Context, line idl.Line) bool {
			text := strings.TrimSpace(line.Text)
			return text != "" && !strings.HasPrefix(text, "#")
		}),
	))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text)
	}
	return out, nil
}
