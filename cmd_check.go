// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/odata.go/internal/check"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/fs"
	"gopkg.microglot.org/odata.go/internal/odata"
	"gopkg.microglot.org/odata.go/internal/target"
)

func newCheckCmd(root *rootCommand) *cobra.Command {
	var roots []string

	cmd := &cobra.Command{
		Use:   "check TARGET...",
		Short: "Validate files of OData URLs, one per line",
		Long: `Validate files of OData URLs, one per line.

Targets are files or directories resolved against each --root in turn, or "-"
for standard input. Directories are expanded to their .uris, .odata and .txt
files. Blank lines and lines starting with "#" are skipped. Every failing line
is printed as FILE:LINE:COLUMN -- CODE: MESSAGE.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mf := make(fs.FileSystemMulti, 0, len(roots)+1)
			mf = append(mf, fs.NewFileSystemReader(target.Stdin, root.stdin))
			for _, r := range roots {
				rf, err := fs.NewFileSystemLocal(r)
				if err != nil {
					return err
				}
				mf = append(mf, rf)
			}

			c, err := check.New(
				check.OptionWithFS(mf),
				check.OptionWithRule(root.conf.Rule),
				check.OptionWithConcurrency(root.conf.Concurrency),
				check.OptionWithLogger(root.logger),
				check.OptionWithParseOptions(root.conf.ParseOptions(root.logger)...),
			)
			if err != nil {
				return err
			}

			resp, err := c.Check(cmd.Context(), &check.Request{Targets: args})
			var me check.MultiException
			if err != nil && !errors.As(err, &me) {
				return err
			}
			if resp == nil {
				// A fatal failure stopped the batch.
				for _, e := range me {
					fmt.Fprintln(root.stderr, e.Error())
				}
				return errFailed
			}
			for _, result := range resp.Failed() {
				fmt.Fprintln(root.stdout, result.Err.Error())
			}
			for _, e := range me {
				if !isParseFailure(e) {
					fmt.Fprintln(root.stderr, e.Error())
				}
			}
			if len(me) > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&roots, "root", []string{"."}, "directories that targets are resolved against")
	cmd.Flags().StringVarP(&root.flags.Rule, "rule", "r", odata.RuleURI, "grammar rule each line must match")
	cmd.Flags().IntVar(&root.flags.Concurrency, "concurrency", 0, "number of lines parsed at once, 0 for one per CPU")

	return cmd
}

func isParseFailure(e exc.Exception) bool {
	for _, code := range check.ParseFailureCodes {
		if e.Code() == code {
			return true
		}
	}
	return false
}
