package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/odata.go/internal/odata"
)

func newRulesCmd(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the grammar rules accepted by --rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range odata.Rules() {
				fmt.Fprintln(root.stdout, name)
			}
			return nil
		},
	}
}
