package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pyrite/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tHOOKS\tDESCRIPTION")
		// пробелы вокруг операторов проверяются по логическим строкам, не по AST
		for _, code := range rules.TokenCodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", code.ID(), "operator-spacing", "logical-line", code.Title())
		}
		for _, r := range rules.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Code.ID(), r.Name, r.Hooks(), r.Code.Title())
		}
		return w.Flush()
	},
}
