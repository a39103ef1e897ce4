package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gisgkh/licenses-cli/internal/regions"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the region reference table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, reg := range regions.All() {
			fmt.Fprintf(w, "%s\t%s\n", regions.URLCode(reg.Code), reg.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
