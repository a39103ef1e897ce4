package main

import (
	"github.com/spf13/cobra"
)

var housesCmd = &cobra.Command{
	Use:   "houses <house-code>",
	Short: "Look up FIAS house records by house code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notActive, _ := cmd.Flags().GetBool("not-active")

		client := newPortalClient()
		var (
			result map[string]any
			err    error
		)
		if notActive {
			result, err = client.NotActiveHouses(cmd.Context(), args[0])
		} else {
			result, err = client.ActiveHouses(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	housesCmd.Flags().Bool("not-active", false, "return historical records instead of actual ones")
	rootCmd.AddCommand(housesCmd)
}
