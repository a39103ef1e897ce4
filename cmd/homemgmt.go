package main

import (
	"github.com/spf13/cobra"
)

var homemgmtCmd = &cobra.Command{
	Use:   "homemgmt",
	Short: "Look up houses managed by an organization",
}

var homemgmtListCmd = &cobra.Command{
	Use:   "list <org-guid>",
	Short: "Walk the paginated managed-houses search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		perPage, _ := cmd.Flags().GetInt("per-page")

		it := newPortalClient().HomeManagements(cmd.Context(), args[0], perPage)
		for it.Next() {
			if err := printJSON(it.Page()); err != nil {
				return err
			}
		}
		return it.Err()
	},
}

var homemgmtGetCmd = &cobra.Command{
	Use:   "get <guid>",
	Short: "Fetch one managed house by GUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newPortalClient().HomeManagement(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	homemgmtListCmd.Flags().Int("per-page", 1, "elements per page")
	homemgmtCmd.AddCommand(homemgmtListCmd)
	homemgmtCmd.AddCommand(homemgmtGetCmd)
	rootCmd.AddCommand(homemgmtCmd)
}
