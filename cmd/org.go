package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Look up organizations in the portal",
}

var orgSearchCmd = &cobra.Command{
	Use:   "search <inn>",
	Short: "Search registered organizations by INN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newPortalClient().Organizations(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var orgGetCmd = &cobra.Command{
	Use:   "get <guid>",
	Short: "Fetch one organization by GUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newPortalClient().Organization(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// printJSON pretty-prints a decoded portal response to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode response")
	}
	return nil
}

func init() {
	orgCmd.AddCommand(orgSearchCmd)
	orgCmd.AddCommand(orgGetCmd)
	rootCmd.AddCommand(orgCmd)
}
