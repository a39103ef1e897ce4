package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gisgkh/licenses-cli/internal/licenses"
	"github.com/gisgkh/licenses-cli/internal/store"
)

var licensesCmd = &cobra.Command{
	Use:   "licenses",
	Short: "Download and normalize license registries for regions",
	Long: `Runs the full retrieval sequence for the requested regions: looks up the
archive uid per region, downloads the zip archive, unpacks the spreadsheet,
and normalizes every data row. Rows are printed as JSON lines, or saved into
a local SQLite database with --save.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		regionsStr, _ := cmd.Flags().GetString("regions")
		save, _ := cmd.Flags().GetBool("save")
		replace, _ := cmd.Flags().GetBool("replace")

		codes, err := parseRegionCodes(regionsStr)
		if err != nil {
			return err
		}

		var st *store.Store
		if save {
			st, err = store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		log := zap.L().With(zap.String("command", "licenses"))

		client := newPortalClient()
		it, err := client.Licenses(ctx, codes)
		if err != nil {
			return err
		}
		defer it.Close()

		enc := json.NewEncoder(os.Stdout)
		total := 0
		for it.Next() {
			wb := it.Workbook()
			rows, err := licenses.Rows(wb.File)
			if err != nil {
				return eris.Wrapf(err, "workbook for %s", wb.RegionName)
			}

			var regionRows []licenses.Row
			for rows.Next() {
				row := rows.Row()
				if st == nil {
					if err := enc.Encode(row); err != nil {
						return eris.Wrap(err, "encode row")
					}
				} else {
					regionRows = append(regionRows, row)
				}
			}
			if err := rows.Err(); err != nil {
				return eris.Wrapf(err, "rows for %s", wb.RegionName)
			}

			if st != nil {
				if replace {
					if _, err := st.DeleteRegion(ctx, wb.RegionName); err != nil {
						return err
					}
				}
				n, err := st.SaveRows(ctx, wb.RegionName, regionRows)
				if err != nil {
					return err
				}
				log.Info("region saved",
					zap.String("region_name", wb.RegionName),
					zap.Int("rows", n),
				)
				total += n
			} else {
				total += len(regionRows)
			}
		}
		if err := it.Err(); err != nil {
			return err
		}

		if st != nil {
			fmt.Fprintf(os.Stderr, "Saved %d rows to %s\n", total, cfg.Store.Path)
		}
		return nil
	},
}

// parseRegionCodes parses a comma-separated list of numeric region codes.
func parseRegionCodes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, eris.New("at least one region code is required (--regions)")
	}
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, eris.Wrapf(err, "parse region code %q", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func init() {
	licensesCmd.Flags().String("regions", "", "comma-separated region codes, e.g. 77,50,16")
	licensesCmd.Flags().Bool("save", false, "save rows into the SQLite database instead of printing")
	licensesCmd.Flags().Bool("replace", false, "with --save, delete a region's stored rows before inserting")
	rootCmd.AddCommand(licensesCmd)
}
