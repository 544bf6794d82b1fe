package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cdp-query/internal/service"
)

func catalogCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the CDP column catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tFAMILY\tTYPE\tCONDITION\tDESCRIPTION")
			for _, col := range service.ColumnCatalog() {
				if family != "" && string(col.Family) != family {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", col.ID, col.Family, col.DataType, col.Condition, col.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "filter by column family (direct_behavior, industry_behavior, prediction_scores, demographic_flags)")
	return cmd
}
