package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yashubustudio/profitprophet/prophet"
)

func newFieldsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fields FILE...",
		Short: "List the columns of input files and check the weighted fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := rawWeights(v)
			if err != nil {
				return err
			}
			fields := fieldNames(weights)
			weighted := make(map[string]struct{}, len(fields))
			for _, f := range fields {
				weighted[f] = struct{}{}
			}
			out := cmd.OutOrStdout()
			missingAny := false
			for _, path := range args {
				header, err := prophet.ReadHeader(path)
				if err != nil {
					return err
				}
				tbl := prophet.NewTable(header, nil)
				fmt.Fprintln(out, path)
				fmt.Fprintln(out, renderColumns(header, weighted))
				for _, f := range fields {
					if !tbl.HasColumn(f) {
						missingAny = true
						fmt.Fprintf(out, "missing field: %s\n", f)
					}
				}
			}
			if missingAny {
				return fmt.Errorf("%w: weighted fields are missing from an input file", prophet.ErrConfig)
			}
			return nil
		},
	}
}
