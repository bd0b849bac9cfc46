package main

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"buildsales/collections"
	"buildsales/services"
)

// newRecalcCommand returns the "recalc" subcommand, which recomputes and
// stores the totals of every BOQ and/or quotation.
func newRecalcCommand(app *pocketbase.PocketBase) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate stored BOQ and quotation totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := recalcTargets(target)
			if err != nil {
				return err
			}

			collections.Setup(app)
			for _, name := range names {
				res, err := services.RecalculateAll(app, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d processed, %d changed, %d failed\n",
					name, res.Processed, res.Changed, res.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "collection", "all", "boqs, quotations or all")
	return cmd
}

func recalcTargets(target string) ([]string, error) {
	switch target {
	case "all", "":
		return []string{collections.BOQs, collections.Quotations}, nil
	case collections.BOQs, collections.Quotations:
		return []string{target}, nil
	}
	return nil, fmt.Errorf("unknown collection %q (want boqs, quotations or all)", target)
}
