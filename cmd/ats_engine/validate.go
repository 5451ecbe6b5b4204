package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/schemas"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate SCHEMA FILE",
		Short: "Validate a JSON document against an embedded schema",
		Long: `Check a score, gap analysis, A/B results or ML weights document against its
JSON Schema. SCHEMA is one of score, gap_analysis, abtest_results or ml_weights.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			name, err := schemas.ParseName(args[0])
			if err != nil {
				return err
			}
			if err := schemas.ValidateFile(name, args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s is a valid %s document\n", args[1], name.Short())
			return err
		},
	}
}
