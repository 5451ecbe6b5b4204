package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/schemas"
	"github.com/jonathan/ats-engine/internal/server"
)

func newABTestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abtest",
		Short: "Analyze résumé A/B and multivariate tests from JSON input",
		Long: `Each subcommand reads a JSON document (--input, - for stdin) in the same
shape as the matching /v1/abtest HTTP request body.`,
	}
	cmd.AddCommand(newABTestAnalyzeCmd(a), newABTestCompareCmd(a), newABTestMultivariateCmd(a))
	return cmd
}

func inputFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "input", "i", "-", "JSON input file (- for stdin)")
}

func newABTestAnalyzeCmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare every version against the baseline and declare a winner",
		RunE: func(_ *cobra.Command, _ []string) error {
			var req server.AnalyzeRequest
			if err := a.readJSON(input, &req); err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			res, err := e.analyzer.Analyze(req.Versions, req.Outcomes)
			if err != nil {
				return err
			}
			return a.emit(res, schemas.ABTestResults, func(p *observability.Printer) { p.PrintABTestResults(&res) })
		},
	}
	inputFlag(cmd, &input)
	return cmd
}

func newABTestCompareCmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run a two-proportion z-test between two versions",
		RunE: func(_ *cobra.Command, _ []string) error {
			var req server.CompareRequest
			if err := a.readJSON(input, &req); err != nil {
				return err
			}
			if req.VersionA == nil || req.VersionB == nil {
				return fmt.Errorf("input needs both versionA and versionB")
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			cmp, err := e.analyzer.CompareTwoVersions(
				req.VersionA.Version, req.VersionA.Outcomes,
				req.VersionB.Version, req.VersionB.Outcomes,
			)
			if err != nil {
				return err
			}
			return a.emit(cmp, "", func(p *observability.Printer) { p.PrintComparison(&cmp) })
		},
	}
	inputFlag(cmd, &input)
	return cmd
}

func newABTestMultivariateCmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "multivariate",
		Short: "Build factor combinations and rate each factor level",
		RunE: func(_ *cobra.Command, _ []string) error {
			var req server.MultivariateRequest
			if err := a.readJSON(input, &req); err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			combos, err := abtest.SetupMultivariateTest(req.Factors)
			if err != nil {
				return err
			}
			res, err := e.analyzer.AnalyzeMultivariateTest(combos, req.Outcomes)
			if err != nil {
				return err
			}
			doc := server.MultivariateResponse{Combinations: combos, Results: res}
			return a.emit(doc, "", func(p *observability.Printer) { p.PrintMultivariate(&res) })
		},
	}
	inputFlag(cmd, &input)
	return cmd
}
