package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docid/internal/docerr"
	"docid/internal/state"
	"docid/internal/validate"
)

var (
	validateChecks   []string
	validateBaseline float64
)

// validateCmd runs the validator suite over the registry and inventory.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run validation checks over the registry and inventory",
	Long: `Runs the selected checks (default: all of format, uniqueness, consistency,
coverage, reference). Failures in blocking checks (default: format and
uniqueness) exit 1; the rest are advisory.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateChecks, "check", nil,
		"check to run (repeatable): format|uniqueness|consistency|coverage|reference")
	validateCmd.Flags().Float64Var(&validateBaseline, "baseline", -1, "coverage baseline override")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cmd, cfg)
	if err != nil {
		return err
	}
	reg, err := newStore(cfg).Load()
	if err != nil {
		return err
	}

	statePath := cfg.Resolve(cfg.Paths.State)
	st, err := state.Load(statePath)
	if err != nil {
		return docerr.System("load state", err)
	}

	baseline := cfg.Validation.CoverageBaseline
	if validateBaseline >= 0 {
		baseline = validateBaseline
	}
	previous := -1.0
	if st.LastCoverage != nil {
		previous = *st.LastCoverage
	}

	blocking := map[string]bool{}
	for _, name := range cfg.Validation.BlockingChecks {
		blocking[name] = true
	}

	suite := &validate.Suite{
		CoverageBaseline: baseline,
		PreviousCoverage: previous,
		Blocking:         blocking,
		Log:              logger,
	}
	results, err := suite.Run(reg, snap, validateChecks)
	if err != nil {
		return err
	}

	printTitle("validation results")
	for _, r := range results {
		fmt.Printf("  %s %s\n", passFail(r.Passed), r.CheckName)
		for _, e := range r.Errors {
			fmt.Printf("      %s %s\n", styleFail.Render("error:"), e)
		}
		for _, w := range r.Warnings {
			fmt.Printf("      %s %s\n", styleWarn.Render("warn:"), w)
		}
	}

	// Record coverage for the next regression comparison.
	coverage := snap.Coverage()
	st.LastCoverage = &coverage
	if err := state.Save(statePath, st); err != nil {
		return docerr.System("save state", err)
	}

	if validate.AnyFailed(results) {
		return errChecksFailed
	}
	return nil
}
