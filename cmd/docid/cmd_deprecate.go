package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docid/internal/identifier"
)

// deprecateCmd retires an identifier permanently.
var deprecateCmd = &cobra.Command{
	Use:   "deprecate <identifier>",
	Short: "Retire an identifier permanently",
	Long: `Flips the entry's status to deprecated and records the time. The entry is
retained indefinitely and the sequence number is never reissued. Deprecation
is terminal: there is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeprecate,
}

func runDeprecate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := args[0]
	if !identifier.Valid(id) {
		return fmt.Errorf("identifier %s does not match the grammar %s", id, identifier.Pattern)
	}

	entry, err := newStore(cfg).Deprecate(id)
	if err != nil {
		return err
	}

	printTitle("deprecated")
	printKV("identifier", entry.Identifier)
	printKV("was at", entry.FilePath)
	printKV("deprecated at", entry.DeprecatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
