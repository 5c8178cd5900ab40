package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the extraction tables and indexes",
	Long: `Initdb creates the articles, extractions, evidence_spans and
outcomes_survival tables on the configured database. Statements are
idempotent; re-running against an initialized database is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose)
		ctx := cmd.Context()

		db, err := openDB(ctx, loadConfig(), logger)
		if err != nil {
			return err
		}
		defer db.Close(logger)

		if err := db.InitSchema(ctx); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "schema initialized (%s)\n", db.Dialect)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}
