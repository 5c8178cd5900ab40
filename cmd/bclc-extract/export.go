package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oncostruct/bclc-extractor/internal/export"
	"github.com/oncostruct/bclc-extractor/internal/repository"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored extractions to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose)
		ctx := cmd.Context()

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			return fmt.Errorf("--out is required")
		}

		var filter repository.ListFilter
		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			filter.Year = &year
		}
		if cmd.Flags().Changed("article-type") {
			at, _ := cmd.Flags().GetString("article-type")
			filter.ArticleType = &at
		}

		db, err := openDB(ctx, loadConfig(), logger)
		if err != nil {
			return err
		}
		defer db.Close(logger)

		svc := export.NewService(repository.NewExtractionStore(db, logger), logger)
		data, err := svc.ExportExtractionsXLSX(ctx, filter)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", outPath, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "extractions.xlsx", "output workbook path")
	exportCmd.Flags().Int("year", 0, "filter by publication year")
	exportCmd.Flags().String("article-type", "", "filter by article type")

	rootCmd.AddCommand(exportCmd)
}
