package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oncostruct/bclc-extractor/internal/llm"
	"github.com/oncostruct/bclc-extractor/internal/llm/openai"
	"github.com/oncostruct/bclc-extractor/internal/pipeline"
	"github.com/oncostruct/bclc-extractor/internal/repository"
	"github.com/oncostruct/bclc-extractor/internal/textsource"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Run the extraction pipeline on one article",
	Long: `Extract loads the article (PDF via the pdftotext text layer, or plain
text), sends it through the extraction backend, validates the candidate against
the closed schema, records evidence spans, and prints the canonical JSON output
to stdout. With --persist the result is also written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := newLogger(verbose)

		mock, _ := cmd.Flags().GetBool("mock")
		persist, _ := cmd.Flags().GetBool("persist")
		articleType, _ := cmd.Flags().GetString("article-type")

		cfg := loadConfig()
		ctx := cmd.Context()

		provider := textsource.NewProvider(textsource.Config{Pdftotext: cfg.Source.Pdftotext}, logger)

		var backend llm.Backend
		if mock || cfg.LLM.UseMock {
			backend = &llm.MockBackend{}
		} else {
			if err := cfg.ValidateForLiveBackend(); err != nil {
				return err
			}
			backend = openai.NewClient(openai.Config{
				BaseURL:     cfg.LLM.BaseURL,
				Model:       cfg.LLM.Model,
				APIKey:      cfg.LLM.APIKey,
				Temperature: cfg.LLM.Temperature,
				Timeout:     cfg.LLM.Timeout,
			}, logger)
		}

		var store repository.ExtractionStore
		if persist {
			db, err := openDB(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close(logger)
			store = repository.NewExtractionStore(db, logger)
		}

		proc := pipeline.NewProcessor(provider, backend, store, logger)
		result, err := proc.ProcessArticle(ctx, pipeline.Request{
			Path:        args[0],
			ArticleType: articleType,
			Persist:     persist,
		})
		if err != nil {
			return err
		}

		out, err := result.Output.CanonicalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("mock", false, "use the deterministic mock backend instead of a live LLM")
	extractCmd.Flags().Bool("persist", false, "also save the extraction to the database")
	extractCmd.Flags().String("article-type", "", "article type tag stored with the record (e.g. rct, meta-analysis)")

	rootCmd.AddCommand(extractCmd)
}
