// Package main is the entry point for the bclc-extract CLI. Each pipeline
// surface is a subcommand: extract, initdb, dbhealth, export.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bclc-extract",
	Short: "Structured HCC/BCLC evidence extraction from clinical articles",
	Long: `bclc-extract turns hepatocellular-carcinoma treatment articles into
schema-validated structured records with per-field evidence provenance.

extract runs the pipeline on one article (PDF or plain text), initdb creates
the database schema, dbhealth pings the configured database, and export writes
stored extractions to an XLSX workbook.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bclc-extract.yaml or ~/.config/bclc-extract/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug-level logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bclc-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bclc-extract"))
		}
	}

	viper.SetEnvPrefix("BCLC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process-wide JSON logger. Logs go to stderr so stdout
// stays reserved for command output (extraction JSON, workbook bytes).
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
