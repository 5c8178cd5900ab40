package main

import (
	"github.com/spf13/viper"

	"github.com/oncostruct/bclc-extractor/internal/common"
)

// loadConfig layers viper (config file plus the BCLC_ env prefix) over the
// plain environment defaults, so `db.url` in bclc-extract.yaml or
// BCLC_DB_URL both reach the same field.
func loadConfig() *common.Config {
	cfg := common.LoadConfig()

	if v := viper.GetString("db.url"); v != "" {
		cfg.Database.DSN = v
	}
	if viper.IsSet("db.max_conns") {
		cfg.Database.MaxConns = viper.GetInt32("db.max_conns")
	}
	if viper.IsSet("db.min_conns") {
		cfg.Database.MinConns = viper.GetInt32("db.min_conns")
	}
	if viper.IsSet("db.dial_timeout") {
		cfg.Database.DialTimeout = viper.GetDuration("db.dial_timeout")
	}
	if viper.IsSet("db.statement_timeout") {
		cfg.Database.StatementTimeout = viper.GetDuration("db.statement_timeout")
	}

	if v := viper.GetString("source.pdftotext"); v != "" {
		cfg.Source.Pdftotext = v
	}
	if viper.IsSet("source.max_pages") {
		cfg.Source.MaxPages = viper.GetInt("source.max_pages")
	}

	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if viper.IsSet("llm.temperature") {
		cfg.LLM.Temperature = float32(viper.GetFloat64("llm.temperature"))
	}
	if viper.IsSet("llm.timeout") {
		cfg.LLM.Timeout = viper.GetDuration("llm.timeout")
	}
	if viper.IsSet("llm.mock") {
		cfg.LLM.UseMock = viper.GetBool("llm.mock")
	}

	return cfg
}
