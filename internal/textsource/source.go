// Package textsource resolves an article file into plain text. It is the
// stateless load boundary in front of the pipeline: .txt files are read
// directly, .pdf files go through the pdftotext text layer. It never returns
// empty text as success.
package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// Result is the resolved article text plus basic provenance about how it was
// obtained.
type Result struct {
	Text   string
	Pages  int
	Format string // constants.PDF | constants.TXT
}

type Provider struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Provider{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewProviderWithRunner injects a command runner; tests use it to stub pdftotext.
func NewProviderWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Provider {
	p := NewProvider(cfg, logger)
	p.runner = runner
	return p
}

// Load resolves a file path into article text, picking a strategy by
// extension. Missing files, unsupported extensions, extraction failures and
// empty text all fail with ErrSourceUnreadable.
func (p *Provider) Load(ctx context.Context, path string) (Result, error) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", common.ErrSourceUnreadable, path)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	switch format {
	case constants.TXT:
		b, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("%w: read %s: %v", common.ErrSourceUnreadable, path, err)
		}
		text := string(b)
		if strings.TrimSpace(text) == "" {
			return Result{}, fmt.Errorf("%w: %s yielded empty text", common.ErrSourceUnreadable, path)
		}
		return Result{Text: text, Pages: 1, Format: constants.TXT}, nil

	case constants.PDF:
		text, pages, err := p.pdfToText(ctx, path)
		if err != nil {
			return Result{}, fmt.Errorf("%w: pdf text layer of %s: %v", common.ErrSourceUnreadable, path, err)
		}
		if strings.TrimSpace(text) == "" {
			return Result{}, fmt.Errorf("%w: %s yielded empty text", common.ErrSourceUnreadable, path)
		}
		return Result{Text: text, Pages: pages, Format: constants.PDF}, nil

	default:
		return Result{}, fmt.Errorf("%w: unsupported extension %q", common.ErrSourceUnreadable, filepath.Ext(path))
	}
}

func (p *Provider) pdfToText(ctx context.Context, path string) (string, int, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %v: %s", err, truncate(string(errb), 1<<10))
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")
	return text, pages, nil
}
