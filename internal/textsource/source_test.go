package textsource_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/textsource"
)

// stubRunner records the command it was asked to run and returns canned output.
type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.stdout, s.stderr, s.err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTxt(t *testing.T) {
	path := writeTemp(t, "article.txt", "Median OS was 13.6 months.")

	p := textsource.NewProvider(textsource.Config{}, nil)
	res, err := p.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Median OS was 13.6 months.", res.Text)
	assert.Equal(t, constants.TXT, res.Format)
	assert.Equal(t, 1, res.Pages)
}

func TestLoadPdfViaTextLayer(t *testing.T) {
	path := writeTemp(t, "article.pdf", "%PDF-1.4 irrelevant, the runner is stubbed")

	runner := &stubRunner{stdout: []byte("page one text\fpage two text\fpage three")}
	p := textsource.NewProviderWithRunner(textsource.Config{Pdftotext: "/opt/poppler/pdftotext"}, runner, nil)

	res, err := p.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.Format)
	assert.Equal(t, 3, res.Pages)
	assert.Contains(t, res.Text, "page two text")

	assert.Equal(t, "/opt/poppler/pdftotext", runner.gotName)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-"}, runner.gotArgs)
}

func TestLoadUnreadableSources(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(dir, "nope.txt") },
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return dir },
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string { return writeTemp(t, "article.docx", "content") },
		},
		{
			name: "empty txt",
			path: func(t *testing.T) string { return writeTemp(t, "blank.txt", "   \n\t ") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := textsource.NewProvider(textsource.Config{}, nil)
			_, err := p.Load(context.Background(), tt.path(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrSourceUnreadable)
		})
	}
}

func TestLoadPdfFailures(t *testing.T) {
	path := writeTemp(t, "article.pdf", "stub")

	t.Run("pdftotext exits non-zero", func(t *testing.T) {
		runner := &stubRunner{stderr: []byte("Syntax Error: Couldn't read xref table"), err: errors.New("exit status 1")}
		p := textsource.NewProviderWithRunner(textsource.Config{}, runner, nil)
		_, err := p.Load(context.Background(), path)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrSourceUnreadable)
	})

	t.Run("empty text layer", func(t *testing.T) {
		runner := &stubRunner{stdout: []byte("\f\f")}
		p := textsource.NewProviderWithRunner(textsource.Config{}, runner, nil)
		_, err := p.Load(context.Background(), path)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrSourceUnreadable)
	})
}
