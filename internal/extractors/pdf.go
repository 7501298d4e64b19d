package extractors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/opencivics/engage/internal/core/ports/driven"
)

// ErrPDFToolNotFound is returned by CheckAvailable when pdftotext is
// not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// errorCap bounds the error text embedded in a degraded extraction.
const errorCap = 64

// Ensure PDF implements the interface.
var _ driven.Extractor = (*PDF)(nil)

// CommandRunner executes an external command and returns its standard
// output. It exists so tests can substitute pdftotext.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDF extracts text from PDF documents with pdftotext, one page at a
// time, cleaning each page before rejoining.
type PDF struct {
	runner CommandRunner
}

// NewPDF creates a PDF extractor using the system pdftotext.
func NewPDF() *PDF {
	return &PDF{runner: execRunner{}}
}

// NewPDFWithRunner creates a PDF extractor with a custom command
// runner.
func NewPDFWithRunner(runner CommandRunner) *PDF {
	return &PDF{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns help text for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction.

Install it with:
  macOS:  brew install poppler
  Debian: apt install poppler-utils`
}

// Extract converts the PDF to text. Any failure degrades to a
// placeholder string instead of an error: a corrupt upload is tried
// once, caches its placeholder, and never blocks the pipeline.
func (e *PDF) Extract(ctx context.Context, data []byte) (string, error) {
	text, err := e.extract(ctx, data)
	if err != nil {
		return degraded(err), nil
	}
	return text, nil
}

func (e *PDF) extract(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "engage-pdf-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(source, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp pdf: %w", err)
	}

	// Rewrite the file before extraction. Scanned municipal PDFs
	// often carry broken xref tables that pdftotext refuses outright
	// but pdfcpu can repair.
	optimized := filepath.Join(dir, "optimized.pdf")
	if err := optimizePDF(source, optimized); err != nil {
		return "", fmt.Errorf("failed to validate pdf: %w", err)
	}

	pageCount, err := api.PageCountFile(optimized)
	if err != nil {
		return "", fmt.Errorf("failed to count pages: %w", err)
	}

	pages := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		text, err := e.extractPage(ctx, optimized, page)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", page, err)
		}
		pages = append(pages, cleanPage(text))
	}
	return strings.Join(pages, "\n"), nil
}

// extractPage runs pdftotext over a single page, writing to stdout.
func (e *PDF) extractPage(ctx context.Context, path string, page int) (string, error) {
	n := strconv.Itoa(page)
	out, err := e.runner.Run(ctx, "pdftotext", "-f", n, "-l", n, path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	// pdftotext terminates each page with a form feed.
	return strings.TrimSuffix(string(out), "\f"), nil
}

// optimizePDF rewrites the PDF with relaxed validation.
func optimizePDF(inPath, outPath string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.OptimizeFile(inPath, outPath, cfg)
}

// degraded builds the placeholder text recorded for a failed
// extraction.
func degraded(err error) string {
	msg := err.Error()
	if len(msg) > errorCap {
		msg = msg[:errorCap]
	}
	return "error -- could not extract text -- " + msg
}
