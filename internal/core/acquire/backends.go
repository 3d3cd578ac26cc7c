package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
)

// Strategy identifies one text acquisition backend.
type Strategy string

const (
	StrategyLayout   Strategy = "native-layout" // pdftotext -layout
	StrategyRaw      Strategy = "native-raw"    // pdftotext -raw
	StrategyEmbedded Strategy = "embedded-text" // in-process text objects
	StrategyOCR      Strategy = "ocr"           // pdftoppm + tesseract
)

// Backend produces the full text of a document. An empty string with a nil
// error is a valid "no signal" answer.
type Backend interface {
	Extract(ctx context.Context, path string) (string, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, path string) (string, error)

func (f BackendFunc) Extract(ctx context.Context, path string) (string, error) { return f(ctx, path) }

// PdftotextBackend runs poppler's pdftotext in layout or raw mode.
type PdftotextBackend struct {
	bin    string
	layout bool
	runner Runner
	logger *slog.Logger
}

// NewPdftotextBackend returns a pdftotext backend; layout selects -layout
// (high fidelity) over -raw.
func NewPdftotextBackend(bin string, layout bool, runner Runner, logger *slog.Logger) *PdftotextBackend {
	if bin == "" {
		bin = "pdftotext"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PdftotextBackend{bin: bin, layout: layout, runner: runner, logger: logger}
}

func (b *PdftotextBackend) Extract(ctx context.Context, path string) (string, error) {
	mode := "-raw"
	if b.layout {
		mode = "-layout"
	}
	// pdftotext -layout|-raw -nopgbrk -enc UTF-8 <path> -
	out, errb, err := b.runner.Run(ctx, b.bin, b.logger, mode, "-nopgbrk", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w (%s)", mode, err, firstLine(errb))
	}
	return strings.ToValidUTF8(string(out), ""), nil
}

// EmbeddedBackend reads the text objects of each page in-process.
type EmbeddedBackend struct {
	maxPages int
	logger   *slog.Logger
}

func NewEmbeddedBackend(maxPages int, logger *slog.Logger) *EmbeddedBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddedBackend{maxPages: maxPages, logger: logger}
}

// Extract runs the reader on its own goroutine so a stuck page cannot
// outlive ctx.
func (b *EmbeddedBackend) Extract(ctx context.Context, path string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("pdf reader panic: %v", r)}
			}
		}()
		text, err := b.read(ctx, path)
		ch <- result{text: text, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}

func (b *EmbeddedBackend) read(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			b.logger.Warn("failed to close pdf", "path", path, "error", err)
		}
	}(f)

	pages := r.NumPage()
	if b.maxPages > 0 && pages > b.maxPages {
		pages = b.maxPages
	}
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			b.logger.Debug("embedded page text failed", "path", path, "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}
	return strings.ToValidUTF8(sb.String(), ""), nil
}

// pageText keeps one line per text row so header lines survive; it falls
// back to the plain text dump when rows cannot be built.
func pageText(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return page.GetPlainText(nil)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, w := range row.Content {
			words = append(words, w.S)
		}
		lines = append(lines, strings.Join(words, " "))
	}
	return strings.Join(lines, "\n"), nil
}

// OCRConfig configures the rasterize-then-recognize backend.
type OCRConfig struct {
	Pdftoppm    string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "fra+eng"
	DPI         int    // default 450
	PSM         int    // 6 = uniform block of text
	OEM         int    // 1 = LSTM
	TessdataDir string
	MaxPages    int // 0 = no limit
}

// OCRBackend renders every page to PNG and runs tesseract once per page.
type OCRBackend struct {
	cfg    OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewOCRBackend(cfg OCRConfig, runner Runner, logger *slog.Logger) *OCRBackend {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "fra+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 450
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRBackend{cfg: cfg, runner: runner, logger: logger}
}

func (b *OCRBackend) Extract(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "vr-ocr-*")
	if err != nil {
		return "", err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			b.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -png -r 450 <in.pdf> <tmp/page>
	_, errb, err := b.runner.Run(ctx, b.cfg.Pdftoppm, b.logger, "-png", "-r", strconv.Itoa(b.cfg.DPI), path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, firstLine(errb))
	}

	// page-1.png, page-2.png ... (zero padded when there are many pages)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if b.cfg.MaxPages > 0 && len(matches) > b.cfg.MaxPages {
		matches = matches[:b.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var sb strings.Builder
	var failed int
	for _, img := range matches {
		txt, err := b.tesseract(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			b.logger.Warn("ocr page failed", "path", path, "image", filepath.Base(img), "error", err)
			failed++
			continue
		}
		sb.WriteString(txt)
		sb.WriteString("\n")
	}
	if failed == len(matches) {
		return "", fmt.Errorf("tesseract failed on all %d pages", failed)
	}
	return textnorm.StripBoxNoise(strings.ToValidUTF8(sb.String(), "")), nil
}

func (b *OCRBackend) tesseract(ctx context.Context, img string) (string, error) {
	// tesseract <img> stdout -l <lang> --psm 6 --oem 1 [--tessdata-dir <dir>]
	args := []string{img, "stdout", "-l", b.cfg.Lang}
	if b.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(b.cfg.PSM))
	}
	if b.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(b.cfg.OEM))
	}
	if b.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", b.cfg.TessdataDir)
	}
	out, errb, err := b.runner.Run(ctx, b.cfg.Tesseract, b.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, firstLine(errb))
	}
	return string(out), nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 200)
}
