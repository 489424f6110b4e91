// Package extract turns uploaded procurement PDFs into the tagged plain-text
// corpus the review pipeline consumes. Text comes from pdftotext page by
// page; image-only scans have no text layer and are reported as ErrNoText so
// callers can tell the user to re-upload a text PDF.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxPDFBytes = 50 * 1024 * 1024
	maxDocBytes = 400000

	pageHeaderFormat = "===== 【檔案: %s | 頁: %d】 ====="
	truncatedMarker  = "\n\n[內容過長，已截斷]"
)

// ErrNoText means the PDF carries no extractable text layer, typically a
// scanned image.
var ErrNoText = errors.New("pdf has no extractable text")

var pagesPattern = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// Overridable for tests that have no poppler binaries available.
var (
	runPdfInfo = func(ctx context.Context, path string) (string, error) {
		out, err := exec.CommandContext(ctx, "pdfinfo", path).Output()
		return string(out), err
	}
	runPdfToText = func(ctx context.Context, path string, first, last int) (string, error) {
		args := []string{"-layout"}
		if first > 0 {
			args = append(args, "-f", strconv.Itoa(first), "-l", strconv.Itoa(last))
		}
		args = append(args, path, "-")
		out, err := exec.CommandContext(ctx, "pdftotext", args...).Output()
		return string(out), err
	}
)

// Document is one extracted PDF, already tagged with per-page headers.
type Document struct {
	Name      string
	Pages     int
	Text      string
	Method    string
	Truncated bool
}

// ExtractPDF reads one PDF and returns its text with a
// 【檔案: name | 頁: n】 header before each page, so model citations can
// point back to a file and page.
func ExtractPDF(ctx context.Context, path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	if info.Size() > maxPDFBytes {
		return Document{}, fmt.Errorf("pdf too large: %d bytes", info.Size())
	}
	name := filepath.Base(path)

	pages := pageCount(ctx, path)
	if text, ok := perPageText(ctx, path, name, pages); ok {
		return truncated(Document{Name: name, Pages: pages, Text: text, Method: "pdftotext"}), nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	fallback := printableRuns(blob)
	if strings.TrimSpace(fallback) == "" {
		return Document{}, fmt.Errorf("%s: %w", name, ErrNoText)
	}
	text := fmt.Sprintf(pageHeaderFormat, name, 1) + "\n" + fallback
	return truncated(Document{Name: name, Pages: pages, Text: text, Method: "byte-fallback"}), nil
}

// ExtractAll extracts every path in order. One scanned or broken file fails
// the whole set; partial corpora produce misleading 未提及 findings.
func ExtractAll(ctx context.Context, paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		doc, err := ExtractPDF(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Corpus joins extracted documents into the single review text.
func Corpus(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Text)
	}
	return strings.Join(parts, "\n\n")
}

func pageCount(ctx context.Context, path string) int {
	out, err := runPdfInfo(ctx, path)
	if err != nil {
		return 0
	}
	m := pagesPattern.FindStringSubmatch(out)
	if len(m) != 2 {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// perPageText assembles the tagged text. Unknown page count degrades to one
// whole-document pass tagged as page 1. Returns ok=false when no page has
// any text.
func perPageText(ctx context.Context, path, name string, pages int) (string, bool) {
	var b strings.Builder
	any := false
	if pages < 1 {
		text, err := runPdfToText(ctx, path, 0, 0)
		if err != nil || strings.TrimSpace(text) == "" {
			return "", false
		}
		fmt.Fprintf(&b, pageHeaderFormat, name, 1)
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(text))
		return b.String(), true
	}
	for p := 1; p <= pages; p++ {
		text, err := runPdfToText(ctx, path, p, p)
		if err != nil {
			return "", false
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		any = true
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, pageHeaderFormat, name, p)
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String(), any
}

func printableRuns(blob []byte) string {
	var runs []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if len(s) >= 24 {
			runs = append(runs, s)
		}
		b.Reset()
	}
	for _, c := range blob {
		r := rune(c)
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	joined := strings.Join(runs, "\n")
	joined = strings.ReplaceAll(joined, "\x00", "")
	return strings.TrimSpace(joined)
}

func truncated(d Document) Document {
	if len(d.Text) <= maxDocBytes {
		return d
	}
	prefix := d.Text[:maxDocBytes]
	// Avoid cutting in the middle of a rune sequence.
	prefix = string(bytes.Runes([]byte(prefix)))
	d.Text = prefix + truncatedMarker
	d.Truncated = true
	return d
}
