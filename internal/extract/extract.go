package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdfchat-backend/internal/shared/storage/object"
)

// ErrExtraction marks any failure to turn an upload into plain text.
var ErrExtraction = errors.New("text extraction failed")

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// PDF extracts text with github.com/ledongthuc/pdf. No MIME check is made: any
// payload is handed to the parser and rejected there if it is not a PDF.
type PDF struct{}

// Extract returns the concatenated plain text of every page.
func (PDF) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrExtraction)
	}
	text, err := extractPDF(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return text, nil
}

// FromStore reads key from store and runs it through ex. Store failures are reported
// as ErrExtraction as well, since the caller cannot tell them apart from a bad upload.
func FromStore(ctx context.Context, store object.ObjectStore, key string, ex Extractor) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: open key=%s: %w", ErrExtraction, key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read key=%s: %w", ErrExtraction, key, err)
	}

	text, err := ex.Extract(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrExtraction) {
			return "", fmt.Errorf("extract key=%s: %w", key, err)
		}
		return "", fmt.Errorf("%w: extract key=%s: %w", ErrExtraction, key, err)
	}
	return text, nil
}

// The parser panics on some malformed inputs.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
