package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"pdfchat-backend/internal/shared/util"
)

// Object describes a stored upload.
type Object struct {
	Key      string
	Location string
	Size     int64
	MimeType string
}

// ObjectStore defines the contract for saving and retrieving raw uploads.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey builds the storage key for an upload: "<unix-millis>-<sanitized name>".
func NewKey(now time.Time, fileName string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), util.SanitizeFileName(fileName))
}

// SniffMime reads up to 3KiB from r, detects its MIME type and returns a reader
// that replays the consumed bytes ahead of the rest of r.
func SniffMime(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}
