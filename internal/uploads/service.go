package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"pdfchat-backend/internal/doccontext"
	"pdfchat-backend/internal/extract"
	"pdfchat-backend/internal/shared/metrics"
	"pdfchat-backend/internal/shared/storage/object"
	"pdfchat-backend/internal/shared/telemetry"
)

// Service stores an upload, extracts its text into the shared context and records it.
type Service struct {
	Store     object.ObjectStore
	Extractor extract.Extractor
	Context   *doccontext.Store
	Repo      Repo

	now func() time.Time
}

// Upload runs the upload pipeline. On extraction failure the context is left untouched.
// On a datastore failure the context has already been replaced and the returned Result
// still carries the new version alongside an ErrDatastore error.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "uploads.Upload", attribute.String("user.id", userID))
	defer span.End()

	res, err := s.upload(ctx, userID, fileName, r)
	if err != nil {
		telemetry.RecordError(span, err)
		metrics.RecordUpload(statusOf(err))
		return res, err
	}
	span.SetAttributes(attribute.Int64("context.version", int64(res.ContextVersion)))
	metrics.RecordUpload("success")
	return res, nil
}

func (s *Service) upload(ctx context.Context, userID, fileName string, r io.Reader) (Result, error) {
	obj, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: save upload: %w", extract.ErrExtraction, err)
	}

	text, err := s.extract(ctx, obj.Key)
	if err != nil {
		return Result{}, err
	}

	version := s.Context.Set(text)
	metrics.SetContextBytes(len(text))

	res := Result{
		StorageKey:     obj.Key,
		MimeType:       obj.MimeType,
		SizeBytes:      obj.Size,
		TextBytes:      len(text),
		ContextVersion: version,
	}
	telemetry.Info("upload.extracted", map[string]any{
		"storage_key":     obj.Key,
		"mime_type":       obj.MimeType,
		"size_bytes":      obj.Size,
		"text_bytes":      len(text),
		"context_version": version,
	})

	file := UploadedFile{
		ID:         uuid.NewString(),
		UserID:     userID,
		FilePath:   obj.Location,
		UploadedAt: s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, file); err != nil {
		return res, fmt.Errorf("%w: record upload: %w", ErrDatastore, err)
	}
	res.File = file
	return res, nil
}

func (s *Service) extract(ctx context.Context, key string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "extract.FromStore", attribute.String("storage.key", key))
	defer span.End()

	start := time.Now()
	text, err := extract.FromStore(ctx, s.Store, key, s.Extractor)
	metrics.ObserveExtraction(time.Since(start).Seconds())
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("text.bytes", len(text)))
	return text, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func statusOf(err error) string {
	if errors.Is(err, ErrDatastore) {
		return "datastore_error"
	}
	return "extraction_error"
}
