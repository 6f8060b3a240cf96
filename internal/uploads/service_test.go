package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat-backend/internal/doccontext"
	"pdfchat-backend/internal/extract"
	"pdfchat-backend/internal/shared/storage/object"
	"pdfchat-backend/internal/shared/storage/object/local"
	"pdfchat-backend/internal/shared/telemetry"
	"pdfchat-backend/internal/shared/testutil"
)

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, f UploadedFile) error {
	return errors.New("relation \"uploaded_files\" does not exist")
}

type failingStore struct{}

func (failingStore) Save(ctx context.Context, fileName string, r io.Reader) (object.Object, error) {
	return object.Object{}, errors.New("disk full")
}

func (failingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not found")
}

func newTestService(t *testing.T, repo Repo) (*Service, *doccontext.Store) {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
	ctxStore := doccontext.New()
	svc := &Service{
		Store:     local.New(t.TempDir()),
		Extractor: extract.PDF{},
		Context:   ctxStore,
		Repo:      repo,
		now:       func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, ctxStore
}

func TestUploadReplacesContextAndRecordsFile(t *testing.T) {
	repo := NewMemoryRepo()
	svc, ctxStore := newTestService(t, repo)

	res, err := svc.Upload(context.Background(), "7", "invoice.pdf", bytes.NewReader(testutil.OnePagePDF("Invoice #42")))
	require.NoError(t, err)

	assert.Contains(t, ctxStore.Get(), "Invoice #42")
	assert.Equal(t, uint64(1), res.ContextVersion)
	assert.Equal(t, "application/pdf", res.MimeType)
	assert.Regexp(t, `^\d+-invoice\.pdf$`, res.StorageKey)

	files := repo.All()
	require.Len(t, files, 1)
	assert.Equal(t, "7", files[0].UserID)
	assert.Contains(t, files[0].FilePath, res.StorageKey)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), files[0].UploadedAt)
	assert.NotEmpty(t, files[0].ID)
}

func TestUploadMalformedLeavesContextUntouched(t *testing.T) {
	repo := NewMemoryRepo()
	svc, ctxStore := newTestService(t, repo)
	ctxStore.Set("previous document")

	_, err := svc.Upload(context.Background(), "1", "notes.txt", bytes.NewReader([]byte("not a pdf")))
	require.ErrorIs(t, err, extract.ErrExtraction)

	assert.Equal(t, "previous document", ctxStore.Get())
	assert.Equal(t, uint64(1), ctxStore.Version())
	assert.Empty(t, repo.All())
}

func TestUploadStoreFailureIsExtractionFailure(t *testing.T) {
	svc, ctxStore := newTestService(t, NewMemoryRepo())
	svc.Store = failingStore{}

	_, err := svc.Upload(context.Background(), "1", "a.pdf", bytes.NewReader(testutil.OnePagePDF("x")))
	require.ErrorIs(t, err, extract.ErrExtraction)
	assert.Equal(t, uint64(0), ctxStore.Version())
}

func TestUploadDatastoreFailureKeepsNewContext(t *testing.T) {
	svc, ctxStore := newTestService(t, failingRepo{})

	res, err := svc.Upload(context.Background(), "1", "a.pdf", bytes.NewReader(testutil.OnePagePDF("fresh text")))
	require.ErrorIs(t, err, ErrDatastore)
	assert.NotErrorIs(t, err, extract.ErrExtraction)

	assert.Contains(t, ctxStore.Get(), "fresh text")
	assert.Equal(t, uint64(1), res.ContextVersion)
}

func TestSecondUploadReplacesFirst(t *testing.T) {
	svc, ctxStore := newTestService(t, NewMemoryRepo())

	_, err := svc.Upload(context.Background(), "1", "a.pdf", bytes.NewReader(testutil.OnePagePDF("first document")))
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), "1", "b.pdf", bytes.NewReader(testutil.OnePagePDF("second document")))
	require.NoError(t, err)

	assert.Contains(t, ctxStore.Get(), "second document")
	assert.NotContains(t, ctxStore.Get(), "first document")
	assert.Equal(t, uint64(2), ctxStore.Version())
}
