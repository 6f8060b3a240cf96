package conversations

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat-backend/internal/doccontext"
	"pdfchat-backend/internal/llm"
	"pdfchat-backend/internal/shared/telemetry"
)

type recordingLLM struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
}

func (r *recordingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
	return r.answer, r.err
}

func (r *recordingLLM) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, rec Record) error {
	return errors.New("insert failed")
}

func newTestService(t *testing.T, model llm.Client, repo Repo) (*Service, *doccontext.Store) {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
	store := doccontext.New()
	return &Service{
		LLM:      model,
		Provider: "test",
		Context:  store,
		Repo:     repo,
		now:      func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}, store
}

func TestAskSendsQuestionAndContext(t *testing.T) {
	model := &recordingLLM{answer: "The invoice number is 42."}
	repo := NewMemoryRepo()
	svc, store := newTestService(t, model, repo)
	store.Set("Invoice #42")

	reply, err := svc.Ask(context.Background(), "1", "What is the invoice number?")
	require.NoError(t, err)
	assert.Equal(t, "The invoice number is 42.", reply.Answer)
	assert.Equal(t, uint64(1), reply.ContextVersion)

	prompts := model.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "What is the invoice number?")
	assert.Contains(t, prompts[0], "Invoice #42")

	records := repo.All()
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].UserID)
	assert.Equal(t, "What is the invoice number?", records[0].UserInput)
	assert.Equal(t, "The invoice number is 42.", records[0].AIResponse)
}

func TestAskWithoutUploadSendsEmptyContext(t *testing.T) {
	model := &recordingLLM{answer: "I have no document."}
	svc, _ := newTestService(t, model, NewMemoryRepo())

	reply, err := svc.Ask(context.Background(), "1", "Hello?")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reply.ContextVersion)

	prompts := model.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, BuildPrompt("Hello?", ""), prompts[0])
}

func TestAskWithEmptyInputStillCallsModel(t *testing.T) {
	model := &recordingLLM{answer: "ok"}
	svc, store := newTestService(t, model, NewMemoryRepo())
	store.Set("doc")

	_, err := svc.Ask(context.Background(), "1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{BuildPrompt("", "doc")}, model.Prompts())
}

func TestAskModelFailure(t *testing.T) {
	model := &recordingLLM{err: errors.New("quota exceeded")}
	repo := NewMemoryRepo()
	svc, _ := newTestService(t, model, repo)

	_, err := svc.Ask(context.Background(), "1", "q")
	require.ErrorIs(t, err, llm.ErrInvocation)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, repo.All())
}

func TestAskPlaceholderClientIsInvocationFailure(t *testing.T) {
	svc, _ := newTestService(t, llm.PlaceholderClient{}, NewMemoryRepo())
	_, err := svc.Ask(context.Background(), "1", "q")
	require.ErrorIs(t, err, llm.ErrInvocation)
	require.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestAskDatastoreFailure(t *testing.T) {
	model := &recordingLLM{answer: "answer"}
	svc, _ := newTestService(t, model, failingRepo{})

	reply, err := svc.Ask(context.Background(), "1", "q")
	require.ErrorIs(t, err, ErrDatastore)
	assert.NotErrorIs(t, err, llm.ErrInvocation)
	assert.Equal(t, "answer", reply.Answer)
}
