package conversations

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/server/middleware"
)

type responseBody struct {
	Success    bool   `json:"success"`
	AIResponse string `json:"aiResponse"`
	Message    string `json:"message"`
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity("1"))
	h.RegisterRoutes(r)
	return r
}

func postConversation(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, responseBody) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/conversation", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var out responseBody
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return resp, out
}

func TestConversationHandler(t *testing.T) {
	tests := []struct {
		name        string
		model       *recordingLLM
		repo        Repo
		body        string
		wantStatus  int
		wantAnswer  string
		wantMessage string
		wantPrompt  string
	}{
		{
			name:       "answer",
			model:      &recordingLLM{answer: "42"},
			repo:       NewMemoryRepo(),
			body:       `{"userInput":"What is the invoice number?"}`,
			wantStatus: http.StatusOK,
			wantAnswer: "42",
			wantPrompt: BuildPrompt("What is the invoice number?", "Invoice #42"),
		},
		{
			name:       "empty input",
			model:      &recordingLLM{answer: "Please ask something."},
			repo:       NewMemoryRepo(),
			body:       `{"userInput":""}`,
			wantStatus: http.StatusOK,
			wantAnswer: "Please ask something.",
			wantPrompt: BuildPrompt("", "Invoice #42"),
		},
		{
			name:       "missing field",
			model:      &recordingLLM{answer: "ok"},
			repo:       NewMemoryRepo(),
			body:       `{}`,
			wantStatus: http.StatusOK,
			wantAnswer: "ok",
			wantPrompt: BuildPrompt("", "Invoice #42"),
		},
		{
			name:       "empty body",
			model:      &recordingLLM{answer: "ok"},
			repo:       NewMemoryRepo(),
			body:       ``,
			wantStatus: http.StatusOK,
			wantAnswer: "ok",
			wantPrompt: BuildPrompt("", "Invoice #42"),
		},
		{
			name:        "model failure",
			model:       &recordingLLM{err: errors.New("503 from provider")},
			repo:        NewMemoryRepo(),
			body:        `{"userInput":"q"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Error processing input with AI",
			wantPrompt:  BuildPrompt("q", "Invoice #42"),
		},
		{
			name:        "audit write fails",
			model:       &recordingLLM{answer: "a"},
			repo:        failingRepo{},
			body:        `{"userInput":"q"}`,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Database error",
			wantPrompt:  BuildPrompt("q", "Invoice #42"),
		},
		{
			name:        "not json",
			model:       &recordingLLM{answer: "a"},
			repo:        NewMemoryRepo(),
			body:        `userInput=q`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, tt.model, tt.repo)
			store.Set("Invoice #42")
			router := newRouter(NewHandler(svc))

			resp, out := postConversation(t, router, tt.body)
			if resp.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, resp.Code, resp.Body.String())
			}
			if out.AIResponse != tt.wantAnswer || out.Message != tt.wantMessage {
				t.Fatalf("unexpected body: %+v", out)
			}
			if out.Success != (tt.wantStatus == http.StatusOK) {
				t.Fatalf("unexpected success flag: %+v", out)
			}

			prompts := tt.model.Prompts()
			if tt.wantPrompt == "" {
				if len(prompts) != 0 {
					t.Fatalf("expected no model call, got %d", len(prompts))
				}
				return
			}
			if len(prompts) != 1 || prompts[0] != tt.wantPrompt {
				t.Fatalf("unexpected prompts: %q", prompts)
			}
		})
	}
}
