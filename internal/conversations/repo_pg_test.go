package conversations

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_history")).
		WithArgs("id-1", "1", "What is the invoice number?", "42", createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	err = repo.Create(context.Background(), Record{
		ID:         "id-1",
		UserID:     "1",
		UserInput:  "What is the invoice number?",
		AIResponse: "42",
		CreatedAt:  createdAt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGRepoCreatePropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_history")).WillReturnError(boom)

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), Record{ID: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}
