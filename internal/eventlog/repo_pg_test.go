package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateWritesAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	uid := "user-1"
	log := EventLog{
		ID:          "evt-1",
		EventType:   "Document Upload",
		Description: "Document 'report.pdf' uploaded.",
		UserID:      &uid,
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO event_logs").
		WithArgs(log.ID, log.EventType, log.Description, &uid, log.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListScansNullUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rows := sqlmock.NewRows([]string{"id", "event_type", "description", "user_id", "created_at"}).
		AddRow("evt-2", "AI Analysis Warning", "mock engine in use", nil, time.Now().UTC())
	mock.ExpectQuery("SELECT id, event_type, description, user_id, created_at").
		WillReturnRows(rows)

	logs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].UserID != nil {
		t.Fatalf("expected nil user id, got %v", *logs[0].UserID)
	}
}
