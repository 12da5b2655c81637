package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"docvault-backend/internal/users"
)

type recordingPublisher struct {
	events []string
	last   any
}

func (p *recordingPublisher) Publish(eventType string, payload any) {
	p.events = append(p.events, eventType)
	p.last = payload
}

type orderRepo struct {
	MemoryRepo
	calls *[]string
}

func (r *orderRepo) Create(ctx context.Context, log EventLog) error {
	*r.calls = append(*r.calls, "create")
	return r.MemoryRepo.Create(ctx, log)
}

type orderPublisher struct {
	calls *[]string
}

func (p *orderPublisher) Publish(string, any) {
	*p.calls = append(*p.calls, "publish")
}

func TestLogPersistsBeforePublishing(t *testing.T) {
	var calls []string
	svc := NewService(&orderRepo{calls: &calls}, &orderPublisher{calls: &calls})

	uid := "user-1"
	log, err := svc.Log(context.Background(), "Document Upload", "Document 'a.pdf' uploaded.", &uid)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if log.ID == "" {
		t.Fatal("expected generated id")
	}
	if len(calls) != 2 || calls[0] != "create" || calls[1] != "publish" {
		t.Fatalf("expected create before publish, got %v", calls)
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, EventLog) error { return errors.New("db down") }
func (failingRepo) List(context.Context) ([]EventLog, error) {
	return nil, errors.New("db down")
}
func (failingRepo) ListByUser(context.Context, string) ([]EventLog, error) {
	return nil, errors.New("db down")
}

func TestLogDoesNotPublishWhenAppendFails(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(failingRepo{}, pub)

	if _, err := svc.Log(context.Background(), "AI Analysis", "x", nil); err == nil {
		t.Fatal("expected error")
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no publish after failed append, got %v", pub.events)
	}
}

func TestLogPushesReceiveLogDto(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(NewMemoryRepo(), pub)

	uid := "user-9"
	if _, err := svc.Log(context.Background(), "AI Analysis", "done", &uid); err != nil {
		t.Fatalf("Log: %v", err)
	}

	if len(pub.events) != 1 || pub.events[0] != ReceiveLogEvent {
		t.Fatalf("expected one %q publish, got %v", ReceiveLogEvent, pub.events)
	}
	dto, ok := pub.last.(Dto)
	if !ok {
		t.Fatalf("expected Dto payload, got %T", pub.last)
	}
	if dto.EventType != "AI Analysis" || dto.UserID == nil || *dto.UserID != uid {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if _, err := time.Parse(time.RFC3339, dto.CreationDate); err != nil {
		t.Fatalf("creationDate not RFC3339: %q", dto.CreationDate)
	}
}

func TestListScopesByRole(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	alice := "alice"
	bob := "bob"
	seed := []EventLog{
		{ID: "1", EventType: "Document Upload", UserID: &alice, CreatedAt: time.Now().Add(-2 * time.Minute)},
		{ID: "2", EventType: "AI Analysis", UserID: &bob, CreatedAt: time.Now().Add(-time.Minute)},
		{ID: "3", EventType: "AI Analysis Warning", UserID: nil, CreatedAt: time.Now()},
	}
	for _, l := range seed {
		if err := repo.Create(context.Background(), l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := svc.List(context.Background(), alice, users.RoleAdmin)
	if err != nil {
		t.Fatalf("List admin: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin expected 3 events, got %d", len(all))
	}
	if all[0].ID != "3" {
		t.Fatalf("expected newest first, got %q", all[0].ID)
	}

	own, err := svc.List(context.Background(), alice, users.RoleUser)
	if err != nil {
		t.Fatalf("List user: %v", err)
	}
	if len(own) != 1 || own[0].ID != "1" {
		t.Fatalf("non-admin expected only own events, got %+v", own)
	}
}
