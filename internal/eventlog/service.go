package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/shared/telemetry"
	"docvault-backend/internal/users"
)

// Publisher pushes an event to live subscribers. Publish is best-effort.
type Publisher interface {
	Publish(eventType string, payload any)
}

// ReceiveLogEvent is the push message type live subscribers listen for.
const ReceiveLogEvent = "ReceiveLog"

type Service struct {
	Repo Repo
	Pub  Publisher
}

func NewService(repo Repo, pub Publisher) *Service {
	return &Service{Repo: repo, Pub: pub}
}

// Log appends an audit record and, once durable, pushes it to live
// subscribers. A push failure never fails the append.
func (s *Service) Log(ctx context.Context, eventType, description string, userID *string) (EventLog, error) {
	log := EventLog{
		ID:          uuid.NewString(),
		EventType:   eventType,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, log); err != nil {
		return EventLog{}, err
	}
	if s.Pub != nil {
		s.Pub.Publish(ReceiveLogEvent, toDto(log))
	}
	return log, nil
}

// LogEvent is the sink form of Log for callers that only care whether the
// append succeeded.
func (s *Service) LogEvent(ctx context.Context, eventType, description string, userID *string) error {
	_, err := s.Log(ctx, eventType, description, userID)
	if err != nil {
		telemetry.Error("eventlog.append_failed", map[string]any{
			"event_type": eventType,
			"err":        err.Error(),
		})
	}
	return err
}

// List returns the audit trail visible to the caller: admins see every
// event, other users only their own.
func (s *Service) List(ctx context.Context, callerID string, role users.Role) ([]EventLog, error) {
	if role == users.RoleAdmin {
		return s.Repo.List(ctx)
	}
	return s.Repo.ListByUser(ctx, callerID)
}
