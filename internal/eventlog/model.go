package eventlog

import "time"

// EventLog is one append-only audit record. Events are never updated or
// deleted after creation.
type EventLog struct {
	ID          string
	EventType   string
	Description string
	UserID      *string
	CreatedAt   time.Time
}

// Dto is the wire shape pushed to live subscribers and returned by the
// query boundary.
type Dto struct {
	ID           string  `json:"id"`
	EventType    string  `json:"eventType"`
	Description  string  `json:"description"`
	UserID       *string `json:"userId"`
	CreationDate string  `json:"creationDate"`
}

func toDto(log EventLog) Dto {
	return Dto{
		ID:           log.ID,
		EventType:    log.EventType,
		Description:  log.Description,
		UserID:       log.UserID,
		CreationDate: log.CreatedAt.UTC().Format(time.RFC3339),
	}
}
