package eventlog

import "context"

type Repo interface {
	Create(ctx context.Context, log EventLog) error
	// List returns events newest first.
	List(ctx context.Context) ([]EventLog, error)
	// ListByUser returns only events attributed to the given user,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]EventLog, error)
}
