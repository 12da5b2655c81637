package eventlog

import (
	"context"
	"database/sql"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	DB *sql.DB
}

const insertEventLog = `
INSERT INTO event_logs (id, event_type, description, user_id, created_at)
VALUES ($1, $2, $3, $4, $5)`

func (r *PGRepo) Create(ctx context.Context, log EventLog) error {
	_, err := r.DB.ExecContext(ctx, insertEventLog,
		log.ID,
		log.EventType,
		log.Description,
		log.UserID,
		log.CreatedAt,
	)
	return err
}

const selectEventLog = `
SELECT id, event_type, description, user_id, created_at
FROM event_logs`

func (r *PGRepo) List(ctx context.Context) ([]EventLog, error) {
	rows, err := r.DB.QueryContext(ctx, selectEventLog+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]EventLog, error) {
	rows, err := r.DB.QueryContext(ctx, selectEventLog+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func collectLogs(rows *sql.Rows) ([]EventLog, error) {
	var out []EventLog
	for rows.Next() {
		var log EventLog
		var userID sql.NullString
		if err := rows.Scan(&log.ID, &log.EventType, &log.Description, &userID, &log.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			log.UserID = &userID.String
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
