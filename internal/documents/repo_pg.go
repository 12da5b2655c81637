package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	DB *sql.DB
}

const insertDocument = `
INSERT INTO documents (id, user_id, file_name, content_type, file_size, storage_key, is_processed, analysis_result, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	_, err := r.DB.ExecContext(ctx, insertDocument,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.ContentType,
		doc.FileSize,
		doc.StorageKey,
		doc.IsProcessed,
		doc.AnalysisResult,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

const selectDocument = `
SELECT id, user_id, file_name, content_type, file_size, storage_key, is_processed, analysis_result, created_at, updated_at
FROM documents`

func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	row := r.DB.QueryRowContext(ctx, selectDocument+` WHERE id = $1 LIMIT 1`, documentID)
	return scanDocument(row)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, selectDocument+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var analysisResult sql.NullString
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.ContentType,
		&doc.FileSize,
		&doc.StorageKey,
		&doc.IsProcessed,
		&analysisResult,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if analysisResult.Valid {
		doc.AnalysisResult = &analysisResult.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
