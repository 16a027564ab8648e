// Package biography implements the read-only biography oracle used by the
// prompt scheduler: does the subject have a biography, and which story
// fields already have content. Biography CRUD itself lives in the content
// service, not here.
package biography

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/panshun/climbstory-backend/internal/adapter/postgres"
)

// Repo provides biography lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new biography repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const existsSQL = `
SELECT EXISTS (SELECT 1 FROM biographies WHERE subject_id = $1)`

// A story counts as answered only when it has non-blank content; an empty
// draft row does not answer the field.
const answeredFieldIDsSQL = `
SELECT s.field_id
FROM biography_stories s
JOIN biographies b ON s.biography_id = b.id
WHERE b.subject_id = $1 AND btrim(s.content) <> ''`

// Exists reports whether the subject has a biography.
func (r *Repo) Exists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, subjectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("biography exists: %w", err)
	}

	return exists, nil
}

// AnsweredFieldIDs returns the set of story fields the subject has already
// written content for.
func (r *Repo) AnsweredFieldIDs(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, answeredFieldIDsSQL, subjectID)
	if err != nil {
		return nil, fmt.Errorf("answered field ids: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var fieldID string
		if err := rows.Scan(&fieldID); err != nil {
			return nil, fmt.Errorf("answered field ids: scan: %w", err)
		}
		set[fieldID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("answered field ids: iterate: %w", err)
	}

	return set, nil
}
