// Package promptstate implements the PromptState repository using PostgreSQL.
// All writes are single-statement atomic upserts keyed on
// (subject_id, field_id) so that concurrent requests for the same pair never
// lose updates; reads are plain queries (a slightly stale read is tolerable
// for scheduling decisions).
package promptstate

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/panshun/climbstory-backend/internal/adapter/postgres"
	"github.com/panshun/climbstory-backend/internal/domain"
)

// Repo provides prompt state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new prompt state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Atomic upserts
// ---------------------------------------------------------------------------

// GREATEST ignores NULL in PostgreSQL, so a first prompt (existing
// prompted_at IS NULL) takes the new timestamp and later prompts can only
// move it forward. That keeps prompted_at monotonic per pair even under
// concurrent calls.
const markPromptedSQL = `
INSERT INTO story_prompts (subject_id, field_id, category, prompted_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (subject_id, field_id) DO UPDATE SET
    prompted_at = GREATEST(story_prompts.prompted_at, EXCLUDED.prompted_at),
    updated_at  = now()`

const markDismissedSQL = `
INSERT INTO story_prompts (subject_id, field_id, category, dismissed_count, last_dismissed_at)
VALUES ($1, $2, $3, 1, $4)
ON CONFLICT (subject_id, field_id) DO UPDATE SET
    dismissed_count   = story_prompts.dismissed_count + 1,
    last_dismissed_at = EXCLUDED.last_dismissed_at,
    updated_at        = now()`

// Completion overwrites completed_at on repeat calls (the record tracks the
// most recent completion, mirroring the content save it accompanies).
const markCompletedSQL = `
INSERT INTO story_prompts (subject_id, field_id, category, completed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (subject_id, field_id) DO UPDATE SET
    completed_at = EXCLUDED.completed_at,
    updated_at   = now()`

// MarkPrompted records that the field was offered to the subject at promptedAt,
// creating the row if absent.
func (r *Repo) MarkPrompted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, promptedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, markPromptedSQL, subjectID, field.ID, string(field.Category), promptedAt)
	if err != nil {
		return postgres.MapError(err, "story_prompt", pairKey(subjectID, field.ID))
	}

	return nil
}

// MarkDismissed increments dismissed_count by exactly one and stamps
// last_dismissed_at, creating the row with count 1 if absent. The increment
// happens in the database, so N concurrent dismissals add exactly N.
func (r *Repo) MarkDismissed(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, dismissedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, markDismissedSQL, subjectID, field.ID, string(field.Category), dismissedAt)
	if err != nil {
		return postgres.MapError(err, "story_prompt", pairKey(subjectID, field.ID))
	}

	return nil
}

// MarkCompleted records that the subject supplied content for the field,
// creating the row if absent.
func (r *Repo) MarkCompleted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, completedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, markCompletedSQL, subjectID, field.ID, string(field.Category), completedAt)
	if err != nil {
		return postgres.MapError(err, "story_prompt", pairKey(subjectID, field.ID))
	}

	return nil
}

// ---------------------------------------------------------------------------
// Scheduling reads
// ---------------------------------------------------------------------------

const lastPromptedAtSQL = `
SELECT max(prompted_at) FROM story_prompts WHERE subject_id = $1`

const countPromptedSinceSQL = `
SELECT count(*) FROM story_prompts
WHERE subject_id = $1 AND prompted_at >= $2`

const fieldsDismissedSinceSQL = `
SELECT field_id FROM story_prompts
WHERE subject_id = $1 AND dismissed_count > 0 AND last_dismissed_at > $2`

const fieldsDismissedAtLeastSQL = `
SELECT field_id FROM story_prompts
WHERE subject_id = $1 AND dismissed_count >= $2`

const fieldsCompletedSQL = `
SELECT field_id FROM story_prompts
WHERE subject_id = $1 AND completed_at IS NOT NULL`

// LastPromptedAt returns the most recent prompted_at across all fields for
// the subject, or nil if the subject was never prompted.
func (r *Repo) LastPromptedAt(ctx context.Context, subjectID uuid.UUID) (*time.Time, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var last *time.Time
	if err := querier.QueryRow(ctx, lastPromptedAtSQL, subjectID).Scan(&last); err != nil {
		return nil, fmt.Errorf("last prompted_at: %w", err)
	}

	return last, nil
}

// CountPromptedSince returns the number of fields whose most recent prompt
// falls at or after since.
func (r *Repo) CountPromptedSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countPromptedSinceSQL, subjectID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count prompted since: %w", err)
	}

	return count, nil
}

// FieldsDismissedSince returns the IDs of fields dismissed after the given
// cutoff (the cooldown set).
func (r *Repo) FieldsDismissedSince(ctx context.Context, subjectID uuid.UUID, cutoff time.Time) (map[string]struct{}, error) {
	return r.fieldIDSet(ctx, fieldsDismissedSinceSQL, "fields dismissed since", subjectID, cutoff)
}

// FieldsDismissedAtLeast returns the IDs of fields dismissed at least
// minCount times (the permanently excluded set).
func (r *Repo) FieldsDismissedAtLeast(ctx context.Context, subjectID uuid.UUID, minCount int) (map[string]struct{}, error) {
	return r.fieldIDSet(ctx, fieldsDismissedAtLeastSQL, "fields dismissed at least", subjectID, minCount)
}

// FieldsCompleted returns the IDs of fields with a recorded completion.
func (r *Repo) FieldsCompleted(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
	return r.fieldIDSet(ctx, fieldsCompletedSQL, "fields completed", subjectID)
}

func (r *Repo) fieldIDSet(ctx context.Context, query, op string, args ...any) (map[string]struct{}, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var fieldID string
		if err := rows.Scan(&fieldID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		set[fieldID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}

	return set, nil
}

// ---------------------------------------------------------------------------
// Progress reads
// ---------------------------------------------------------------------------

// List returns all prompt states for a subject matching the filter, ordered
// by field_id. Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, subjectID uuid.UUID, filter domain.PromptStateFilter) ([]*domain.PromptState, error) {
	q := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("subject_id", "field_id", "category", "prompted_at", "completed_at",
			"dismissed_count", "last_dismissed_at", "created_at", "updated_at").
		From("story_prompts").
		Where(sq.Eq{"subject_id": subjectID}).
		OrderBy("field_id")

	if filter.Category != nil {
		q = q.Where(sq.Eq{"category": string(*filter.Category)})
	}
	if filter.OnlyDismissed {
		q = q.Where(sq.Gt{"dismissed_count": 0})
	}
	if filter.OnlyCompleted {
		q = q.Where(sq.NotEq{"completed_at": nil})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list prompt states: %w", err)
	}
	defer rows.Close()

	states := []*domain.PromptState{}
	for rows.Next() {
		var (
			st       domain.PromptState
			category string
		)
		if err := rows.Scan(
			&st.SubjectID, &st.FieldID, &category, &st.PromptedAt, &st.CompletedAt,
			&st.DismissedCount, &st.LastDismissedAt, &st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prompt state: %w", err)
		}
		st.Category = domain.FieldCategory(category)
		states = append(states, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt states: %w", err)
	}

	return states, nil
}

const getSQL = `
SELECT subject_id, field_id, category, prompted_at, completed_at,
       dismissed_count, last_dismissed_at, created_at, updated_at
FROM story_prompts
WHERE subject_id = $1 AND field_id = $2`

// get returns the prompt state for one (subject, field) pair.
// Returns domain.ErrNotFound if no row exists yet. Only the package's own
// tests read single rows; the service works with field sets and lists.
func (r *Repo) get(ctx context.Context, subjectID uuid.UUID, fieldID string) (*domain.PromptState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		st       domain.PromptState
		category string
	)
	err := querier.QueryRow(ctx, getSQL, subjectID, fieldID).Scan(
		&st.SubjectID, &st.FieldID, &category, &st.PromptedAt, &st.CompletedAt,
		&st.DismissedCount, &st.LastDismissedAt, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "story_prompt", pairKey(subjectID, fieldID))
	}
	st.Category = domain.FieldCategory(category)

	return &st, nil
}

const statsSQL = `
SELECT
    count(*) FILTER (WHERE prompted_at IS NOT NULL)    AS total_prompted,
    count(*) FILTER (WHERE completed_at IS NOT NULL)   AS total_completed,
    count(*) FILTER (WHERE dismissed_count >= $2)      AS permanently_dismissed
FROM story_prompts
WHERE subject_id = $1`

// Stats returns aggregate prompting totals for a subject, computed entirely
// in SQL (no loading of individual rows).
func (r *Repo) Stats(ctx context.Context, subjectID uuid.UUID, maxDismissCount int) (domain.PromptStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var stats domain.PromptStats
	err := querier.QueryRow(ctx, statsSQL, subjectID, maxDismissCount).Scan(
		&stats.TotalPrompted, &stats.TotalCompleted, &stats.PermanentlyDismissed,
	)
	if err != nil {
		return domain.PromptStats{}, fmt.Errorf("prompt stats: %w", err)
	}

	return stats, nil
}

func pairKey(subjectID uuid.UUID, fieldID string) string {
	return subjectID.String() + " " + fieldID
}
