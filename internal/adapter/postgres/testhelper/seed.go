package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedBiography creates a biography for a fresh subject and returns
// (subjectID, biographyID).
func SeedBiography(t *testing.T, pool *pgxpool.Pool) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	subjectID := uuid.New()
	biographyID := uuid.New()

	_, err := pool.Exec(ctx,
		`INSERT INTO biographies (id, subject_id, title) VALUES ($1, $2, $3)`,
		biographyID, subjectID, "Test Biography",
	)
	if err != nil {
		t.Fatalf("seed biography: %v", err)
	}

	return subjectID, biographyID
}

// SeedStory inserts story content for a biography field.
func SeedStory(t *testing.T, pool *pgxpool.Pool, biographyID uuid.UUID, fieldID, content string) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO biography_stories (biography_id, field_id, content) VALUES ($1, $2, $3)
		 ON CONFLICT (biography_id, field_id) DO UPDATE SET content = EXCLUDED.content, updated_at = now()`,
		biographyID, fieldID, content,
	)
	if err != nil {
		t.Fatalf("seed story: %v", err)
	}
}
