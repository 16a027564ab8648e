package promptstate

import (
	"context"

	"github.com/google/uuid"

	"github.com/panshun/climbstory-backend/internal/domain"
)

// Get exposes the single-row lookup to the package's external tests.
func (r *Repo) Get(ctx context.Context, subjectID uuid.UUID, fieldID string) (*domain.PromptState, error) {
	return r.get(ctx, subjectID, fieldID)
}
