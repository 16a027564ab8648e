package prompt

import (
	"context"
	"fmt"

	"github.com/panshun/climbstory-backend/internal/domain"
	"github.com/panshun/climbstory-backend/pkg/ctxutil"
)

// Progress returns the subject's full prompting history and aggregate totals.
// Returns (nil, nil) when the subject has no profile: there is no history to
// report, which is not an error.
func (s *Service) Progress(ctx context.Context, filter domain.PromptStateFilter) (*domain.ProfileProgress, error) {
	subjectID, ok := ctxutil.SubjectIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	exists, err := s.bios.Exists(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return nil, nil
	}

	fields, err := s.states.List(ctx, subjectID, filter)
	if err != nil {
		return nil, fmt.Errorf("list prompt states: %w", err)
	}

	stats, err := s.states.Stats(ctx, subjectID, s.cfg.MaxDismissCount)
	if err != nil {
		return nil, fmt.Errorf("prompt stats: %w", err)
	}

	return &domain.ProfileProgress{Fields: fields, Stats: stats}, nil
}
