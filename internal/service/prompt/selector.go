package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panshun/climbstory-backend/internal/domain"
	"github.com/panshun/climbstory-backend/pkg/ctxutil"
)

// NextPrompt picks the next unfilled field to offer the subject and records
// the offer. Returns (nil, nil) when every catalog field is completed, the
// normal terminal state for a fully elaborated profile.
//
// Pacing is not re-checked here; callers confirm eligibility via
// ShouldPrompt first.
func (s *Service) NextPrompt(ctx context.Context, strategy domain.Strategy) (*domain.PromptSuggestion, error) {
	subjectID, ok := ctxutil.SubjectIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := s.requireProfile(ctx, subjectID); err != nil {
		return nil, err
	}

	// Selection reads and the offer record share one transaction.
	var suggestion *domain.PromptSuggestion
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		answered, err := s.bios.AnsweredFieldIDs(ctx, subjectID)
		if err != nil {
			return fmt.Errorf("answered fields: %w", err)
		}
		completed, err := s.states.FieldsCompleted(ctx, subjectID)
		if err != nil {
			return fmt.Errorf("completed fields: %w", err)
		}

		// Unfilled = catalog minus answered content minus recorded completions.
		unfilled := make([]domain.CatalogField, 0, s.catalog.Len())
		for _, field := range s.catalog.Fields() {
			if _, ok := answered[field.ID]; ok {
				continue
			}
			if _, ok := completed[field.ID]; ok {
				continue
			}
			unfilled = append(unfilled, field)
		}
		if len(unfilled) == 0 {
			return nil
		}

		now := s.now()

		inCooldown, err := s.states.FieldsDismissedSince(ctx, subjectID, now.Add(-s.cfg.CooldownAfterDismiss))
		if err != nil {
			return fmt.Errorf("cooldown fields: %w", err)
		}
		retired, err := s.states.FieldsDismissedAtLeast(ctx, subjectID, s.cfg.MaxDismissCount)
		if err != nil {
			return fmt.Errorf("retired fields: %w", err)
		}

		pool := candidatePool(unfilled, inCooldown, retired)

		chosen := s.pick(pool, strategy)

		if err := s.states.MarkPrompted(ctx, subjectID, chosen, now); err != nil {
			return fmt.Errorf("mark prompted: %w", err)
		}

		suggestion = &domain.PromptSuggestion{Field: chosen, Remaining: len(pool)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, nil
	}

	s.log.InfoContext(ctx, "prompt offered",
		slog.String("subject_id", subjectID.String()),
		slog.String("field_id", suggestion.Field.ID),
		slog.String("strategy", strategy.String()),
	)

	return suggestion, nil
}

// candidatePool applies the three-tier fallback: prefer unfilled fields that
// are neither cooling down nor retired, then admit cooling-down fields, then
// admit everything unfilled. Pacing alone never blocks progress permanently.
func candidatePool(unfilled []domain.CatalogField, inCooldown, retired map[string]struct{}) []domain.CatalogField {
	pool := subtract(unfilled, inCooldown, retired)
	if len(pool) > 0 {
		return pool
	}
	pool = subtract(unfilled, retired)
	if len(pool) > 0 {
		return pool
	}
	return unfilled
}

func subtract(fields []domain.CatalogField, excluded ...map[string]struct{}) []domain.CatalogField {
	out := make([]domain.CatalogField, 0, len(fields))
next:
	for _, field := range fields {
		for _, set := range excluded {
			if _, ok := set[field.ID]; ok {
				continue next
			}
		}
		out = append(out, field)
	}
	return out
}
