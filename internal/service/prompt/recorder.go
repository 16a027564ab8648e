package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panshun/climbstory-backend/pkg/ctxutil"

	"github.com/panshun/climbstory-backend/internal/domain"
)

// Dismiss records that the subject declined the offered field. Each call adds
// exactly one to the dismissal count; the increment is atomic at the store
// level so concurrent dismissals all count.
func (s *Service) Dismiss(ctx context.Context, fieldID string) error {
	subjectID, ok := ctxutil.SubjectIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	field, err := s.lookupField(fieldID)
	if err != nil {
		return err
	}
	if err := s.requireProfile(ctx, subjectID); err != nil {
		return err
	}

	if err := s.states.MarkDismissed(ctx, subjectID, field, s.now()); err != nil {
		return fmt.Errorf("mark dismissed: %w", err)
	}

	s.log.InfoContext(ctx, "prompt dismissed",
		slog.String("subject_id", subjectID.String()),
		slog.String("field_id", field.ID),
	)

	return nil
}

// Complete records that the subject supplied content for the field. Repeat
// calls refresh completed_at to the latest call.
func (s *Service) Complete(ctx context.Context, fieldID string) error {
	subjectID, ok := ctxutil.SubjectIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	field, err := s.lookupField(fieldID)
	if err != nil {
		return err
	}
	if err := s.requireProfile(ctx, subjectID); err != nil {
		return err
	}

	if err := s.states.MarkCompleted(ctx, subjectID, field, s.now()); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	s.log.InfoContext(ctx, "prompt completed",
		slog.String("subject_id", subjectID.String()),
		slog.String("field_id", field.ID),
	)

	return nil
}
