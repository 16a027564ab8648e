package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panshun/climbstory-backend/internal/domain"
	"github.com/panshun/climbstory-backend/pkg/ctxutil"
)

// ShouldPrompt decides whether the subject may be prompted right now.
// It only reads state; calling it repeatedly consumes no quota.
func (s *Service) ShouldPrompt(ctx context.Context) (domain.Eligibility, error) {
	subjectID, ok := ctxutil.SubjectIDFromCtx(ctx)
	if !ok {
		return domain.Eligibility{}, domain.ErrUnauthorized
	}

	exists, err := s.bios.Exists(ctx, subjectID)
	if err != nil {
		return domain.Eligibility{}, fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return domain.Eligibility{Eligible: false, Reason: domain.ReasonNoProfile}, nil
	}

	now := s.now()

	last, err := s.states.LastPromptedAt(ctx, subjectID)
	if err != nil {
		return domain.Eligibility{}, fmt.Errorf("last prompted at: %w", err)
	}
	if last != nil && now.Sub(*last) < s.cfg.MinGapBetweenPrompts {
		return domain.Eligibility{Eligible: false, Reason: domain.ReasonTooSoon}, nil
	}

	// Trailing window, computed at call time. Not calendar-aligned.
	count, err := s.states.CountPromptedSince(ctx, subjectID, now.Add(-weeklyWindow))
	if err != nil {
		return domain.Eligibility{}, fmt.Errorf("count prompted this week: %w", err)
	}
	if count >= s.cfg.MaxPromptsPerWeek {
		s.log.DebugContext(ctx, "weekly prompt cap reached",
			slog.String("subject_id", subjectID.String()),
			slog.Int("count", count),
		)
		return domain.Eligibility{Eligible: false, Reason: domain.ReasonWeeklyLimit}, nil
	}

	return domain.Eligibility{Eligible: true, Reason: domain.ReasonEligible}, nil
}
