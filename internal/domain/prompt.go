package domain

import (
	"time"

	"github.com/google/uuid"
)

// PromptState is the per-(subject, field) prompting history. There is at
// most one state per pair; rows are created lazily on first prompt, first
// dismissal, or first completion via atomic upserts in the store.
type PromptState struct {
	SubjectID       uuid.UUID
	FieldID         string
	Category        FieldCategory
	PromptedAt      *time.Time
	CompletedAt     *time.Time
	DismissedCount  int
	LastDismissedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Completed reports whether the subject has supplied content for this field.
// Completion is terminal: a completed field is never offered again.
func (s *PromptState) Completed() bool {
	return s.CompletedAt != nil
}

// PermanentlyDismissed reports whether the field has been dismissed at least
// maxDismissCount times and is retired from future offers.
func (s *PromptState) PermanentlyDismissed(maxDismissCount int) bool {
	return s.DismissedCount >= maxDismissCount
}

// InCooldown reports whether the field was dismissed within the cooldown
// window ending at now. Fields never dismissed are not in cooldown.
func (s *PromptState) InCooldown(now time.Time, cooldown time.Duration) bool {
	if s.DismissedCount == 0 || s.LastDismissedAt == nil {
		return false
	}
	return s.LastDismissedAt.After(now.Add(-cooldown))
}

// PromptStateFilter narrows a per-subject prompt state listing.
type PromptStateFilter struct {
	// Category restricts rows to one field category. nil means all.
	Category *FieldCategory

	// OnlyDismissed keeps rows with at least one dismissal.
	OnlyDismissed bool

	// OnlyCompleted keeps rows with a recorded completion.
	OnlyCompleted bool
}

// PromptStats is the aggregate rollup of a subject's prompting history.
type PromptStats struct {
	TotalPrompted        int
	TotalCompleted       int
	PermanentlyDismissed int
}

// Eligibility is the outcome of the prompting pacing check.
type Eligibility struct {
	Eligible bool
	Reason   EligibilityReason
}

// PromptSuggestion is the outcome of picking the next field to offer.
// Remaining is the candidate pool size the pick was made from, for
// "X more to go" messaging.
type PromptSuggestion struct {
	Field     CatalogField
	Remaining int
}

// ProfileProgress is the read-only rollup of a subject's prompting history.
type ProfileProgress struct {
	Fields []*PromptState
	Stats  PromptStats
}
