package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/panshun/climbstory-backend/internal/domain"
)

// promptService defines the minimal interface needed by PromptsHandler.
type promptService interface {
	ShouldPrompt(ctx context.Context) (domain.Eligibility, error)
	NextPrompt(ctx context.Context, strategy domain.Strategy) (*domain.PromptSuggestion, error)
	Dismiss(ctx context.Context, fieldID string) error
	Complete(ctx context.Context, fieldID string) error
	Progress(ctx context.Context, filter domain.PromptStateFilter) (*domain.ProfileProgress, error)
}

// PromptsHandler serves the story prompt scheduling endpoints.
type PromptsHandler struct {
	svc promptService
	log *slog.Logger
}

// NewPromptsHandler creates a PromptsHandler.
func NewPromptsHandler(svc promptService, logger *slog.Logger) *PromptsHandler {
	return &PromptsHandler{svc: svc, log: logger.With("handler", "prompts")}
}

type eligibilityResponse struct {
	ShouldPrompt bool   `json:"should_prompt"`
	Reason       string `json:"reason"`
}

// ShouldPrompt reports whether the subject may be prompted right now.
// GET /api/story-prompts/should-prompt
func (h *PromptsHandler) ShouldPrompt(w http.ResponseWriter, r *http.Request) {
	eligibility, err := h.svc.ShouldPrompt(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, eligibilityResponse{
		ShouldPrompt: eligibility.Eligible,
		Reason:       eligibility.Reason.String(),
	})
}

type fieldResponse struct {
	FieldID  string `json:"field_id"`
	Category string `json:"category"`
}

type nextPromptResponse struct {
	Field          *fieldResponse `json:"field"`
	RemainingCount int            `json:"remaining_count"`
	AllCompleted   bool           `json:"all_completed"`
}

// Next picks the next field to offer and records the offer.
// GET /api/story-prompts/next?strategy=easy_first
func (h *PromptsHandler) Next(w http.ResponseWriter, r *http.Request) {
	strategy := domain.ParseStrategy(r.URL.Query().Get("strategy"))

	suggestion, err := h.svc.NextPrompt(r.Context(), strategy)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if suggestion == nil {
		// Every field answered. Terminal, not an error.
		writeJSON(w, http.StatusOK, nextPromptResponse{AllCompleted: true})
		return
	}

	writeJSON(w, http.StatusOK, nextPromptResponse{
		Field: &fieldResponse{
			FieldID:  suggestion.Field.ID,
			Category: suggestion.Field.Category.String(),
		},
		RemainingCount: suggestion.Remaining,
	})
}

// Dismiss records that the subject declined the field.
// POST /api/story-prompts/{field}/dismiss
func (h *PromptsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Dismiss(r.Context(), r.PathValue("field")); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Complete records that the subject supplied content for the field.
// POST /api/story-prompts/{field}/complete
func (h *PromptsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Complete(r.Context(), r.PathValue("field")); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type promptStateResponse struct {
	FieldID         string     `json:"field_id"`
	Category        string     `json:"category"`
	PromptedAt      *time.Time `json:"prompted_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DismissedCount  int        `json:"dismissed_count"`
	LastDismissedAt *time.Time `json:"last_dismissed_at"`
}

type progressTotals struct {
	TotalPrompted        int `json:"total_prompted"`
	TotalCompleted       int `json:"total_completed"`
	PermanentlyDismissed int `json:"permanently_dismissed"`
}

type progressResponse struct {
	Fields []promptStateResponse `json:"fields"`
	Totals progressTotals        `json:"totals"`
}

// Progress returns the subject's prompting history and totals.
// GET /api/story-prompts/progress?category=growth&dismissed=true&completed=true
func (h *PromptsHandler) Progress(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProgressFilter(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	progress, err := h.svc.Progress(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if progress == nil {
		// No biography yet, so nothing to report.
		writeJSON(w, http.StatusOK, nil)
		return
	}

	fields := make([]promptStateResponse, 0, len(progress.Fields))
	for _, st := range progress.Fields {
		fields = append(fields, promptStateResponse{
			FieldID:         st.FieldID,
			Category:        st.Category.String(),
			PromptedAt:      st.PromptedAt,
			CompletedAt:     st.CompletedAt,
			DismissedCount:  st.DismissedCount,
			LastDismissedAt: st.LastDismissedAt,
		})
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Fields: fields,
		Totals: progressTotals{
			TotalPrompted:        progress.Stats.TotalPrompted,
			TotalCompleted:       progress.Stats.TotalCompleted,
			PermanentlyDismissed: progress.Stats.PermanentlyDismissed,
		},
	})
}

func parseProgressFilter(r *http.Request) (domain.PromptStateFilter, error) {
	var filter domain.PromptStateFilter

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.FieldCategory(raw)
		if !category.IsValid() {
			return filter, fmt.Errorf("unknown category %q: %w", raw, domain.ErrValidation)
		}
		filter.Category = &category
	}
	filter.OnlyDismissed = r.URL.Query().Get("dismissed") == "true"
	filter.OnlyCompleted = r.URL.Query().Get("completed") == "true"

	return filter, nil
}
