package prompt

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/panshun/climbstory-backend/internal/domain"
)

// fixedNow is the frozen clock used across the scheduling tests.
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *domain.FieldCatalog {
	t.Helper()
	catalog, err := domain.NewFieldCatalog([]domain.CatalogField{
		{ID: "first_grade", Category: domain.CategoryGrowth},
		{ID: "breakthrough_story", Category: domain.CategoryGrowth},
		{ID: "dream_climb", Category: domain.CategoryDreams},
	})
	if err != nil {
		t.Fatalf("build test catalog: %v", err)
	}
	return catalog
}

func testConfig() Config {
	return Config{
		MinGapBetweenPrompts: 12 * time.Hour,
		MaxPromptsPerWeek:    14,
		CooldownAfterDismiss: 24 * time.Hour,
		MaxDismissCount:      10,
		EasyFields:           []string{"dream_climb"},
		CategoryOrder:        []domain.FieldCategory{domain.CategoryGrowth, domain.CategoryDreams},
	}
}

// newTestService builds a Service over the given mocks with a frozen clock
// and a deterministic randomness source.
func newTestService(t *testing.T, bios *biographyRepoMock, states *promptStateRepoMock) *Service {
	t.Helper()
	svc, err := NewService(
		slog.Default(),
		bios,
		states,
		&txManagerMock{},
		testCatalog(t),
		testConfig(),
		WithNow(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

// profileExists is an existing-profile biography mock with no answered fields.
func profileExists() *biographyRepoMock {
	return &biographyRepoMock{
		ExistsFunc: func(ctx context.Context, subjectID uuid.UUID) (bool, error) {
			return true, nil
		},
		AnsweredFieldIDsFunc: func(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
	}
}

// cleanStates is a prompt state mock for a subject with no history.
func cleanStates() *promptStateRepoMock {
	return &promptStateRepoMock{
		MarkPromptedFunc: func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, promptedAt time.Time) error {
			return nil
		},
		MarkDismissedFunc: func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, dismissedAt time.Time) error {
			return nil
		},
		MarkCompletedFunc: func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, completedAt time.Time) error {
			return nil
		},
		LastPromptedAtFunc: func(ctx context.Context, subjectID uuid.UUID) (*time.Time, error) {
			return nil, nil
		},
		CountPromptedSinceFunc: func(ctx context.Context, subjectID uuid.UUID, since time.Time) (int, error) {
			return 0, nil
		},
		FieldsDismissedSinceFunc: func(ctx context.Context, subjectID uuid.UUID, cutoff time.Time) (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
		FieldsDismissedAtLeastFunc: func(ctx context.Context, subjectID uuid.UUID, minCount int) (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
		FieldsCompletedFunc: func(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
			return map[string]struct{}{}, nil
		},
		ListFunc: func(ctx context.Context, subjectID uuid.UUID, filter domain.PromptStateFilter) ([]*domain.PromptState, error) {
			return []*domain.PromptState{}, nil
		},
		StatsFunc: func(ctx context.Context, subjectID uuid.UUID, maxDismissCount int) (domain.PromptStats, error) {
			return domain.PromptStats{}, nil
		},
	}
}

func set(ids ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestNewService_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min gap", func(c *Config) { c.MinGapBetweenPrompts = 0 }},
		{"zero weekly cap", func(c *Config) { c.MaxPromptsPerWeek = 0 }},
		{"negative cooldown", func(c *Config) { c.CooldownAfterDismiss = -time.Hour }},
		{"zero max dismiss", func(c *Config) { c.MaxDismissCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewService(slog.Default(), profileExists(), cleanStates(), &txManagerMock{}, testCatalog(t), cfg)
			if err == nil {
				t.Fatal("expected config validation error, got nil")
			}
		})
	}
}

func TestNewService_NilCatalog(t *testing.T) {
	t.Parallel()

	_, err := NewService(slog.Default(), profileExists(), cleanStates(), &txManagerMock{}, nil, testConfig())
	if err == nil {
		t.Fatal("expected error for nil catalog, got nil")
	}
}
