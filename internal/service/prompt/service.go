// Package prompt implements the story prompt scheduling logic: whether a
// subject may be prompted right now, which field to offer, and the recording
// of dismissals and completions.
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/panshun/climbstory-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type biographyRepo interface {
	Exists(ctx context.Context, subjectID uuid.UUID) (bool, error)
	AnsweredFieldIDs(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error)
}

type promptStateRepo interface {
	MarkPrompted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, promptedAt time.Time) error
	MarkDismissed(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, dismissedAt time.Time) error
	MarkCompleted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, completedAt time.Time) error
	LastPromptedAt(ctx context.Context, subjectID uuid.UUID) (*time.Time, error)
	CountPromptedSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (int, error)
	FieldsDismissedSince(ctx context.Context, subjectID uuid.UUID, cutoff time.Time) (map[string]struct{}, error)
	FieldsDismissedAtLeast(ctx context.Context, subjectID uuid.UUID, minCount int) (map[string]struct{}, error)
	FieldsCompleted(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error)
	List(ctx context.Context, subjectID uuid.UUID, filter domain.PromptStateFilter) ([]*domain.PromptState, error)
	Stats(ctx context.Context, subjectID uuid.UUID, maxDismissCount int) (domain.PromptStats, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const weeklyWindow = 7 * 24 * time.Hour

// Config holds the pacing knobs for prompt scheduling.
type Config struct {
	// MinGapBetweenPrompts is the minimum elapsed time since the most recent
	// prompt before the subject may be prompted again.
	MinGapBetweenPrompts time.Duration

	// MaxPromptsPerWeek caps prompts in a trailing 7-day window.
	MaxPromptsPerWeek int

	// CooldownAfterDismiss withholds a dismissed field for this long.
	CooldownAfterDismiss time.Duration

	// MaxDismissCount retires a field permanently once reached.
	MaxDismissCount int

	// EasyFields are the low-effort field IDs preferred by easy_first.
	EasyFields []string

	// CategoryOrder is the fixed category ordering for category_rotate.
	CategoryOrder []domain.FieldCategory
}

func (c Config) validate() error {
	if c.MinGapBetweenPrompts <= 0 {
		return fmt.Errorf("min gap between prompts must be positive")
	}
	if c.MaxPromptsPerWeek <= 0 {
		return fmt.Errorf("max prompts per week must be positive")
	}
	if c.CooldownAfterDismiss <= 0 {
		return fmt.Errorf("cooldown after dismiss must be positive")
	}
	if c.MaxDismissCount <= 0 {
		return fmt.Errorf("max dismiss count must be positive")
	}
	return nil
}

// Service implements the prompt scheduling business logic.
type Service struct {
	bios    biographyRepo
	states  promptStateRepo
	tx      txManager
	catalog *domain.FieldCatalog
	cfg     Config

	easySet map[string]struct{}

	log *slog.Logger
	now func() time.Time

	// randMu guards rand; *rand.Rand is not safe for concurrent use and
	// NextPrompt is called from many request goroutines.
	randMu sync.Mutex
	rand   *rand.Rand
}

// intn draws a uniform value in [0, n) under the rand lock.
func (s *Service) intn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rand.Intn(n)
}

// Option customizes a Service, mainly for tests.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand overrides the randomness source used by selection strategies.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rand = r }
}

// NewService creates a new prompt scheduling service.
func NewService(
	log *slog.Logger,
	bios biographyRepo,
	states promptStateRepo,
	tx txManager,
	catalog *domain.FieldCatalog,
	cfg Config,
	opts ...Option,
) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt config: %w", err)
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("field catalog must not be empty")
	}

	easySet := make(map[string]struct{}, len(cfg.EasyFields))
	for _, id := range cfg.EasyFields {
		easySet[id] = struct{}{}
	}

	s := &Service{
		bios:    bios,
		states:  states,
		tx:      tx,
		catalog: catalog,
		cfg:     cfg,
		easySet: easySet,
		log:     log.With("service", "prompt"),
		now:     time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// lookupField resolves a client-supplied field ID against the catalog.
// The stored category always comes from the catalog, never from the caller.
func (s *Service) lookupField(fieldID string) (domain.CatalogField, error) {
	field, ok := s.catalog.Lookup(fieldID)
	if !ok {
		return domain.CatalogField{}, domain.NewUnknownFieldError(fieldID)
	}
	return field, nil
}

func (s *Service) requireProfile(ctx context.Context, subjectID uuid.UUID) error {
	exists, err := s.bios.Exists(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return fmt.Errorf("biography for subject %s: %w", subjectID, domain.ErrNotFound)
	}
	return nil
}
