package prompt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/panshun/climbstory-backend/internal/domain"
)

var _ biographyRepo = &biographyRepoMock{}

type biographyRepoMock struct {
	ExistsFunc           func(ctx context.Context, subjectID uuid.UUID) (bool, error)
	AnsweredFieldIDsFunc func(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error)

	calls struct {
		Exists           []uuid.UUID
		AnsweredFieldIDs []uuid.UUID
	}
	lock sync.Mutex
}

func (mock *biographyRepoMock) Exists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	if mock.ExistsFunc == nil {
		panic("biographyRepoMock.ExistsFunc: method is nil but biographyRepo.Exists was just called")
	}
	mock.lock.Lock()
	mock.calls.Exists = append(mock.calls.Exists, subjectID)
	mock.lock.Unlock()
	return mock.ExistsFunc(ctx, subjectID)
}

func (mock *biographyRepoMock) AnsweredFieldIDs(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
	if mock.AnsweredFieldIDsFunc == nil {
		panic("biographyRepoMock.AnsweredFieldIDsFunc: method is nil but biographyRepo.AnsweredFieldIDs was just called")
	}
	mock.lock.Lock()
	mock.calls.AnsweredFieldIDs = append(mock.calls.AnsweredFieldIDs, subjectID)
	mock.lock.Unlock()
	return mock.AnsweredFieldIDsFunc(ctx, subjectID)
}

var _ promptStateRepo = &promptStateRepoMock{}

// markCall captures the arguments of a Mark* invocation.
type markCall struct {
	SubjectID uuid.UUID
	Field     domain.CatalogField
	At        time.Time
}

type promptStateRepoMock struct {
	MarkPromptedFunc           func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, promptedAt time.Time) error
	MarkDismissedFunc          func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, dismissedAt time.Time) error
	MarkCompletedFunc          func(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, completedAt time.Time) error
	LastPromptedAtFunc         func(ctx context.Context, subjectID uuid.UUID) (*time.Time, error)
	CountPromptedSinceFunc     func(ctx context.Context, subjectID uuid.UUID, since time.Time) (int, error)
	FieldsDismissedSinceFunc   func(ctx context.Context, subjectID uuid.UUID, cutoff time.Time) (map[string]struct{}, error)
	FieldsDismissedAtLeastFunc func(ctx context.Context, subjectID uuid.UUID, minCount int) (map[string]struct{}, error)
	FieldsCompletedFunc        func(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error)
	ListFunc                   func(ctx context.Context, subjectID uuid.UUID, filter domain.PromptStateFilter) ([]*domain.PromptState, error)
	StatsFunc                  func(ctx context.Context, subjectID uuid.UUID, maxDismissCount int) (domain.PromptStats, error)

	calls struct {
		MarkPrompted  []markCall
		MarkDismissed []markCall
		MarkCompleted []markCall
	}
	lock sync.Mutex
}

func (mock *promptStateRepoMock) MarkPrompted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, promptedAt time.Time) error {
	if mock.MarkPromptedFunc == nil {
		panic("promptStateRepoMock.MarkPromptedFunc: method is nil but promptStateRepo.MarkPrompted was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkPrompted = append(mock.calls.MarkPrompted, markCall{subjectID, field, promptedAt})
	mock.lock.Unlock()
	return mock.MarkPromptedFunc(ctx, subjectID, field, promptedAt)
}

func (mock *promptStateRepoMock) MarkPromptedCalls() []markCall {
	mock.lock.Lock()
	defer mock.lock.Unlock()
	return mock.calls.MarkPrompted
}

func (mock *promptStateRepoMock) MarkDismissed(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, dismissedAt time.Time) error {
	if mock.MarkDismissedFunc == nil {
		panic("promptStateRepoMock.MarkDismissedFunc: method is nil but promptStateRepo.MarkDismissed was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkDismissed = append(mock.calls.MarkDismissed, markCall{subjectID, field, dismissedAt})
	mock.lock.Unlock()
	return mock.MarkDismissedFunc(ctx, subjectID, field, dismissedAt)
}

func (mock *promptStateRepoMock) MarkDismissedCalls() []markCall {
	mock.lock.Lock()
	defer mock.lock.Unlock()
	return mock.calls.MarkDismissed
}

func (mock *promptStateRepoMock) MarkCompleted(ctx context.Context, subjectID uuid.UUID, field domain.CatalogField, completedAt time.Time) error {
	if mock.MarkCompletedFunc == nil {
		panic("promptStateRepoMock.MarkCompletedFunc: method is nil but promptStateRepo.MarkCompleted was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkCompleted = append(mock.calls.MarkCompleted, markCall{subjectID, field, completedAt})
	mock.lock.Unlock()
	return mock.MarkCompletedFunc(ctx, subjectID, field, completedAt)
}

func (mock *promptStateRepoMock) MarkCompletedCalls() []markCall {
	mock.lock.Lock()
	defer mock.lock.Unlock()
	return mock.calls.MarkCompleted
}

func (mock *promptStateRepoMock) LastPromptedAt(ctx context.Context, subjectID uuid.UUID) (*time.Time, error) {
	if mock.LastPromptedAtFunc == nil {
		panic("promptStateRepoMock.LastPromptedAtFunc: method is nil but promptStateRepo.LastPromptedAt was just called")
	}
	return mock.LastPromptedAtFunc(ctx, subjectID)
}

func (mock *promptStateRepoMock) CountPromptedSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (int, error) {
	if mock.CountPromptedSinceFunc == nil {
		panic("promptStateRepoMock.CountPromptedSinceFunc: method is nil but promptStateRepo.CountPromptedSince was just called")
	}
	return mock.CountPromptedSinceFunc(ctx, subjectID, since)
}

func (mock *promptStateRepoMock) FieldsDismissedSince(ctx context.Context, subjectID uuid.UUID, cutoff time.Time) (map[string]struct{}, error) {
	if mock.FieldsDismissedSinceFunc == nil {
		panic("promptStateRepoMock.FieldsDismissedSinceFunc: method is nil but promptStateRepo.FieldsDismissedSince was just called")
	}
	return mock.FieldsDismissedSinceFunc(ctx, subjectID, cutoff)
}

func (mock *promptStateRepoMock) FieldsDismissedAtLeast(ctx context.Context, subjectID uuid.UUID, minCount int) (map[string]struct{}, error) {
	if mock.FieldsDismissedAtLeastFunc == nil {
		panic("promptStateRepoMock.FieldsDismissedAtLeastFunc: method is nil but promptStateRepo.FieldsDismissedAtLeast was just called")
	}
	return mock.FieldsDismissedAtLeastFunc(ctx, subjectID, minCount)
}

func (mock *promptStateRepoMock) FieldsCompleted(ctx context.Context, subjectID uuid.UUID) (map[string]struct{}, error) {
	if mock.FieldsCompletedFunc == nil {
		panic("promptStateRepoMock.FieldsCompletedFunc: method is nil but promptStateRepo.FieldsCompleted was just called")
	}
	return mock.FieldsCompletedFunc(ctx, subjectID)
}

func (mock *promptStateRepoMock) List(ctx context.Context, subjectID uuid.UUID, filter domain.PromptStateFilter) ([]*domain.PromptState, error) {
	if mock.ListFunc == nil {
		panic("promptStateRepoMock.ListFunc: method is nil but promptStateRepo.List was just called")
	}
	return mock.ListFunc(ctx, subjectID, filter)
}

func (mock *promptStateRepoMock) Stats(ctx context.Context, subjectID uuid.UUID, maxDismissCount int) (domain.PromptStats, error) {
	if mock.StatsFunc == nil {
		panic("promptStateRepoMock.StatsFunc: method is nil but promptStateRepo.Stats was just called")
	}
	return mock.StatsFunc(ctx, subjectID, maxDismissCount)
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		return fn(ctx)
	}
	return mock.RunInTxFunc(ctx, fn)
}
