package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSubjectID_RoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithSubjectID(context.Background(), id)

	got, ok := SubjectIDFromCtx(ctx)
	if !ok {
		t.Fatal("expected subject ID to be present")
	}
	if got != id {
		t.Errorf("got %v, want %v", got, id)
	}
}

func TestSubjectID_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := SubjectIDFromCtx(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
}

func TestSubjectID_NilUUID(t *testing.T) {
	t.Parallel()

	ctx := WithSubjectID(context.Background(), uuid.Nil)
	if _, ok := SubjectIDFromCtx(ctx); ok {
		t.Error("expected ok=false for nil UUID")
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Errorf("got %q, want %q", got, "req-123")
	}
}

func TestRequestID_Missing(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
