package rest

import (
	"net/http"

	"github.com/panshun/climbstory-backend/internal/transport/middleware"
)

// NewRouter wires the prompt scheduling endpoints. Health probes stay
// outside the auth chain; everything under /api requires a bearer token.
// The rate limit runs inside the auth wrapper so buckets key on the
// authenticated subject.
func NewRouter(prompts *PromptsHandler, health *HealthHandler, auth, limit middleware.Middleware) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/story-prompts/should-prompt", prompts.ShouldPrompt)
	api.HandleFunc("GET /api/story-prompts/next", prompts.Next)
	api.HandleFunc("POST /api/story-prompts/{field}/dismiss", prompts.Dismiss)
	api.HandleFunc("POST /api/story-prompts/{field}/complete", prompts.Complete)
	api.HandleFunc("GET /api/story-prompts/progress", prompts.Progress)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", health.Live)
	root.HandleFunc("GET /readyz", health.Ready)
	root.HandleFunc("GET /health", health.Health)
	root.Handle("/api/", auth(limit(api)))

	return root
}
