package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "github.com/mayank200604/HVA/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(chatHandler *ChatHandler, imageHandler *ImageHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Group for standard JSON endpoints that should have a request timeout
	// to prevent client connections from hanging indefinitely. Image
	// synthesis is slow upstream, so the budget leaves headroom over the
	// adapter's own 90 second call timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(120 * time.Second))

		r.Post("/generate_image", imageHandler.HandleGenerateImage)
		r.Get("/generated_images/{filename}", imageHandler.HandleGetImage)
	})

	// The chat stream holds its connection open across retries and backoff
	// sleeps, so it must NOT run under the timeout middleware.
	r.Group(func(r chi.Router) {
		r.Post("/chat", chatHandler.HandleChat)
	})

	return r
}
