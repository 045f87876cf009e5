package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolia-backend/metrics"
)

// setupPublicRoutes registers the routes that need no token.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.health())
	r.Method("GET", "/metrics", metrics.Handler())
	r.Get("/portfolio/public/{username}", handlers.portfolioHandler.getPublic())
}

// setupAuthenticatedRoutes registers everything scoped to the token's user.
func setupAuthenticatedRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, uploadsPerMinute int) {
	r.Group(func(r chi.Router) {
		r.Use(auth.authenticate)

		r.Get("/profile", handlers.profileHandler.getProfile())
		r.Put("/profile", handlers.profileHandler.updateProfile())

		r.Route("/projects", handlers.projectHandler.mount)
		r.Route("/skills", handlers.skillHandler.mount)
		r.Route("/work-experiences", handlers.workHandler.mount)
		r.Route("/certificates", handlers.certHandler.mount)
		r.Route("/awards", handlers.awardHandler.mount)

		r.Get("/portfolio/editor", handlers.portfolioHandler.getDraft())
		r.Post("/portfolio/editor", handlers.portfolioHandler.saveDraft())
		r.Post("/portfolio/publish", handlers.portfolioHandler.publish())

		r.Route("/resumes", func(r chi.Router) {
			upload := handlers.resumeHandler.upload()
			if uploadsPerMinute > 0 {
				r.With(handlers.resumeHandler.uploadLimiter(uploadsPerMinute)).Post("/upload", upload)
			} else {
				r.Post("/upload", upload)
			}
			r.Get("/draft", handlers.resumeHandler.getDraft())
			r.Get("/history", handlers.resumeHandler.history())
			r.Post("/confirm", handlers.resumeHandler.confirm())
			r.Delete("/{id}", handlers.resumeHandler.delete())
		})
	})
}
