package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/secondchance-api/internal/api"
	"github.com/phrazzld/secondchance-api/internal/api/middleware"
	"github.com/phrazzld/secondchance-api/internal/api/shared"
	"github.com/phrazzld/secondchance-api/internal/platform/assets"
)

// setupRouter creates and configures the application router with all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(chimw.Timeout(app.config.Server.RequestTimeout))

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)
	authHandler := api.NewAuthHandler(app.accountService, app.config.Auth.LoginFailureStatus)
	itemHandler := api.NewItemHandler(app.itemService, app.config.Assets.MaxUploadBytes)

	authRoutes := func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMiddleware.Authenticate).Put("/update", authHandler.Update)
	}
	itemRoutes := func(r chi.Router) {
		r.Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
		r.Get("/{id}", itemHandler.Get)
		r.Put("/{id}", itemHandler.Update)
		r.Delete("/{id}", itemHandler.Delete)
	}

	r.Group(authRoutes)
	r.Route("/items", itemRoutes)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authRoutes)
		r.Route("/secondchance/items", itemRoutes)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	if fs, ok := app.assetStore.(*assets.FilesystemStore); ok {
		prefix := app.config.Assets.PublicPath
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(fs.Dir()))))
	}

	return r
}
