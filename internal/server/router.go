// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/maruel/userdb/internal/server/dto"
	"github.com/maruel/userdb/internal/server/handlers"
	"github.com/maruel/userdb/internal/server/ipgeo"
	"github.com/maruel/userdb/internal/server/ratelimit"
)

// Config holds the server wide settings.
type Config struct {
	Version             string
	MaxRequestBodyBytes int64
	Tiers               *ratelimit.Tiers // may be nil
	IPGeo               *ipgeo.Checker   // may be nil
}

// NewRouter creates and configures the HTTP router.
func NewRouter(svc *handlers.Services, cfg *Config) http.Handler {
	d := &Deps{
		Config:  &handlers.Config{Version: cfg.Version, MaxRequestBodyBytes: cfg.MaxRequestBodyBytes},
		Tiers:   cfg.Tiers,
		History: svc.History,
		Tracked: []string{svc.Users.Path()},
	}
	uh := handlers.NewUserHandler(svc.Users)
	rh := handlers.NewReportHandler(svc.Users)
	histh := handlers.NewHistoryHandler(svc.History, svc.Users.Path())
	eh := handlers.NewExportFileHandler(svc.Exports)
	hh := handlers.NewHealthHandler(cfg.Version)

	mux := &http.ServeMux{}
	mux.Handle("GET /health", Wrap(hh.Health, http.StatusOK, d))

	// Literal segments take precedence over {id}.
	mux.Handle("GET /users/top", Wrap(rh.TopUsers, http.StatusOK, d))
	mux.Handle("GET /users/average_age", Wrap(rh.AverageAge, http.StatusOK, d))
	mux.Handle("GET /users/export", Wrap(rh.ExportUsers, http.StatusOK, d))
	mux.Handle("GET /users/schema", Wrap(uh.Schema, http.StatusOK, d))
	mux.Handle("GET /users/history", Wrap(histh.History, http.StatusOK, d))

	mux.Handle("GET /users", Wrap(uh.ListUsers, http.StatusOK, d))
	mux.Handle("POST /users", Wrap(uh.CreateUser, http.StatusCreated, d))
	mux.Handle("GET /users/{id}", Wrap(uh.GetUser, http.StatusOK, d))
	mux.Handle("PUT /users/{id}", Wrap(uh.UpdateUser, http.StatusCreated, d))
	mux.Handle("DELETE /users/{id}", Wrap(uh.DeleteUser, http.StatusOK, d))

	mux.Handle("GET /exports/{name}", WrapRaw(eh.ServeExport, d))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, dto.NotFound("Route"))
	})
	return RequestLogger(cfg.IPGeo, mux)
}
