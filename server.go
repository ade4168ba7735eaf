package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Port      int
	DB        *DB
	Assistant *Assistant
	Models    *ModelsClient
	Settings  *Settings
}

// StartServer initializes and starts the HTTP server
func StartServer(config ServerConfig) error {
	r := newRouter(config)
	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("Starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, r)
}

func newRouter(config ServerConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	sessions := NewSessionStore()

	// Web handlers (HTMX HTML responses)
	webHandler := NewWebHandler(config.DB, config.Assistant, config.Models, config.Settings, sessions)
	r.Get("/", webHandler.IndexPage)
	r.Post("/query", webHandler.RunQuery)
	r.Get("/chart/{id}.png", webHandler.ChartPNG)
	r.Get("/export/{id}.csv", webHandler.ExportCSV)
	r.Get("/history", webHandler.HistoryPanel)
	r.Post("/history/clear", webHandler.ClearHistory)
	r.Get("/tables/{name}", webHandler.TablePanel)
	r.Get("/models/options", webHandler.ModelOptions)

	// API handlers (JSON responses)
	apiHandler := &APIHandler{DB: config.DB, Assistant: config.Assistant, Models: config.Models, Settings: config.Settings}
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", apiHandler.Query)
		r.Get("/tables", apiHandler.Tables)
		r.Get("/tables/{name}/schema", apiHandler.TableSchema)
		r.Get("/tables/{name}/stats", apiHandler.TableStats)
		r.Get("/tables/{name}/sample", apiHandler.TableSample)
		r.Get("/history", apiHandler.History)
		r.Get("/models", apiHandler.ModelCatalog)
	})

	return r
}
