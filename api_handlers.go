package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"easysql/internal/nl2sql"
)

// APIHandler handles JSON API requests
type APIHandler struct {
	DB        *DB
	Assistant *Assistant
	Models    *ModelsClient
	Settings  *Settings
}

type queryRequest struct {
	Question string       `json:"question"`
	History  []nl2sql.Turn `json:"history,omitempty"`
	Provider string       `json:"provider,omitempty"`
	Model    string       `json:"model,omitempty"`
}

// Query answers one natural language question
func (h *APIHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid JSON body",
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "question is required",
		})
		return
	}

	assistant := h.Assistant
	if req.Provider != "" || req.Model != "" {
		var err error
		assistant, err = NewAssistantFor(h.Settings, h.DB, req.Provider, req.Model)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
			return
		}
	}
	if assistant == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "No LLM configured. Set OPENAI_API_KEY or ANTHROPIC_API_KEY.",
		})
		return
	}

	answer, err := assistant.Ask(r.Context(), req.Question, req.History)
	if err != nil {
		log.Printf("Query error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, answer)
}

// Tables lists the queryable tables
func (h *APIHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.DB.Tables()
	if err != nil {
		log.Printf("Table listing error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to list tables",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tables": tables,
		"count":  len(tables),
	})
}

// TableSchema returns column metadata for one table
func (h *APIHandler) TableSchema(w http.ResponseWriter, r *http.Request) {
	name, cols, ok := h.tableColumns(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"table":   name,
		"columns": cols,
	})
}

// TableStats returns row and column counts for one table
func (h *APIHandler) TableStats(w http.ResponseWriter, r *http.Request) {
	name, _, ok := h.tableColumns(w, r)
	if !ok {
		return
	}

	stats, err := h.DB.Stats(r.Context(), name)
	if err != nil {
		log.Printf("Stats error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to compute table stats",
		})
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// TableSample returns the first rows of one table
func (h *APIHandler) TableSample(w http.ResponseWriter, r *http.Request) {
	name, _, ok := h.tableColumns(w, r)
	if !ok {
		return
	}

	limit := 5
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	sample, err := h.DB.SampleData(r.Context(), name, limit)
	if err != nil {
		log.Printf("Sample error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to read sample data",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"table":  name,
		"sample": sample,
	})
}

// History returns the persisted query history
func (h *APIHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := maxHistory
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.DB.QueryHistory(limit)
	if err != nil {
		log.Printf("History error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to load history",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
		"count":   len(entries),
	})
}

// ModelCatalog lists the available LLM models for a provider
func (h *APIHandler) ModelCatalog(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = ProviderOpenAI
	}

	models, err := h.Models.List(r.Context(), provider)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"provider": provider,
		"models":   models,
	})
}

// tableColumns resolves the table URL parameter and validates it exists.
func (h *APIHandler) tableColumns(w http.ResponseWriter, r *http.Request) (string, []ColumnInfo, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid table name",
		})
		return "", nil, false
	}

	cols, err := h.DB.TableSchema(name)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": "Table not found",
		})
		return "", nil, false
	}
	return name, cols, true
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}
