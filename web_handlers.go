package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"easysql/internal/nl2sql"
)

// Example questions shown on the landing page.
var exampleQuestions = []string{
	"Show me the top 10 customers by total order amount",
	"What is the average order value by country?",
	"Monthly sales trend for the last 6 months",
	"Which product category generates the most revenue?",
	"How many orders are in each status?",
}

// WebHandler handles HTMX HTML requests
type WebHandler struct {
	DB        *DB
	Assistant *Assistant
	Models    *ModelsClient
	Settings  *Settings
	Sessions  *SessionStore
	templates *template.Template
}

// NewWebHandler creates a new WebHandler with parsed templates
func NewWebHandler(db *DB, assistant *Assistant, models *ModelsClient, settings *Settings, sessions *SessionStore) *WebHandler {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"cell": formatCell,
	}).ParseGlob("templates/*.html"))
	return &WebHandler{
		DB:        db,
		Assistant: assistant,
		Models:    models,
		Settings:  settings,
		Sessions:  sessions,
		templates: tmpl,
	}
}

// sessionID reads the session cookie, issuing one when absent.
func (h *WebHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// assistantFor resolves the assistant for one request. An empty
// provider and model select the process-wide assistant; anything else
// builds a translator for the requested combination.
func (h *WebHandler) assistantFor(provider, model string) (*Assistant, error) {
	if (provider == "" || provider == h.Settings.LLMProvider) &&
		(model == "" || model == h.Settings.LLMModel) {
		return h.Assistant, nil
	}
	return NewAssistantFor(h.Settings, h.DB, provider, model)
}

// IndexPage renders the main assistant page with the schema sidebar
func (h *WebHandler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.sessionID(w, r)

	tables, err := h.DB.Tables()
	if err != nil {
		log.Printf("Table listing error: %v", err)
		http.Error(w, "Database unavailable", http.StatusInternalServerError)
		return
	}

	var stats []*TableStats
	for _, t := range tables {
		s, err := h.DB.Stats(r.Context(), t)
		if err != nil {
			log.Printf("Stats error for %s: %v", t, err)
			continue
		}
		stats = append(stats, s)
	}

	models, err := h.Models.List(r.Context(), h.Settings.LLMProvider)
	if err != nil {
		log.Printf("Model catalog error: %v", err)
	}

	data := map[string]interface{}{
		"Title":     "EasySQL",
		"Tables":    stats,
		"Examples":  exampleQuestions,
		"Provider":  h.Settings.LLMProvider,
		"Model":     h.Settings.LLMModel,
		"Providers": []string{ProviderOpenAI, ProviderAnthropic},
		"Models":    models,
	}
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RunQuery answers one question and returns the result partial
func (h *WebHandler) RunQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	question := r.FormValue("question")
	if question == "" {
		http.Error(w, "Question is required", http.StatusBadRequest)
		return
	}

	assistant, err := h.assistantFor(r.FormValue("provider"), r.FormValue("model"))
	if err != nil {
		data := map[string]interface{}{
			"Question": question,
			"Error":    err.Error(),
		}
		if terr := h.templates.ExecuteTemplate(w, "result.html", data); terr != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}
	if assistant == nil {
		data := map[string]interface{}{
			"Question": question,
			"Error":    "No LLM configured. Set OPENAI_API_KEY or ANTHROPIC_API_KEY and restart.",
		}
		if terr := h.templates.ExecuteTemplate(w, "result.html", data); terr != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	sessionID := h.sessionID(w, r)
	history := h.Sessions.History(sessionID)

	answer, err := assistant.Ask(r.Context(), question, history)
	if err != nil {
		log.Printf("Query error: %v", err)
		data := map[string]interface{}{
			"Question": question,
			"Error":    err.Error(),
		}
		if terr := h.templates.ExecuteTemplate(w, "result.html", data); terr != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.Sessions.AddTurn(sessionID, nl2sql.Turn{Question: question, SQL: answer.SQL})
	resultID := h.Sessions.StoreResult(sessionID, answer)

	data := map[string]interface{}{
		"Question":  question,
		"Answer":    answer,
		"ResultID":  resultID,
		"Table":     answer.Table,
		"ChartType": string(answer.ChartType),
		"HasChart":  answer.ChartType != ChartTable && answer.ChartType != ChartMetric,
		"IsMetric":  answer.ChartType == ChartMetric,
		"ChartURL":  fmt.Sprintf("/chart/%s.png?type=%s", resultID, answer.ChartType),
		"ExportURL": fmt.Sprintf("/export/%s.csv", resultID),
		"Summaries": answer.Table.Summarize(),
	}
	if err := h.templates.ExecuteTemplate(w, "result.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ModelOptions returns the model select options for one provider
func (h *WebHandler) ModelOptions(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")
	if provider != ProviderOpenAI && provider != ProviderAnthropic {
		http.Error(w, "Unknown provider", http.StatusBadRequest)
		return
	}

	models, err := h.Models.List(r.Context(), provider)
	if err != nil {
		log.Printf("Model catalog error: %v", err)
		http.Error(w, "Model catalog unavailable", http.StatusInternalServerError)
		return
	}

	for _, m := range models {
		selected := ""
		if m.ID == DefaultModel(provider) {
			selected = " selected"
		}
		fmt.Fprintf(w, "<option value=\"%s\"%s>%s</option>\n",
			template.HTMLEscapeString(m.ID), selected, template.HTMLEscapeString(m.ID))
	}
}

// ChartPNG renders a stored result as a PNG chart
func (h *WebHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	resultID := chi.URLParam(r, "id")

	stored, ok := h.Sessions.Result(sessionID, resultID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	kind := ChartType(r.URL.Query().Get("type"))
	if kind == "" {
		kind = stored.Answer.ChartType
	}
	if !ValidChartType(string(kind)) {
		http.Error(w, "Unknown chart type", http.StatusBadRequest)
		return
	}
	if kind == ChartTable {
		http.Error(w, "Table results have no chart image", http.StatusBadRequest)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = stored.Answer.Question
	}

	w.Header().Set("Content-Type", "image/png")
	err := RenderChartPNG(w, stored.Answer.Table, kind, title,
		r.URL.Query().Get("x"), r.URL.Query().Get("y"))
	if err != nil {
		log.Printf("Chart render error: %v", err)
		http.Error(w, "Chart rendering failed", http.StatusInternalServerError)
	}
}

// ExportCSV streams a stored result as a CSV download
func (h *WebHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	resultID := chi.URLParam(r, "id")

	stored, ok := h.Sessions.Result(sessionID, resultID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="query_results.csv"`)
	if err := stored.Answer.Table.WriteCSV(w); err != nil {
		log.Printf("CSV export error: %v", err)
	}
}

// HistoryPanel returns the query history partial
func (h *WebHandler) HistoryPanel(w http.ResponseWriter, r *http.Request) {
	limit := maxHistory
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.DB.QueryHistory(limit)
	if err != nil {
		log.Printf("History error: %v", err)
		http.Error(w, "History unavailable", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{"Entries": entries}
	if err := h.templates.ExecuteTemplate(w, "history.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ClearHistory drops the conversation context for this session
func (h *WebHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	h.Sessions.ClearHistory(sessionID)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `<div class="notice">Conversation cleared</div>`)
}

// TablePanel renders schema, stats and sample rows for one table
func (h *WebHandler) TablePanel(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, "Bad table name", http.StatusBadRequest)
		return
	}

	cols, err := h.DB.TableSchema(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	stats, err := h.DB.Stats(r.Context(), name)
	if err != nil {
		log.Printf("Stats error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	sample, err := h.DB.SampleData(r.Context(), name, 5)
	if err != nil {
		log.Printf("Sample error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Name":    name,
		"Columns": cols,
		"Stats":   stats,
		"Sample":  sample,
	}
	if err := h.templates.ExecuteTemplate(w, "table.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
