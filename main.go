package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"easysql/cmd"
	"easysql/internal/nl2sql"
)

const (
	maxDisplayRows  = 50
	historyListSize = 50
)

var logger *slog.Logger

// setupLogger creates and configures the application logger
func setupLogger(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logPath := filepath.Join(dataDir, "err.log")

	// Create log file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // Include file:line information
	})

	logger = slog.New(handler)
	logger.Info("Application started", "version", "1.0", "data_dir", dataDir)

	return nil
}

// renderMarkdown renders markdown content with glamour for terminal display
func renderMarkdown(content string, width int) (string, error) {
	// Account for borders, padding, and glamour's internal gutter
	const glamourGutter = 2
	const borderWidth = 4 // 2 for border characters, 2 for padding

	renderWidth := width - borderWidth - glamourGutter
	if renderWidth < 40 {
		renderWidth = 40 // Minimum width for readable content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return rendered, nil
}

type view int

const (
	askView view = iota
	resultView
	historyView
	exportPromptView
)

// chartCycle is the order Ctrl+T steps through in the result view.
var chartCycle = []ChartType{ChartTable, ChartBar, ChartLine, ChartPie, ChartScatter, ChartHistogram, ChartMetric}

type model struct {
	db            *DB
	assistant     *Assistant
	currentView   view
	questionInput textinput.Model
	exportInput   textinput.Model
	viewport      viewport.Model
	list          list.Model
	answer        *Answer
	chartKind     ChartType
	conversation  []nl2sql.Turn
	width         int
	height        int
	err           error
	loading       bool
	statusMsg     string
	viewportReady bool
}

type historyItem struct {
	entry HistoryEntry
}

func (i historyItem) Title() string {
	return i.entry.Question
}

func (i historyItem) Description() string {
	return fmt.Sprintf("%s | %d rows | %s",
		truncateString(i.entry.SQL, 60),
		i.entry.RowCount,
		i.entry.AskedAt.Format("2006-01-02 15:04"),
	)
}

func (i historyItem) FilterValue() string {
	return i.entry.Question + " " + i.entry.SQL
}

type answerMsg struct {
	answer *Answer
	err    error
}

type historyMsg struct {
	entries []HistoryEntry
	err     error
}

type exportMsg struct {
	filename string
	err      error
}

type clipboardMsg struct {
	err error
}

func askQuestion(assistant *Assistant, question string, history []nl2sql.Turn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		answer, err := assistant.Ask(ctx, question, history)
		return answerMsg{answer: answer, err: err}
	}
}

func loadHistory(db *DB) tea.Cmd {
	return func() tea.Msg {
		entries, err := db.QueryHistory(historyListSize)
		return historyMsg{entries: entries, err: err}
	}
}

func exportAnswer(answer *Answer, filename string) tea.Cmd {
	return func() tea.Msg {
		if answer == nil || answer.Table == nil {
			return exportMsg{err: fmt.Errorf("no result to export")}
		}
		f, err := os.Create(filename)
		if err != nil {
			return exportMsg{err: fmt.Errorf("failed to create file: %w", err)}
		}
		defer f.Close()
		if err := answer.Table.WriteCSV(f); err != nil {
			return exportMsg{err: fmt.Errorf("failed to write CSV: %w", err)}
		}
		return exportMsg{filename: filename}
	}
}

func copySQL(sqlText string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(sqlText)}
	}
}

func initialModel(db *DB, assistant *Assistant) model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your data, e.g. Top 10 customers by total spend..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 70

	ei := textinput.New()
	ei.Placeholder = "Enter filename (e.g., query_results.csv)"
	ei.CharLimit = 200
	ei.Width = 60

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Query History"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Padding(0, 1)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return model{
		db:            db,
		assistant:     assistant,
		currentView:   askView,
		questionInput: ti,
		exportInput:   ei,
		viewport:      vp,
		list:          l,
		chartKind:     ChartTable,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-12)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.viewportReady = true
		if m.answer != nil {
			m.viewport.SetContent(m.resultContent())
		}

	case tea.KeyMsg:
		switch m.currentView {
		case askView:
			return m.handleAskViewKeys(msg)
		case resultView:
			return m.handleResultViewKeys(msg)
		case historyView:
			return m.handleHistoryViewKeys(msg)
		case exportPromptView:
			return m.handleExportPromptKeys(msg)
		}

	case answerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			if logger != nil {
				logger.Error("Question failed", "error", msg.err)
			}
			return m, nil
		}
		m.err = nil
		m.answer = msg.answer
		m.chartKind = msg.answer.ChartType
		m.conversation = append(m.conversation, nl2sql.Turn{
			Question: msg.answer.Question,
			SQL:      msg.answer.SQL,
		})
		m.currentView = resultView
		m.viewport.SetContent(m.resultContent())
		m.viewport.GotoTop()

	case historyMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = historyItem{entry: e}
		}
		m.list.SetItems(items)
		m.currentView = historyView

	case exportMsg:
		if msg.err != nil {
			m.err = msg.err
			if logger != nil {
				logger.Error("CSV export failed", "error", msg.err)
			}
		} else {
			m.err = nil
			m.statusMsg = fmt.Sprintf("✓ Saved to %s", msg.filename)
		}
		m.currentView = resultView

	case clipboardMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("clipboard copy failed: %w", msg.err)
		} else {
			m.statusMsg = "✓ SQL copied to clipboard"
		}
	}

	// Delegate remaining messages to the focused component
	switch m.currentView {
	case askView:
		var c tea.Cmd
		m.questionInput, c = m.questionInput.Update(msg)
		cmds = append(cmds, c)
	case resultView:
		var c tea.Cmd
		m.viewport, c = m.viewport.Update(msg)
		cmds = append(cmds, c)
	case historyView:
		var c tea.Cmd
		m.list, c = m.list.Update(msg)
		cmds = append(cmds, c)
	case exportPromptView:
		var c tea.Cmd
		m.exportInput, c = m.exportInput.Update(msg)
		cmds = append(cmds, c)
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleAskViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		question := strings.TrimSpace(m.questionInput.Value())
		if question == "" {
			return m, nil
		}
		if m.assistant == nil {
			m.err = fmt.Errorf("no LLM configured, set OPENAI_API_KEY or ANTHROPIC_API_KEY")
			return m, nil
		}
		m.loading = true
		m.err = nil
		m.statusMsg = ""
		return m, askQuestion(m.assistant, question, m.conversation)

	case "ctrl+h":
		m.loading = true
		return m, loadHistory(m.db)

	case "ctrl+n":
		// Fresh conversation, the model forgets previous turns
		m.conversation = nil
		m.questionInput.SetValue("")
		m.statusMsg = "✓ Conversation cleared"
		return m, nil
	}

	var c tea.Cmd
	m.questionInput, c = m.questionInput.Update(msg)
	return m, c
}

func (m model) handleResultViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = askView
		m.statusMsg = ""
		m.questionInput.Focus()
		return m, textinput.Blink

	case "ctrl+y":
		if m.answer != nil {
			return m, copySQL(m.answer.SQL)
		}

	case "ctrl+e":
		if m.answer != nil {
			m.exportInput.SetValue("query_results.csv")
			m.exportInput.Focus()
			m.currentView = exportPromptView
			return m, textinput.Blink
		}

	case "ctrl+t":
		if m.answer != nil {
			m.chartKind = nextChartKind(m.chartKind)
			m.viewport.SetContent(m.resultContent())
		}
		return m, nil

	case "ctrl+h":
		m.loading = true
		return m, loadHistory(m.db)

	case "up", "down", "pgup", "pgdown", "home", "end":
		var c tea.Cmd
		m.viewport, c = m.viewport.Update(msg)
		return m, c
	}

	return m, nil
}

func (m model) handleHistoryViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = askView
		m.questionInput.Focus()
		return m, textinput.Blink

	case "enter":
		if item, ok := m.list.SelectedItem().(historyItem); ok {
			m.questionInput.SetValue(item.entry.Question)
			m.currentView = askView
			m.questionInput.Focus()
			return m, textinput.Blink
		}
	}

	var c tea.Cmd
	m.list, c = m.list.Update(msg)
	return m, c
}

func (m model) handleExportPromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.currentView = resultView
		return m, nil

	case "enter":
		filename := strings.TrimSpace(m.exportInput.Value())
		if filename == "" {
			return m, nil
		}
		return m, exportAnswer(m.answer, filename)
	}

	var c tea.Cmd
	m.exportInput, c = m.exportInput.Update(msg)
	return m, c
}

func nextChartKind(current ChartType) ChartType {
	for i, k := range chartCycle {
		if k == current {
			return chartCycle[(i+1)%len(chartCycle)]
		}
	}
	return chartCycle[0]
}

func (m model) View() string {
	switch m.currentView {
	case askView:
		return m.askViewRender()
	case resultView:
		return m.resultViewRender()
	case historyView:
		return m.historyViewRender()
	case exportPromptView:
		return m.exportPromptRender()
	}
	return ""
}

func (m model) askViewRender() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	b.WriteString(headerStyle.Render("💬 EasySQL - Ask your database anything"))
	b.WriteString("\n\n")

	if m.db != nil {
		b.WriteString(InfoBox("Database", m.db.Driver(), lipgloss.Color("62")))
		b.WriteString("\n\n")
	}

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString(inputStyle.Render(m.questionInput.View()))
	b.WriteString("\n\n")

	if len(m.conversation) > 0 {
		contextStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		b.WriteString(contextStyle.Render(fmt.Sprintf("Conversation context: %d previous questions (Ctrl+N to clear)", len(m.conversation))))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("Thinking...\n")
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	help := "\nEnter: Ask | Ctrl+H: History | Ctrl+N: New conversation | Esc/Ctrl+C: Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m model) resultViewRender() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62"))

	title := "📊 Query Result"
	if m.answer != nil {
		title = fmt.Sprintf("📊 %s", truncateString(m.answer.Question, 70))
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString("Loading...")
	}
	b.WriteString("\n")

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	help := "↑/↓: Scroll | Ctrl+T: Chart type | Ctrl+Y: Copy SQL | Ctrl+E: Export CSV | Ctrl+H: History | Esc: Back"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m model) historyViewRender() string {
	var b strings.Builder

	b.WriteString(m.list.View())
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render("Enter: Re-ask question | Esc: Back | Ctrl+C: Quit"))

	return b.String()
}

func (m model) exportPromptRender() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	b.WriteString(headerStyle.Render("💾 Export result as CSV"))
	b.WriteString("\n\n")

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString(inputStyle.Render(m.exportInput.View()))
	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render("Enter: Save | Esc: Cancel"))

	return b.String()
}

// resultContent builds the scrollable body of the result view.
func (m model) resultContent() string {
	if m.answer == nil {
		return "No result yet"
	}

	a := m.answer
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	sqlBlock := fmt.Sprintf("```sql\n%s\n```", a.SQL)
	if rendered, err := renderMarkdown(sqlBlock, width); err == nil {
		b.WriteString(rendered)
	} else {
		b.WriteString(a.SQL)
		b.WriteString("\n")
	}

	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	meta := fmt.Sprintf("%s/%s | attempt %d | %d rows | chart: %s",
		a.Provider, a.Model, a.Attempts, a.Table.RowCount(), m.chartKind)
	if a.Table.Truncated {
		meta += " (truncated)"
	}
	b.WriteString(metaStyle.Render(meta))
	b.WriteString("\n\n")

	if m.chartKind != ChartTable {
		chart := TerminalChart(a.Table, m.chartKind, width)
		if chart != "" {
			b.WriteString(chart)
			b.WriteString("\n\n")
		}
	}

	if m.chartKind != ChartMetric {
		b.WriteString(resultTableText(a.Table, maxDisplayRows))
	}

	if line := summaryLine(a.Table); line != "" {
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// summaryLine formats the numeric column aggregates as a single line.
func summaryLine(t *ResultTable) string {
	summaries := t.Summarize()
	if len(summaries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		parts = append(parts, fmt.Sprintf("%s: sum %s, avg %.2f, min %s, max %s",
			s.Column, formatCell(s.Sum), s.Avg, formatCell(s.Min), formatCell(s.Max)))
	}
	return strings.Join(parts, "\n")
}

// resultTableText renders up to limit rows as an aligned text table.
func resultTableText(t *ResultTable, limit int) string {
	if t == nil || len(t.Columns) == 0 {
		return "(no columns)\n"
	}

	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader(t.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("  ")

	shown := len(t.Rows)
	if limit > 0 && shown > limit {
		shown = limit
	}
	for _, row := range t.Rows[:shown] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		table.Append(cells)
	}
	table.Render()

	if shown < len(t.Rows) {
		fmt.Fprintf(&b, "\n... showing first %d of %d rows (Ctrl+E to export all)\n", shown, len(t.Rows))
	}

	return b.String()
}

// loadAppSettings reads configuration and applies CLI flag overrides.
func loadAppSettings() (*Settings, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}

	if cmd.FlagDBType != "" {
		settings.DBType = strings.ToLower(cmd.FlagDBType)
	}
	if cmd.FlagDBPath != "" {
		settings.DBPath = cmd.FlagDBPath
	}
	if cmd.FlagProvider != "" {
		provider := strings.ToLower(cmd.FlagProvider)
		switch provider {
		case ProviderOpenAI, ProviderAnthropic:
			settings.LLMProvider = provider
			if cmd.FlagModel == "" {
				settings.LLMModel = DefaultModel(provider)
			}
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %q", provider)
		}
	}
	if cmd.FlagModel != "" {
		settings.LLMModel = cmd.FlagModel
	}

	return settings, nil
}

func dataDirFor(settings *Settings) string {
	if settings.FileBacked() {
		return filepath.Dir(settings.DBPath)
	}
	return "data"
}

func launchTUI() {
	settings, err := loadAppSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogger(dataDirFor(settings)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
	}

	db, err := OpenDB(settings)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open database", "error", err, "db_type", settings.DBType)
		}
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// The assistant is optional, browsing history still works without a key
	var assistant *Assistant
	if settings.APIKey() != "" {
		assistant, err = NewAssistant(settings, db)
		if err != nil {
			if logger != nil {
				logger.Warn("Assistant initialization failed", "error", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: assistant initialization failed: %v\n", err)
			assistant = nil
		}
	}

	fmt.Println("\n💬 EasySQL Configuration:")
	fmt.Printf("   • Database: %s", settings.DBType)
	if settings.FileBacked() {
		fmt.Printf(" (%s)", settings.DBPath)
	}
	fmt.Println()
	if assistant != nil {
		fmt.Printf("   • LLM: ✓ %s / %s\n", settings.LLMProvider, settings.LLMModel)
	} else {
		fmt.Println("   • LLM: ✗ Not configured (set OPENAI_API_KEY or ANTHROPIC_API_KEY)")
	}
	fmt.Println()

	p := tea.NewProgram(
		initialModel(db, assistant),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// initDB opens the database for CLI commands
func initDB() (cmd.DBInterface, func(), error) {
	settings, err := loadAppSettings()
	if err != nil {
		return nil, nil, err
	}

	if err := setupLogger(dataDirFor(settings)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := OpenDB(settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cleanup := func() {
		db.Close()
	}

	return &dbAdapter{db: db, settings: settings}, cleanup, nil
}

// initAssistant builds the assistant for CLI commands
func initAssistant(db cmd.DBInterface) (cmd.AssistantInterface, error) {
	adapter := db.(*dbAdapter)
	if adapter.settings.APIKey() == "" {
		return nil, fmt.Errorf("no API key configured for provider %q, set OPENAI_API_KEY or ANTHROPIC_API_KEY", adapter.settings.LLMProvider)
	}

	assistant, err := NewAssistant(adapter.settings, adapter.db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}

	return &assistantAdapter{assistant: assistant}, nil
}

// startServer runs the web server for CLI commands
func startServer(db cmd.DBInterface, port int) error {
	adapter := db.(*dbAdapter)
	if port == 0 {
		port = adapter.settings.HTTPPort
	}

	// The server still serves table browsing when no key is set
	var assistant *Assistant
	if adapter.settings.APIKey() != "" {
		var err error
		assistant, err = NewAssistant(adapter.settings, adapter.db)
		if err != nil {
			if logger != nil {
				logger.Warn("Assistant initialization failed", "error", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: assistant initialization failed: %v\n", err)
			assistant = nil
		}
	}

	return StartServer(ServerConfig{
		Port:      port,
		DB:        adapter.db,
		Assistant: assistant,
		Models:    NewModelsClient(adapter.settings, adapter.db),
		Settings:  adapter.settings,
	})
}

// listModels fetches the model catalog for CLI commands
func listModels(ctx context.Context, db cmd.DBInterface, provider string) ([]cmd.ModelData, error) {
	adapter := db.(*dbAdapter)
	models, err := NewModelsClient(adapter.settings, adapter.db).List(ctx, provider)
	if err != nil {
		return nil, err
	}

	result := make([]cmd.ModelData, len(models))
	for i, m := range models {
		result[i] = cmd.ModelData{ID: m.ID, Provider: m.Provider}
	}
	return result, nil
}

// seedDatabase recreates the sample dataset for CLI commands
func seedDatabase(db cmd.DBInterface) error {
	adapter := db.(*dbAdapter)
	return SeedSampleData(adapter.db)
}

// exportCSV writes a query result to a CSV file for CLI commands
func exportCSV(result *cmd.QueryResult, path string) error {
	if result == nil {
		return fmt.Errorf("no result to export")
	}

	table := &ResultTable{
		Columns:   result.Columns,
		Rows:      result.Rows,
		Truncated: result.Truncated,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := table.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// dbAdapter adapts *DB to cmd.DBInterface
type dbAdapter struct {
	db       *DB
	settings *Settings
}

func (a *dbAdapter) Tables() ([]string, error) {
	return a.db.Tables()
}

func (a *dbAdapter) TableSchema(table string) ([]cmd.TableColumn, error) {
	columns, err := a.db.TableSchema(table)
	if err != nil {
		return nil, err
	}

	result := make([]cmd.TableColumn, len(columns))
	for i, c := range columns {
		result[i] = cmd.TableColumn{Name: c.Name, Type: c.Type, Nullable: c.Nullable}
	}
	return result, nil
}

func (a *dbAdapter) Stats(ctx context.Context, table string) (*cmd.TableStatsData, error) {
	stats, err := a.db.Stats(ctx, table)
	if err != nil {
		return nil, err
	}
	return &cmd.TableStatsData{
		Table:       stats.Table,
		RowCount:    stats.RowCount,
		ColumnCount: stats.ColumnCount,
		Columns:     stats.Columns,
	}, nil
}

func (a *dbAdapter) SampleData(ctx context.Context, table string, limit int) (*cmd.QueryResult, error) {
	result, err := a.db.SampleData(ctx, table, limit)
	if err != nil {
		return nil, err
	}
	return convertResultToCmd(result), nil
}

func (a *dbAdapter) ExecuteQuery(ctx context.Context, sqlText string) (*cmd.QueryResult, error) {
	if err := nl2sql.ValidateQuery(sqlText); err != nil {
		return nil, err
	}
	result, err := a.db.ExecuteQuery(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	return convertResultToCmd(result), nil
}

func (a *dbAdapter) QueryHistory(limit int) ([]cmd.HistoryItem, error) {
	entries, err := a.db.QueryHistory(limit)
	if err != nil {
		return nil, err
	}

	result := make([]cmd.HistoryItem, len(entries))
	for i, e := range entries {
		result[i] = cmd.HistoryItem{
			Question: e.Question,
			SQL:      e.SQL,
			RowCount: e.RowCount,
			AskedAt:  e.AskedAt.Format(time.RFC3339),
		}
	}
	return result, nil
}

func (a *dbAdapter) Close() error {
	return a.db.Close()
}

// assistantAdapter adapts *Assistant to cmd.AssistantInterface
type assistantAdapter struct {
	assistant *Assistant
}

func (a *assistantAdapter) Ask(ctx context.Context, question string) (*cmd.AnswerData, error) {
	answer, err := a.assistant.Ask(ctx, question, nil)
	if err != nil {
		return nil, err
	}

	return &cmd.AnswerData{
		Question:  answer.Question,
		SQL:       answer.SQL,
		Provider:  answer.Provider,
		Model:     answer.Model,
		Attempts:  answer.Attempts,
		Result:    convertResultToCmd(answer.Table),
		ChartType: string(answer.ChartType),
	}, nil
}

// convertResultToCmd converts ResultTable to cmd.QueryResult
func convertResultToCmd(t *ResultTable) *cmd.QueryResult {
	if t == nil {
		return nil
	}
	return &cmd.QueryResult{
		Columns:   t.Columns,
		Rows:      t.Rows,
		Truncated: t.Truncated,
	}
}

func main() {
	// Set up cmd package callbacks
	cmd.LaunchTUI = launchTUI
	cmd.InitDB = initDB
	cmd.InitAssistant = initAssistant
	cmd.StartServer = startServer
	cmd.ListModels = listModels
	cmd.SeedDatabase = seedDatabase
	cmd.ExportCSV = exportCSV

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
