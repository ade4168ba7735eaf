package cmd

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"github.com/spf13/cobra"

	"easysql/internal/agent"
)

var agentCmd = &cobra.Command{
	Use:   "agent [question]",
	Short: "Answer a question with a tool-using AI agent",
	Long: `Answer a natural language question using a Claude agent that can
inspect the schema, sample tables and run SQL queries on its own.
Unlike 'ask', the agent decides which queries to run and explains
the results in prose.

Requires ANTHROPIC_API_KEY environment variable to be set.

Examples:
  easysql agent "Which country should we focus our marketing on and why?"
  easysql agent "Summarize the health of the order pipeline"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")

		initDBWrapper := func() (agent.DBInterface, func(), error) {
			db, cleanup, err := InitDB()
			if err != nil {
				return nil, nil, err
			}
			return &agentDBAdapter{db: db}, cleanup, nil
		}

		fantasyAgent, err := agent.NewAskAgent(
			agent.WithAPIKeyFromEnv(),
			agent.WithDBInitializer(initDBWrapper),
		)
		if err != nil {
			HandleError(err, "Failed to create agent")
		}

		result, err := fantasyAgent.Generate(context.Background(), fantasy.AgentCall{Prompt: question})
		if err != nil {
			HandleError(err, "Failed to generate response")
		}

		fmt.Println(result.Response.Content.Text())
	},
}

// agentDBAdapter adapts cmd.DBInterface to agent.DBInterface
type agentDBAdapter struct {
	db DBInterface
}

func (a *agentDBAdapter) Tables() ([]string, error) {
	return a.db.Tables()
}

func (a *agentDBAdapter) Schema(table string) (string, error) {
	cols, err := a.db.TableSchema(table)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", table)
	for _, c := range cols {
		nullable := "NOT NULL"
		if c.Nullable {
			nullable = "NULL"
		}
		fmt.Fprintf(&b, "  - %s (%s) %s\n", c.Name, strings.ToUpper(c.Type), nullable)
	}
	return b.String(), nil
}

func (a *agentDBAdapter) Query(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	result, err := a.db.ExecuteQuery(ctx, sql)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]interface{}, 0, len(result.Rows))
	for _, row := range result.Rows {
		m := make(map[string]interface{}, len(result.Columns))
		for i, col := range result.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		rows = append(rows, m)
	}
	return rows, nil
}

func (a *agentDBAdapter) Close() error {
	return a.db.Close()
}

func init() {
	rootCmd.AddCommand(agentCmd)
}
