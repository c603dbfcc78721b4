package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed notes",
	Long: `Finds the indexed notes most similar to the query by embedding
similarity, without asking the language model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default query.max_chunks)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResult is the JSON shape of one result.
type searchResult struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Score   float64         `json:"score"`
	Content string          `json:"content"`
	Meta    domain.Metadata `json:"metadata"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)

	query, err := requireQuery(app)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = app.Config.Query.MaxChunks
	}

	results, err := query.Search(commandContext(cmd), strings.Join(args, " "), limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RetrievedDocument) error {
	out := make([]searchResult, len(results))
	for i, r := range results {
		out[i] = searchResult{
			ID:      r.ID,
			Source:  r.Metadata.Source,
			Score:   r.Score,
			Content: r.Content,
			Meta:    r.Metadata,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RetrievedDocument) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Println(formatSource(i, results[i]))
		if preview := preview(results[i].Content, 100); preview != "" {
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}
}

// preview returns the first line of content that is not a heading, cut to n runes.
func preview(content string, n int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if r := []rune(line); len(r) > n {
			return string(r[:n]) + "..."
		}
		return line
	}
	return ""
}
