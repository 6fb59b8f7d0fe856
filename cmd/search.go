package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"folio/internal/clix"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchFull  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search content and print query-focused summaries",
	Long: `Runs the same search as GET /api/search: relevance-ranked full-text search,
falling back to a case-insensitive substring match when nothing ranks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		params, err := appInstance.SearchService.Params(strings.Join(args, " "), searchLimit)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"query": params.Text, "limit": params.Limit}).Debug("Starting search")

		results, err := appInstance.SearchService.SearchContent(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Score", "Category", "Title", "Summary"})
		table.SetBorder(false)
		table.SetAutoWrapText(true)
		table.SetRowLine(true)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, r := range results {
			summary := r.Summary
			if !searchFull {
				summary = clix.Snippet(summary, 160)
			}
			table.Append([]string{
				strconv.FormatInt(r.ID, 10),
				strconv.FormatFloat(r.Score, 'f', 4, 64),
				string(r.Category),
				r.Title,
				summary,
			})
		}
		table.Render()
		fmt.Printf("%d result(s)\n", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum number of results (default search.default_limit)")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "Print summaries without shortening them")
}
