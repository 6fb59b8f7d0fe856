package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent search queries",
	Long:  `Shows the searches recorded by the API and CLI, newest first, with the strategy that answered each one.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		queries, err := appInstance.SearchService.RecentSearches(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing search history: %w", err)
		}
		if len(queries) == 0 {
			fmt.Println("No search history found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Query", "Path", "Results", "Executed At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, q := range queries {
			table.Append([]string{
				strconv.FormatInt(q.ID, 10),
				q.Query,
				q.Path,
				strconv.Itoa(q.ResultsCount),
				q.ExecutedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of history entries to show")
	rootCmd.AddCommand(historyCmd)
}
