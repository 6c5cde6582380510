package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/spf13/cobra"
)

func LeaderboardCmd() *cobra.Command {
	var limit int

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top contributors",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			board := service.NewLeaderboardService(repository.NewProfileRepository(database), nil, limit)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tCOLLEGE\tBRANCH\tPOINTS\tTIER")
			for i, e := range board.Top(cmd.Context(), limit) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", i+1, e.FullName, e.CollegeName, e.Branch, e.Points, e.Tier().Name)
			}
			return w.Flush()
		},
	}

	leaderboardCmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultLeaderboardSize, "number of rows")

	return leaderboardCmd
}
