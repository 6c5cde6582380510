package cmd

import (
	"fmt"

	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	var userID string

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo catalog for a profiled user",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			seeder := service.NewSeedService(
				repository.NewResourceRepository(database),
				repository.NewProfileRepository(database),
			)
			n, err := seeder.SeedDemo(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("seed for %q: %w", userID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d demo resources\n", n)
			return nil
		},
	}

	seedCmd.Flags().StringVar(&userID, "user", "", "owner of the demo resources (must have a profile)")
	_ = seedCmd.MarkFlagRequired("user")

	return seedCmd
}
