package cmd

import (
	"fmt"

	"github.com/campusshare/campusshare/internal/config"
	"github.com/campusshare/campusshare/internal/repository"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/storage"
	"github.com/spf13/cobra"
)

func CheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check backing services",
	}

	checkCmd.AddCommand(&cobra.Command{
		Use:   "db",
		Short: "Ping the database and count profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			health := service.NewHealthService(database, repository.NewProfileRepository(database), nil)
			return report(cmd, health.CheckDB(cmd.Context()))
		},
	})

	var create bool
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Verify the upload bucket is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.New(config.Load())
			if err != nil {
				return err
			}

			if create {
				err = store.EnsureBucket(cmd.Context())
				if err != nil {
					return err
				}
			}

			health := service.NewHealthService(nil, nil, store)
			return report(cmd, health.CheckStorage(cmd.Context()))
		},
	}
	storageCmd.Flags().BoolVar(&create, "create", false, "create the bucket when it is missing")
	checkCmd.AddCommand(storageCmd)

	return checkCmd
}

func report(cmd *cobra.Command, result service.CheckResult) error {
	err := printJSON(cmd.OutOrStdout(), result)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("%s", result.Message)
	}
	return nil
}
