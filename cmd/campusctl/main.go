package main

import (
	"fmt"
	"os"

	"github.com/campusshare/campusshare/cmd/campusctl/cmd"
	"github.com/campusshare/campusshare/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	logger.Init(logger.Options{Development: true, AppName: "campusctl", Output: os.Stderr})

	rootCmd := &cobra.Command{
		Use:           "campusctl",
		Short:         "CampusShare operator tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.CheckCmd())
	rootCmd.AddCommand(cmd.LeaderboardCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
