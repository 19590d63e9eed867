package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rbacctl",
	Short: "RBAC authorization engine control tool",
	Long: `rbacctl manages the RBAC authorization engine: running the admin API
server, migrating the database schema and seeding the role and
permission catalogs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
