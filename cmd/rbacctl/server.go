package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskhub/rbac/pkg/audit"
	"github.com/taskhub/rbac/pkg/config"
	"github.com/taskhub/rbac/pkg/db"
	"github.com/taskhub/rbac/pkg/seed"
	"github.com/taskhub/rbac/pkg/server"
	"github.com/taskhub/rbac/pkg/server/endpoints"
	"github.com/taskhub/rbac/pkg/store"
	gormstore "github.com/taskhub/rbac/pkg/store/gorm"
	"github.com/taskhub/rbac/pkg/workflow"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the RBAC admin API server",
	Long: `Run the RBAC admin API server.

To run the server requires the environment variables DATABASE_URL and
RBAC_TOKEN_SIGNING_KEY.

By default, database migrations are run on startup and the catalogs are
seeded. Use --no-migrate and --no-seed to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if cfg.TokenSigningKey == "" {
			fmt.Fprintln(os.Stderr, "RBAC_TOKEN_SIGNING_KEY environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}
		st := gormstore.NewStore(database)

		logger := log.New(os.Stdout, "", log.LstdFlags)

		noSeed, _ := cmd.Flags().GetBool("no-seed")
		if cfg.SeedOnStartup && !noSeed {
			// A failed seeding run leaves the catalogs unconverged; the
			// server still starts so administrators can reach the API and
			// retry via POST /seed or rbacctl seed.
			if err := startupSeed(st, cfg, logger); err != nil {
				logger.Printf("Seeding failed, starting with unconverged catalogs: %v", err)
			}
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(cfg, st, logger, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("no-seed", false, "skip seeding the catalogs on start")
}

// startupSeed converges the catalogs and the default workflow once at
// server start. The outcome is audited either way; the error comes back to
// the caller instead of terminating the process.
func startupSeed(st store.Store, cfg *config.Config, logger *log.Logger) error {
	defs, err := loadDefinitions(cfg.SeedDefinitionsPath)
	if err != nil {
		return fmt.Errorf("loading seed definitions: %w", err)
	}

	res, err := seed.NewSeeder(st, logger).Run(defs)
	if err == nil {
		err = workflow.NewService(st, logger).SeedDefaultWorkflow()
	}
	audit.Log(audit.SeedEvent{
		PermissionsCreated: res.PermissionsCreated,
		RolesCreated:       res.RolesCreated,
		RolesRepaired:      res.RolesRepaired,
		Success:            err == nil,
		ErrorMessage:       errorMessage(err),
	})
	return err
}

// loadDefinitions reads seed definitions from path, falling back to the
// built-in baseline when no path is configured.
func loadDefinitions(path string) (*seed.Definitions, error) {
	if path == "" {
		return seed.Defaults(), nil
	}
	return seed.Load(path)
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
