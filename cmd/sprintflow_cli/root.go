package main

import (
	"fmt"

	"github.com/sprintflow/scoring/internal/athlete"
	"github.com/sprintflow/scoring/internal/config"
	"github.com/sprintflow/scoring/internal/db"
	"github.com/sprintflow/scoring/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagEnv        string
	flagConfigPath string
	flagLogLevel   string

	dbPool *pgxpool.Pool
	repo   *athlete.Repo
)

var rootCmd = &cobra.Command{
	Use:   "sprintflow",
	Short: "Maintenance tools for the scoring service",
	Long: `sprintflow runs the scoring engine against the production database
without going through the HTTP service.

EXAMPLES:

  sprintflow reanalyse --since 2024-01-01     # recompute workout analyses
  sprintflow reanalyse --dry-run              # only print what would change
  sprintflow score <athlete-id>               # print all indices for an athlete
  sprintflow migrate                          # create missing tables`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		_ = godotenv.Load()

		cfg, err := config.Load(flagEnv, flagConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		secrets, err := config.LoadSecrets(cmd.Context())
		if err != nil {
			return fmt.Errorf("load secrets: %w", err)
		}

		logging.Setup(logging.LoggerSetupParams{
			LogToStdout: true,
			LogLevel:    flagLogLevel,
			Environment: cfg.Environment,
		})

		dbPool, err = db.NewDBPool(cmd.Context(), db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: secrets.PostgresPassword,
			MaxConns:   4,
		})
		if err != nil {
			return fmt.Errorf("new db pool: %w", err)
		}
		repo = athlete.NewRepo(dbPool)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config/config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(reanalyseCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(migrateCmd)
}
