// Package main provides the CLI entry point for sql2excel-go.
package main

import (
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/sqlexec"
)

const version = "0.1.0"

var (
	dsn        string
	driver     string
	outputPath string
	sheetName  string
	configPath string
	envFile    string
	silent     bool
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sql2excel",
	Short: "Generate Excel reports with charts from SQL queries",
	Long: `sql2excel runs annotated SQL scripts and writes each result set into an
Excel workbook as a data table with a chart derived from it.

Chart options are read from '--' comment lines above each statement:

  -- chart:bar, title=Totals per month, section_heading=Monthly totals
  SELECT month, SUM(amount) FROM sales GROUP BY month;`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [script.sql]",
	Short: "Run an annotated SQL script and write the workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sql2excel", version)
	},
}

func main() {
	runCmd.Flags().StringVar(&dsn, "dsn", "", "Database connection string (default: SQL2EXCEL_DSN or DATABASE_URL)")
	runCmd.Flags().StringVar(&driver, "driver", "sqlite3", "Database driver: sqlite3, pgx")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "result.xlsx", "Output workbook path")
	runCmd.Flags().StringVar(&sheetName, "sheet", "", "Name of the workbook's default sheet")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding layout and style defaults")
	runCmd.Flags().StringVar(&envFile, "env", "", "Env file to load before resolving the connection string")
	runCmd.Flags().BoolVar(&silent, "silent", false, "Log failing queries and continue instead of aborting")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return fmt.Errorf("script not found: %s", scriptPath)
	}

	connString, err := resolveDSN()
	if err != nil {
		return err
	}

	style, err := placeholderStyle(driver)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	ctx := cmd.Context()
	db, err := sqlexec.Open(ctx, driver, connString)
	if err != nil {
		return err
	}
	defer db.Close()

	exec := sqlexec.NewExecutor(db,
		sqlexec.WithLogger(logger),
		sqlexec.WithPlaceholders(style),
		sqlexec.WithSilent(silent),
	)

	report := sql2excel.NewReport(exec, cfg, logger)
	if err := report.GenerateFromScript(ctx, scriptPath, outputPath, sheetName); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	logger.Info("report written", zap.String("output", outputPath))
	return nil
}

// resolveDSN takes the connection string from the flag, or falls back to the
// environment, optionally loaded from an env file first.
func resolveDSN() (string, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("load env file: %w", err)
		}
	} else {
		// A .env in the working directory is picked up when present.
		_ = godotenv.Load()
	}

	if dsn != "" {
		return dsn, nil
	}
	for _, key := range []string{"SQL2EXCEL_DSN", "DATABASE_URL"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("no connection string: pass --dsn or set SQL2EXCEL_DSN")
}

func placeholderStyle(driver string) (sqlexec.Style, error) {
	switch driver {
	case "sqlite3":
		return sqlexec.Question, nil
	case "pgx":
		return sqlexec.Dollar, nil
	default:
		return sqlexec.Question, fmt.Errorf("unsupported driver: %s (must be sqlite3 or pgx)", driver)
	}
}
