package main

import (
	"fmt"
	"log"
	"os"

	"steamlib/config"
	"steamlib/console"
	"steamlib/database"
	"steamlib/logger"
	"steamlib/service"
	"steamlib/util/common"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func initLogger(cfg *config.Config) error {
	var level logging.Level
	switch cfg.LogLevel {
	case config.Debug:
		level = logging.DEBUG
	case config.Info:
		level = logging.INFO
	case config.Notice:
		level = logging.NOTICE
	case config.Warn:
		level = logging.WARNING
	case config.Error:
		level = logging.ERROR
	default:
		return common.NewErrorf("unknown log level: %s", cfg.LogLevel)
	}
	logger.InitLogger(level, cfg.LogFolder)
	return nil
}

// setup loads configuration, initializes logging and opens the database.
func setup() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := initLogger(cfg); err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.DBPath, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runConsole() error {
	defer common.Recover("console crashed")

	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warning("close database:", err)
		}
		logger.CloseLogger()
	}()

	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	ui := console.New(
		service.NewUserService(db),
		service.NewGameService(db),
		service.NewTransferService(db),
	)
	ui.Run()
	return nil
}

func runSeed() error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return database.Seed(db)
}

func runExport(file string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return service.NewTransferService(db).ExportToFile(file)
}

func runImport(file string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return service.NewTransferService(db).ImportFromFile(file)
}

func runCount() error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer database.Close(db)

	counts, err := service.NewUserService(db).CountRecords()
	if err != nil {
		return err
	}
	for _, name := range []string{"Users", "Games", "Publishers", "UserGame"} {
		fmt.Printf("%-12s %d\n", name, counts[name])
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "steamlib",
		Short:        "Console game-library manager",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Seed first-run data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			return runExport(file)
		},
	}
	exportCmd.Flags().String("file", "steamlib-export.json", "output file path")
	rootCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a library JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			return runImport(file)
		},
	}
	importCmd.Flags().String("file", "steamlib-export.json", "input file path")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
