package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"weld-oee/backend/config"
	"weld-oee/backend/pkg/database"
	applogger "weld-oee/backend/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "oeectl",
	Short: "Maintenance commands for the welding OEE tracker",
	Long: `oeectl prepares the database, loads reference data and prints OEE
reports without going through the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env config, logger and an open database shared by the subcommands
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close() {
	if sqlDB, _ := e.db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	e.logger.Sync()
}
