package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/database"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "foodgram",
	Short:        "foodgram serves the recipe sharing API",
	Long:         "foodgram runs the recipe API and the operator tasks around it: migrations, seeding reference data and provisioning users.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./config/config.yaml, or $FOODGRAM_CONFIG)")
}

// loadConfig 读取配置并初始化全局日志
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("FOODGRAM_CONFIG")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// withDB 打开数据库并完成迁移后执行 run
func withDB(ctx context.Context, run func(*config.Config, *gorm.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return run(cfg, db)
}
