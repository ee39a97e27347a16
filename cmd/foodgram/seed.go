package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/config"
	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/seed"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default tags and the ingredient catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
			res, err := seed.Run(ctx, repository.NewStore(db), seedFile)
			if err != nil {
				return err
			}
			// 参考数据变化后缓存失效
			if cfg.Redis.Address != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
				defer client.Close()
				if err := cache.New(client, cfg.Redis.TTL, nil).Flush(ctx); err != nil {
					logger.Warn("flush reference cache", zap.Error(err))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tags, %d ingredients\n", res.Tags, res.Ingredients)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "data/ingredients.csv", "Ingredient CSV (name,measurement_unit)")
	rootCmd.AddCommand(seedCmd)
}
