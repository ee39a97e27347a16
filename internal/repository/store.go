package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

// Store 聚合全部仓储；Transaction 内的 Store 共享同一个事务
type Store struct {
	db *gorm.DB

	Users       UserRepository
	Tags        TagRepository
	Ingredients IngredientRepository
	Recipes     RecipeRepository
	Favorites   FavoriteRepository
	Cart        CartRepository
	Follows     FollowRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Tags:        NewTagRepository(db),
		Ingredients: NewIngredientRepository(db),
		Recipes:     NewRecipeRepository(db),
		Favorites:   NewFavoriteRepository(db),
		Cart:        NewCartRepository(db),
		Follows:     NewFollowRepository(db),
	}
}

// DB 底层连接（或事务）
func (s *Store) DB() *gorm.DB { return s.db }

// Snapshot 只读快照事务：同一请求内的计数、分页与标注读到同一版本
var Snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// Transaction 在单个事务中执行 fn；fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error, opts ...*sql.TxOptions) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	}, opts...)
}

// ReadTransaction 以 Snapshot 选项执行只读的 fn
func (s *Store) ReadTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.Transaction(ctx, fn, Snapshot)
}

// AutoMigrate 建表与索引
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(model.All()...)
}
