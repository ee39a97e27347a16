package model

import "time"

// CartEntry 购物车条目：该菜谱的食材计入用户的购物清单
type CartEntry struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"not null;uniqueIndex:ux_cart_user_recipe"`
	RecipeID  int64 `gorm:"not null;uniqueIndex:ux_cart_user_recipe;index:idx_cart_recipe"`
	CreatedAt time.Time
}

func (CartEntry) TableName() string { return "shopping_cart" }

// Favorite 收藏标记，无附加字段
type Favorite struct {
	UserID   int64 `gorm:"primaryKey;autoIncrement:false"`
	RecipeID int64 `gorm:"primaryKey;autoIncrement:false;index:idx_favorite_recipe"`
}

func (Favorite) TableName() string { return "favorites" }
