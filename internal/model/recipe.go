package model

import "time"

// Recipe 菜谱本体；标签与食材行保存在关联表中
type Recipe struct {
	ID          int64     `gorm:"primaryKey"`
	AuthorID    int64     `gorm:"not null;index:idx_recipe_author"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Text        string    `gorm:"type:text;not null"`
	Image       string    `gorm:"type:varchar(255)"` // 资源存储中的 key
	CookingTime int       `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	CreatedAt   time.Time `gorm:"index:idx_recipe_created"`
	UpdatedAt   time.Time
}

func (Recipe) TableName() string { return "recipes" }

// RecipeTag 菜谱-标签多对多
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID    int64 `gorm:"primaryKey;autoIncrement:false;index:idx_recipe_tag_tag"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }

// RecipeIngredient 食材行：同一菜谱内同一食材只能出现一次
type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:ux_recipe_ingredient"`
	IngredientID int64 `gorm:"not null;uniqueIndex:ux_recipe_ingredient;index:idx_recipe_ingredient_ingredient"`
	Amount       int   `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1"`
	// ux_recipe_ingredient = (recipe_id, ingredient_id)
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }
