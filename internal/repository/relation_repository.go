package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

// FavoriteRepository 收藏（用户-菜谱直接多对多）
type FavoriteRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) (bool, error)
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	// RecipeIDsAmong 返回 recipeIDs 中被 userID 收藏的子集，一次查询
	RecipeIDsAmong(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
}

// CartRepository 购物车
type CartRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) (bool, error)
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
	RecipeIDsAmong(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error)
	// Totals 按食材汇总购物车内所有菜谱的用量，按名称、id 升序
	Totals(ctx context.Context, userID int64) ([]IngredientTotal, error)
}

// IngredientTotal 购物清单中的一行
type IngredientTotal struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Total           int64
}

// membership 收藏与购物车共用的 (user_id, recipe_id) 集合操作
type membership struct {
	db    *gorm.DB
	model interface{}
	newFn func(userID, recipeID int64) interface{}
}

func (m membership) add(ctx context.Context, userID, recipeID int64) error {
	return translate(m.db.WithContext(ctx).Create(m.newFn(userID, recipeID)).Error)
}

func (m membership) remove(ctx context.Context, userID, recipeID int64) (bool, error) {
	res := m.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(m.model)
	return res.RowsAffected > 0, res.Error
}

func (m membership) exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	var cnt int64
	err := m.db.WithContext(ctx).Model(m.model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (m membership) among(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	res := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return res, nil
	}
	var ids []int64
	if err := m.db.WithContext(ctx).Model(m.model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}

type favoriteRepository struct{ membership }

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{membership{
		db:    db,
		model: &model.Favorite{},
		newFn: func(u, r int64) interface{} { return &model.Favorite{UserID: u, RecipeID: r} },
	}}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	return r.add(ctx, userID, recipeID)
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.remove(ctx, userID, recipeID)
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.exists(ctx, userID, recipeID)
}

func (r *favoriteRepository) RecipeIDsAmong(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return r.among(ctx, userID, recipeIDs)
}

type cartRepository struct{ membership }

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{membership{
		db:    db,
		model: &model.CartEntry{},
		newFn: func(u, r int64) interface{} { return &model.CartEntry{UserID: u, RecipeID: r} },
	}}
}

func (r *cartRepository) Add(ctx context.Context, userID, recipeID int64) error {
	return r.add(ctx, userID, recipeID)
}

func (r *cartRepository) Remove(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.remove(ctx, userID, recipeID)
}

func (r *cartRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.exists(ctx, userID, recipeID)
}

func (r *cartRepository) RecipeIDsAmong(ctx context.Context, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	return r.among(ctx, userID, recipeIDs)
}

func (r *cartRepository) Totals(ctx context.Context, userID int64) ([]IngredientTotal, error) {
	var rows []IngredientTotal
	err := r.db.WithContext(ctx).
		Table("shopping_cart").
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_cart.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").Order("ingredients.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
