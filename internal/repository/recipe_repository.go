package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

// RecipeQuery 列表过滤条件，零值表示不过滤
type RecipeQuery struct {
	AuthorID    int64
	TagSlugs    []string // 命中任一标签即可
	FavoritedBy int64
	InCartOf    int64
	Offset      int
	Limit       int
}

// IngredientLine 食材行连同食材名称与单位
type IngredientLine struct {
	RecipeID        int64  `json:"-"`
	IngredientID    int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	GetByID(ctx context.Context, id int64) (*model.Recipe, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	// Delete 级联删除食材行、标签关联、收藏与购物车条目；需在事务内调用
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q RecipeQuery) ([]model.Recipe, int64, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Recipe, error)

	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	ReplaceIngredients(ctx context.Context, recipeID int64, lines []model.RecipeIngredient) error

	// 以下批量读取均为每批一次查询
	TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]model.Tag, error)
	IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]IngredientLine, error)
	// ListByAuthors 返回这些作者的全部菜谱，按发布时间倒序
	ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Recipe, error)
}

type recipeRepository struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepository{db: db} }

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return translate(r.db.WithContext(ctx).Create(recipe).Error)
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*model.Recipe, error) {
	var rec model.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *recipeRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.RecipeIngredient{}, &model.RecipeTag{}, &model.Favorite{}, &model.CartEntry{}} {
		if err := db.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	res := db.Where("id = ?", id).Delete(&model.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepository) List(ctx context.Context, q RecipeQuery) ([]model.Recipe, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Recipe{})
	if q.AuthorID > 0 {
		db = db.Where("recipes.author_id = ?", q.AuthorID)
	}
	if len(q.TagSlugs) > 0 {
		sub := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", q.TagSlugs)
		db = db.Where("recipes.id IN (?)", sub)
	}
	if q.FavoritedBy > 0 {
		sub := r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", q.FavoritedBy)
		db = db.Where("recipes.id IN (?)", sub)
	}
	if q.InCartOf > 0 {
		sub := r.db.Model(&model.CartEntry{}).Select("recipe_id").Where("user_id = ?", q.InCartOf)
		db = db.Where("recipes.id IN (?)", sub)
	}
	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Recipe{}, 0, nil
	}

	page := db.Order("recipes.created_at DESC").Order("recipes.id DESC")
	if q.Offset > 0 {
		page = page.Offset(q.Offset)
	}
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}
	var res []model.Recipe
	if err := page.Find(&res).Error; err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

func (r *recipeRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return []model.Recipe{}, nil
	}
	var res []model.Recipe
	err := r.db.WithContext(ctx).Where("id IN ?", ids).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]model.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		links[i] = model.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return translate(db.Create(&links).Error)
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, lines []model.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	return translate(db.CreateInBatches(&lines, 200).Error)
}

func (r *recipeRepository) TagsFor(ctx context.Context, recipeIDs []int64) (map[int64][]model.Tag, error) {
	res := make(map[int64][]model.Tag, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return res, nil
	}
	type tagRow struct {
		RecipeID int64
		ID       int64
		Name     string
		Slug     string
		Color    string
	}
	var rows []tagRow
	if err := r.db.WithContext(ctx).
		Table("recipe_tags").
		Select("recipe_tags.recipe_id, tags.id, tags.name, tags.slug, tags.color").
		Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id IN ?", recipeIDs).
		Order("tags.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.RecipeID] = append(res[row.RecipeID], model.Tag{ID: row.ID, Name: row.Name, Slug: row.Slug, Color: row.Color})
	}
	return res, nil
}

func (r *recipeRepository) IngredientsFor(ctx context.Context, recipeIDs []int64) (map[int64][]IngredientLine, error) {
	res := make(map[int64][]IngredientLine, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return res, nil
	}
	var rows []IngredientLine
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipe_ingredients.recipe_id, recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN ?", recipeIDs).
		Order("recipe_ingredients.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.RecipeID] = append(res[row.RecipeID], row)
	}
	return res, nil
}

func (r *recipeRepository) ListByAuthors(ctx context.Context, authorIDs []int64) ([]model.Recipe, error) {
	if len(authorIDs) == 0 {
		return []model.Recipe{}, nil
	}
	var res []model.Recipe
	err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}
