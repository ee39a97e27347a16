package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

// IngredientLineInput 请求中的一行食材
type IngredientLineInput struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount"`
}

// RecipeFields 新建菜谱的标量字段；Image 为资源 key
type RecipeFields struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
}

// RecipePatch 部分更新：nil 表示未提供；指向空切片表示清空
type RecipePatch struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      *[]int64
	Ingredients *[]IngredientLineInput
}

// RecipeWriter 校验并落库菜谱、标签与食材行；调用方负责事务
type RecipeWriter struct{}

func NewRecipeWriter() *RecipeWriter { return &RecipeWriter{} }

// ValidateRecipe 持久化之前的数值与唯一性检查，按固定顺序报告第一个错误
func ValidateRecipe(cookingTime *int, lines []IngredientLineInput) error {
	if cookingTime != nil && *cookingTime < 1 {
		return apperr.Validation("cooking time must be at least 1")
	}
	for i, l := range lines {
		if l.Amount < 1 {
			return apperr.Validation("ingredient line %d: amount must be at least 1", i+1)
		}
	}
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ID]; dup {
			return apperr.Validation("duplicate ingredient in recipe")
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

// Create 写入菜谱、标签关联与食材行
func (w *RecipeWriter) Create(ctx context.Context, tx *repository.Store, authorID int64, fields RecipeFields, tagIDs []int64, lines []IngredientLineInput) (*model.Recipe, error) {
	if err := ValidateRecipe(&fields.CookingTime, lines); err != nil {
		return nil, err
	}
	tagIDs = uniqueIDs(tagIDs)
	if err := checkReferences(ctx, tx, tagIDs, lines); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        fields.Name,
		Text:        fields.Text,
		Image:       fields.Image,
		CookingTime: fields.CookingTime,
	}
	if err := tx.Recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	if err := tx.Recipes.ReplaceTags(ctx, recipe.ID, tagIDs); err != nil {
		return nil, err
	}
	if err := tx.Recipes.ReplaceIngredients(ctx, recipe.ID, toLines(lines)); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Update 按 patch 更新；食材行整体替换
func (w *RecipeWriter) Update(ctx context.Context, tx *repository.Store, recipe *model.Recipe, patch RecipePatch) (*model.Recipe, error) {
	var lines []IngredientLineInput
	if patch.Ingredients != nil {
		lines = *patch.Ingredients
	}
	if err := ValidateRecipe(patch.CookingTime, lines); err != nil {
		return nil, err
	}
	var tagIDs []int64
	if patch.TagIDs != nil {
		tagIDs = uniqueIDs(*patch.TagIDs)
	}
	if err := checkReferences(ctx, tx, tagIDs, lines); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Text != nil {
		updates["text"] = *patch.Text
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}
	if patch.CookingTime != nil {
		updates["cooking_time"] = *patch.CookingTime
	}
	if err := tx.Recipes.Update(ctx, recipe.ID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	if patch.TagIDs != nil {
		if err := tx.Recipes.ReplaceTags(ctx, recipe.ID, tagIDs); err != nil {
			return nil, err
		}
	}
	if patch.Ingredients != nil {
		if err := tx.Recipes.ReplaceIngredients(ctx, recipe.ID, toLines(lines)); err != nil {
			return nil, err
		}
	}
	return tx.Recipes.GetByID(ctx, recipe.ID)
}

// checkReferences 引用的标签与食材必须存在
func checkReferences(ctx context.Context, tx *repository.Store, tagIDs []int64, lines []IngredientLineInput) error {
	if len(tagIDs) > 0 {
		found, err := tx.Tags.FindByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		if missing, ok := firstMissing(tagIDs, found, func(t model.Tag) int64 { return t.ID }); ok {
			return apperr.NotFound("tag %d not found", missing)
		}
	}
	if len(lines) > 0 {
		ids := make([]int64, len(lines))
		for i, l := range lines {
			ids[i] = l.ID
		}
		found, err := tx.Ingredients.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if missing, ok := firstMissing(ids, found, func(it model.Ingredient) int64 { return it.ID }); ok {
			return apperr.NotFound("ingredient %d not found", missing)
		}
	}
	return nil
}

func firstMissing[T any](want []int64, found []T, id func(T) int64) (int64, bool) {
	have := make(map[int64]bool, len(found))
	for _, f := range found {
		have[id(f)] = true
	}
	for _, w := range want {
		if !have[w] {
			return w, true
		}
	}
	return 0, false
}

func uniqueIDs(ids []int64) []int64 {
	res := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			res = append(res, id)
		}
	}
	return res
}

func toLines(in []IngredientLineInput) []model.RecipeIngredient {
	res := make([]model.RecipeIngredient, len(in))
	for i, l := range in {
		res[i] = model.RecipeIngredient{IngredientID: l.ID, Amount: l.Amount}
	}
	return res
}
