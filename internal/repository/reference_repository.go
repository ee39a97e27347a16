package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/foodgram/internal/model"
)

type TagRepository interface {
	List(ctx context.Context) ([]model.Tag, error)
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error)
	// CreateMissing 幂等写入，已存在（任一唯一键冲突）的行被跳过
	CreateMissing(ctx context.Context, tags []model.Tag) (int64, error)
}

type IngredientRepository interface {
	// SearchByPrefix 名称前缀（不区分大小写）匹配，按名称排序
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]model.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error)
	CreateMissing(ctx context.Context, items []model.Ingredient, batchSize int) (int64, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var res []model.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&res).Error
	return res, err
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	var res []model.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&res).Error
	return res, err
}

func (r *tagRepository) CreateMissing(ctx context.Context, tags []model.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return res.RowsAffected, res.Error
}

type ingredientRepository struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepository{db: db} }

// likeEscaper 使用 '!' 作为转义符，mysql 字面量中的反斜杠需要二次转义
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func (r *ingredientRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]model.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&model.Ingredient{})
	if prefix = model.SearchKey(prefix); prefix != "" {
		pattern := likeEscaper.Replace(prefix) + "%"
		q = q.Where("search_name LIKE ? ESCAPE '!'", pattern)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var res []model.Ingredient
	err := q.Order("name ASC").Order("id ASC").Find(&res).Error
	return res, err
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*model.Ingredient, error) {
	var it model.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}
	var res []model.Ingredient
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *ingredientRepository) CreateMissing(ctx context.Context, items []model.Ingredient, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&items, batchSize)
	return res.RowsAffected, res.Error
}
