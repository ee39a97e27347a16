package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

// ReferenceService 标签与食材只读查询，优先走缓存
type ReferenceService interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	SearchIngredients(ctx context.Context, prefix string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error)
}

type referenceService struct {
	store *repository.Store
	cache *cache.ReferenceCache
}

// NewReferenceService cache 可以为 nil
func NewReferenceService(store *repository.Store, c *cache.ReferenceCache) ReferenceService {
	return &referenceService{store: store, cache: c}
}

func (s *referenceService) ListTags(ctx context.Context) ([]model.Tag, error) {
	if tags, ok := s.cache.Tags(ctx); ok {
		return tags, nil
	}
	tags, err := s.store.Tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	s.cache.SetTags(ctx, tags)
	return tags, nil
}

func (s *referenceService) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	if tags, ok := s.cache.Tags(ctx); ok {
		for i := range tags {
			if tags[i].ID == id {
				return &tags[i], nil
			}
		}
	}
	tag, err := s.store.Tags.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("tag not found")
		}
		return nil, err
	}
	return tag, nil
}

// SearchIngredients 返回全部匹配项，不分页
func (s *referenceService) SearchIngredients(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	if items, ok := s.cache.IngredientSearch(ctx, prefix); ok {
		return items, nil
	}
	items, err := s.store.Ingredients.SearchByPrefix(ctx, prefix, 0)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Ingredient{}
	}
	s.cache.SetIngredientSearch(ctx, prefix, items)
	s.cache.SetIngredients(ctx, items)
	return items, nil
}

func (s *referenceService) GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error) {
	found, missing := s.cache.Ingredients(ctx, []int64{id})
	if it, ok := found[id]; ok {
		return &it, nil
	}
	loaded, err := s.store.Ingredients.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, apperr.NotFound("ingredient not found")
	}
	s.cache.SetIngredients(ctx, loaded)
	return &loaded[0], nil
}
