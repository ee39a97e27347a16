package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
	"github.com/d60-Lab/foodgram/pkg/logger"
)

// RecipeInput 新建菜谱；Image 为 data URI
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int64
	Ingredients []IngredientLineInput
}

// RecipeFilter 列表过滤；IsFavorited / IsInShoppingCart 只对登录用户生效
type RecipeFilter struct {
	AuthorID         int64
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	PageSize         int
}

// RecipeService 菜谱读写入口：作者校验、图片资源、写后按访问者回读
type RecipeService interface {
	List(ctx context.Context, viewer model.Viewer, f RecipeFilter) (*Page[RecipeView], error)
	Get(ctx context.Context, viewer model.Viewer, id int64) (*RecipeView, error)
	Create(ctx context.Context, viewer model.Viewer, in RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, viewer model.Viewer, id int64, patch RecipePatch) (*RecipeView, error)
	Delete(ctx context.Context, viewer model.Viewer, id int64) error
}

type recipeService struct {
	store     *repository.Store
	writer    *RecipeWriter
	annotator *Annotator
	images    *ImageStore
	paging    Paging
}

func NewRecipeService(store *repository.Store, annotator *Annotator, images *ImageStore, paging Paging) RecipeService {
	return &recipeService{
		store:     store,
		writer:    NewRecipeWriter(),
		annotator: annotator,
		images:    images,
		paging:    paging,
	}
}

func (s *recipeService) List(ctx context.Context, viewer model.Viewer, f RecipeFilter) (*Page[RecipeView], error) {
	empty := &Page[RecipeView]{Results: []RecipeView{}}
	if viewer.IsAnonymous() && (f.IsFavorited || f.IsInShoppingCart) {
		return empty, nil
	}
	offset, limit := s.paging.window(f.Page, f.PageSize)
	q := repository.RecipeQuery{
		AuthorID: f.AuthorID,
		TagSlugs: f.TagSlugs,
		Offset:   offset,
		Limit:    limit,
	}
	if f.IsFavorited {
		q.FavoritedBy = viewer.UserID
	}
	if f.IsInShoppingCart {
		q.InCartOf = viewer.UserID
	}

	var page *Page[RecipeView]
	err := s.store.ReadTransaction(ctx, func(tx *repository.Store) error {
		recipes, total, err := tx.Recipes.List(ctx, q)
		if err != nil {
			return err
		}
		views, err := s.annotator.Annotate(ctx, tx, recipes, viewer)
		if err != nil {
			return err
		}
		page = &Page[RecipeView]{Count: total, Results: views}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *recipeService) Get(ctx context.Context, viewer model.Viewer, id int64) (*RecipeView, error) {
	var view *RecipeView
	err := s.store.ReadTransaction(ctx, func(tx *repository.Store) error {
		recipe, err := tx.Recipes.GetByID(ctx, id)
		if err != nil {
			return recipeLookupErr(err)
		}
		view, err = s.annotator.AnnotateOne(ctx, tx, recipe, viewer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *recipeService) Create(ctx context.Context, viewer model.Viewer, in RecipeInput) (*RecipeView, error) {
	if viewer.IsAnonymous() {
		return nil, apperr.Unauthorized("authentication required")
	}
	if err := ValidateRecipe(&in.CookingTime, in.Ingredients); err != nil {
		return nil, err
	}
	key, err := s.images.Save(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	var view *RecipeView
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		fields := RecipeFields{Name: in.Name, Text: in.Text, Image: key, CookingTime: in.CookingTime}
		recipe, err := s.writer.Create(ctx, tx, viewer.UserID, fields, in.TagIDs, in.Ingredients)
		if err != nil {
			return err
		}
		view, err = s.annotator.AnnotateOne(ctx, tx, recipe, viewer)
		return err
	})
	if err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}
	return view, nil
}

func (s *recipeService) Update(ctx context.Context, viewer model.Viewer, id int64, patch RecipePatch) (*RecipeView, error) {
	if viewer.IsAnonymous() {
		return nil, apperr.Unauthorized("authentication required")
	}
	current, err := s.authorOnly(ctx, s.store, viewer, id)
	if err != nil {
		return nil, err
	}
	var lines []IngredientLineInput
	if patch.Ingredients != nil {
		lines = *patch.Ingredients
	}
	if err := ValidateRecipe(patch.CookingTime, lines); err != nil {
		return nil, err
	}

	var newKey string
	if patch.Image != nil {
		if newKey, err = s.images.Save(ctx, *patch.Image); err != nil {
			return nil, err
		}
		patch.Image = &newKey
	}

	var view *RecipeView
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		recipe, err := s.authorOnly(ctx, tx, viewer, id)
		if err != nil {
			return err
		}
		updated, err := s.writer.Update(ctx, tx, recipe, patch)
		if err != nil {
			return err
		}
		view, err = s.annotator.AnnotateOne(ctx, tx, updated, viewer)
		return err
	})
	if err != nil {
		s.discardImage(ctx, newKey)
		return nil, err
	}
	if newKey != "" && current.Image != newKey {
		s.discardImage(ctx, current.Image)
	}
	return view, nil
}

func (s *recipeService) Delete(ctx context.Context, viewer model.Viewer, id int64) error {
	if viewer.IsAnonymous() {
		return apperr.Unauthorized("authentication required")
	}
	var image string
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		recipe, err := s.authorOnly(ctx, tx, viewer, id)
		if err != nil {
			return err
		}
		image = recipe.Image
		if err := tx.Recipes.Delete(ctx, id); err != nil {
			return recipeLookupErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.discardImage(ctx, image)
	return nil
}

// authorOnly 加载菜谱并校验作者身份
func (s *recipeService) authorOnly(ctx context.Context, store *repository.Store, viewer model.Viewer, id int64) (*model.Recipe, error) {
	recipe, err := store.Recipes.GetByID(ctx, id)
	if err != nil {
		return nil, recipeLookupErr(err)
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, apperr.Forbidden("only the author may change this recipe")
	}
	return recipe, nil
}

// discardImage 资源清理失败只记日志
func (s *recipeService) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Ctx(ctx).Warn("failed to delete recipe image", zap.String("key", key), zap.Error(err))
	}
}

func recipeLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("recipe not found")
	}
	return err
}
