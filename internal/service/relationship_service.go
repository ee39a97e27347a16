package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

// Intent 关系操作方向
type Intent int

const (
	IntentAdd Intent = iota + 1
	IntentRemove
)

var (
	ErrFollowSelf    = apperr.Validation("cannot follow self")
	ErrAlreadyExists = apperr.Conflict("already exists")
	ErrDoesNotExist  = apperr.Conflict("does not exist")
)

// RelationshipService 收藏、购物车与订阅三类关系的守卫。
// 先查后写，唯一索引冲突与删除零行同样报告为冲突。
type RelationshipService interface {
	// ToggleFavorite / ToggleCart 添加时返回精简菜谱，移除时返回 nil
	ToggleFavorite(ctx context.Context, userID, recipeID int64, intent Intent) (*RecipeMinified, error)
	ToggleCart(ctx context.Context, userID, recipeID int64, intent Intent) (*RecipeMinified, error)
	// ToggleFollow 添加时返回被订阅作者及其菜谱
	ToggleFollow(ctx context.Context, followerID, targetID int64, intent Intent, recipesLimit int) (*SubscriptionView, error)
}

// recipeSet 收藏与购物车共有的集合操作
type recipeSet interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) (bool, error)
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
}

type relationshipService struct {
	store     *repository.Store
	annotator *Annotator
}

func NewRelationshipService(store *repository.Store, annotator *Annotator) RelationshipService {
	return &relationshipService{store: store, annotator: annotator}
}

func (s *relationshipService) ToggleFavorite(ctx context.Context, userID, recipeID int64, intent Intent) (*RecipeMinified, error) {
	return s.toggleRecipe(ctx, userID, recipeID, intent, func(tx *repository.Store) recipeSet { return tx.Favorites })
}

func (s *relationshipService) ToggleCart(ctx context.Context, userID, recipeID int64, intent Intent) (*RecipeMinified, error) {
	return s.toggleRecipe(ctx, userID, recipeID, intent, func(tx *repository.Store) recipeSet { return tx.Cart })
}

func (s *relationshipService) toggleRecipe(ctx context.Context, userID, recipeID int64, intent Intent, set func(*repository.Store) recipeSet) (*RecipeMinified, error) {
	var out *RecipeMinified
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		recipe, err := tx.Recipes.GetByID(ctx, recipeID)
		if err != nil {
			return recipeLookupErr(err)
		}
		rel := set(tx)
		switch intent {
		case IntentAdd:
			exists, err := rel.Exists(ctx, userID, recipeID)
			if err != nil {
				return err
			}
			if exists {
				return ErrAlreadyExists
			}
			if err := rel.Add(ctx, userID, recipeID); err != nil {
				return conflictOnDuplicate(err)
			}
			out, err = s.annotator.Minify(ctx, recipe)
			return err
		case IntentRemove:
			removed, err := rel.Remove(ctx, userID, recipeID)
			if err != nil {
				return err
			}
			if !removed {
				return ErrDoesNotExist
			}
			return nil
		default:
			return apperr.Validation("unknown intent")
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *relationshipService) ToggleFollow(ctx context.Context, followerID, targetID int64, intent Intent, recipesLimit int) (*SubscriptionView, error) {
	if intent == IntentAdd && followerID == targetID {
		return nil, ErrFollowSelf
	}
	var out *SubscriptionView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		target, err := tx.Users.GetByID(ctx, targetID)
		if err != nil {
			return userLookupErr(err)
		}
		switch intent {
		case IntentAdd:
			exists, err := tx.Follows.Exists(ctx, followerID, targetID)
			if err != nil {
				return err
			}
			if exists {
				return ErrAlreadyExists
			}
			if err := tx.Follows.Create(ctx, followerID, targetID); err != nil {
				return conflictOnDuplicate(err)
			}
			views, err := ProjectUsers(ctx, tx, []model.User{*target}, model.ViewerOf(followerID))
			if err != nil {
				return err
			}
			subs, err := s.annotator.WithRecipes(ctx, tx, views, recipesLimit)
			if err != nil {
				return err
			}
			out = &subs[0]
			return nil
		case IntentRemove:
			removed, err := tx.Follows.Delete(ctx, followerID, targetID)
			if err != nil {
				return err
			}
			if !removed {
				return ErrDoesNotExist
			}
			return nil
		default:
			return apperr.Validation("unknown intent")
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// conflictOnDuplicate 并发请求越过了存在性检查时由唯一索引兜底
func conflictOnDuplicate(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}

func userLookupErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	return err
}
