package service

import (
	"context"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
)

// AssetURLs 把资源 key 解析为客户端可访问的地址
type AssetURLs interface {
	URL(ctx context.Context, key string) (string, error)
}

// Flags 访问者相关的两个标记
type Flags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// AnnotateFlags 为一批菜谱计算收藏/购物车标记。
// 匿名访问者不查库；已登录访问者无论批量大小都只查两次。
func AnnotateFlags(ctx context.Context, store *repository.Store, recipeIDs []int64, viewer model.Viewer) (map[int64]Flags, error) {
	res := make(map[int64]Flags, len(recipeIDs))
	if viewer.IsAnonymous() || len(recipeIDs) == 0 {
		return res, nil
	}
	favorited, err := store.Favorites.RecipeIDsAmong(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := store.Cart.RecipeIDsAmong(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range recipeIDs {
		res[id] = Flags{IsFavorited: favorited[id], IsInShoppingCart: inCart[id]}
	}
	return res, nil
}

// Annotator 组装 RecipeView；所有关联数据按批加载，查询次数与批量大小无关
type Annotator struct {
	assets AssetURLs
}

// NewAnnotator assets 为 nil 时图片字段直接输出 key
func NewAnnotator(assets AssetURLs) *Annotator {
	return &Annotator{assets: assets}
}

// Annotate 详情与列表共用，单条与多条的每条成本相同
func (a *Annotator) Annotate(ctx context.Context, store *repository.Store, recipes []model.Recipe, viewer model.Viewer) ([]RecipeView, error) {
	res := make([]RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return res, nil
	}

	ids := make([]int64, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	seen := make(map[int64]bool, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	flags, err := AnnotateFlags(ctx, store, ids, viewer)
	if err != nil {
		return nil, err
	}
	tags, err := store.Recipes.TagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines, err := store.Recipes.IngredientsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := store.Users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authorViews, err := ProjectUsers(ctx, store, authors, viewer)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[int64]UserView, len(authorViews))
	for _, v := range authorViews {
		byAuthor[v.ID] = v
	}

	for _, r := range recipes {
		image, err := a.imageURL(ctx, r.Image)
		if err != nil {
			return nil, err
		}
		v := RecipeView{
			ID:               r.ID,
			Tags:             tags[r.ID],
			Author:           byAuthor[r.AuthorID],
			Ingredients:      lines[r.ID],
			IsFavorited:      flags[r.ID].IsFavorited,
			IsInShoppingCart: flags[r.ID].IsInShoppingCart,
			Name:             r.Name,
			Image:            image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if v.Tags == nil {
			v.Tags = []model.Tag{}
		}
		if v.Ingredients == nil {
			v.Ingredients = []repository.IngredientLine{}
		}
		res = append(res, v)
	}
	return res, nil
}

// AnnotateOne 单条详情
func (a *Annotator) AnnotateOne(ctx context.Context, store *repository.Store, recipe *model.Recipe, viewer model.Viewer) (*RecipeView, error) {
	views, err := a.Annotate(ctx, store, []model.Recipe{*recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Minify 精简投影，不查库
func (a *Annotator) Minify(ctx context.Context, recipe *model.Recipe) (*RecipeMinified, error) {
	image, err := a.imageURL(ctx, recipe.Image)
	if err != nil {
		return nil, err
	}
	return &RecipeMinified{ID: recipe.ID, Name: recipe.Name, Image: image, CookingTime: recipe.CookingTime}, nil
}

func (a *Annotator) imageURL(ctx context.Context, key string) (string, error) {
	if key == "" || a.assets == nil {
		return key, nil
	}
	return a.assets.URL(ctx, key)
}
