package service

import (
	"context"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
)

// ProjectUsers 基础投影；is_subscribed 通过一次批量查询得到，匿名访问者不查库
func ProjectUsers(ctx context.Context, store *repository.Store, users []model.User, viewer model.Viewer) ([]UserView, error) {
	res := make([]UserView, len(users))
	if len(users) == 0 {
		return res, nil
	}
	subscribed := map[int64]bool{}
	if !viewer.IsAnonymous() {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var err error
		if subscribed, err = store.Follows.FollowedAmong(ctx, viewer.UserID, ids); err != nil {
			return nil, err
		}
	}
	for i, u := range users {
		res[i] = UserView{
			ID:           u.ID,
			Email:        u.Email,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: subscribed[u.ID],
		}
	}
	return res, nil
}

// WithRecipes 为每个用户附加其菜谱（新到旧，recipesLimit > 0 时截断）与菜谱总数
func (a *Annotator) WithRecipes(ctx context.Context, store *repository.Store, views []UserView, recipesLimit int) ([]SubscriptionView, error) {
	res := make([]SubscriptionView, len(views))
	if len(views) == 0 {
		return res, nil
	}
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	recipes, err := store.Recipes.ListByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[int64][]RecipeMinified, len(views))
	counts := make(map[int64]int64, len(views))
	for i := range recipes {
		r := &recipes[i]
		counts[r.AuthorID]++
		if recipesLimit > 0 && len(byAuthor[r.AuthorID]) >= recipesLimit {
			continue
		}
		m, err := a.Minify(ctx, r)
		if err != nil {
			return nil, err
		}
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], *m)
	}
	for i, v := range views {
		list := byAuthor[v.ID]
		if list == nil {
			list = []RecipeMinified{}
		}
		res[i] = SubscriptionView{UserView: v, Recipes: list, RecipesCount: counts[v.ID]}
	}
	return res, nil
}
