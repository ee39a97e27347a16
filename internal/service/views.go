package service

import (
	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
)

// UserView 用户对外投影；is_subscribed 相对当前访问者
type UserView struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionView 在 UserView 之上附加作者的菜谱
type SubscriptionView struct {
	UserView
	Recipes      []RecipeMinified `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

// RecipeMinified 收藏、购物车与订阅列表中使用的精简菜谱
type RecipeMinified struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeView 菜谱详情，携带访问者相关的两个标记
type RecipeView struct {
	ID               int64                       `json:"id"`
	Tags             []model.Tag                 `json:"tags"`
	Author           UserView                    `json:"author"`
	Ingredients      []repository.IngredientLine `json:"ingredients"`
	IsFavorited      bool                        `json:"is_favorited"`
	IsInShoppingCart bool                        `json:"is_in_shopping_cart"`
	Name             string                      `json:"name"`
	Image            string                      `json:"image"`
	Text             string                      `json:"text"`
	CookingTime      int                         `json:"cooking_time"`
}

// Page 分页结果
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}
