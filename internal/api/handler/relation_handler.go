package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/response"
)

type recipeToggle func(c *gin.Context, userID, recipeID int64, intent service.Intent) (*service.RecipeMinified, error)

// toggleRecipe 收藏与购物车共用：添加返回 201 + 精简菜谱，移除返回 204
func (h *Handler) toggleRecipe(c *gin.Context, intent service.Intent, fn recipeToggle) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := fn(c, middleware.Viewer(c).UserID, id, intent)
	if err != nil {
		response.Error(c, err)
		return
	}
	if intent == service.IntentRemove {
		response.NoContent(c)
		return
	}
	response.Created(c, out)
}

func (h *Handler) favorite(c *gin.Context, userID, recipeID int64, intent service.Intent) (*service.RecipeMinified, error) {
	return h.relService.ToggleFavorite(c.Request.Context(), userID, recipeID, intent)
}

func (h *Handler) cart(c *gin.Context, userID, recipeID int64, intent service.Intent) (*service.RecipeMinified, error) {
	return h.relService.ToggleCart(c.Request.Context(), userID, recipeID, intent)
}

// AddFavorite 收藏
// @Summary 收藏菜谱
// @Tags 收藏
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=service.RecipeMinified}
// @Failure 400 {object} response.Response "已收藏"
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/favorite [post]
func (h *Handler) AddFavorite(c *gin.Context) { h.toggleRecipe(c, service.IntentAdd, h.favorite) }

// RemoveFavorite 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 400 {object} response.Response "未收藏"
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/favorite [delete]
func (h *Handler) RemoveFavorite(c *gin.Context) { h.toggleRecipe(c, service.IntentRemove, h.favorite) }

// AddToCart 加入购物车
// @Summary 加入购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 201 {object} response.Response{data=service.RecipeMinified}
// @Failure 400 {object} response.Response "已在购物车"
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/shopping_cart [post]
func (h *Handler) AddToCart(c *gin.Context) { h.toggleRecipe(c, service.IntentAdd, h.cart) }

// RemoveFromCart 移出购物车
// @Summary 移出购物车
// @Tags 购物车
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 400 {object} response.Response "不在购物车"
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id}/shopping_cart [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) { h.toggleRecipe(c, service.IntentRemove, h.cart) }

// Subscribe 订阅作者
// @Summary 订阅作者
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Param recipes_limit query int false "每位作者返回的菜谱数量上限"
// @Success 201 {object} response.Response{data=service.SubscriptionView}
// @Failure 400 {object} response.Response "已订阅或订阅自己"
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	sub, err := h.relService.ToggleFollow(c.Request.Context(), middleware.Viewer(c).UserID, id, service.IntentAdd, queryInt(c, "recipes_limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// Unsubscribe 取消订阅
// @Summary 取消订阅
// @Tags 订阅
// @Security BearerAuth
// @Param id path int true "作者ID"
// @Success 204
// @Failure 400 {object} response.Response "未订阅"
// @Failure 404 {object} response.Response
// @Router /api/users/{id}/subscribe [delete]
func (h *Handler) Unsubscribe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.relService.ToggleFollow(c.Request.Context(), middleware.Viewer(c).UserID, id, service.IntentRemove, 0); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
