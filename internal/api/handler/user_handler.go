package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/pkg/response"
)

// Me 当前用户
// @Summary 当前用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.UserView}
// @Failure 401 {object} response.Response
// @Router /api/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	me, err := h.users.Me(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, me)
}

// GetUser 用户资料
// @Summary 用户资料（含当前访问者是否已订阅）
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=service.UserView}
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	u, err := h.users.GetUser(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// ListSubscriptions 我的订阅
// @Summary 我订阅的作者及其菜谱
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(6)
// @Param recipes_limit query int false "每位作者返回的菜谱数量上限"
// @Success 200 {object} response.Response{data=service.Page[service.SubscriptionView]}
// @Failure 401 {object} response.Response
// @Router /api/users/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, err := h.users.ListSubscriptions(c.Request.Context(), middleware.Viewer(c),
		queryInt(c, "page", 1), queryInt(c, "page_size", 0), queryInt(c, "recipes_limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
