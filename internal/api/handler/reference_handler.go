package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/pkg/response"
)

// ListTags 标签列表
// @Summary 标签列表
// @Tags 标签
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Tag}
// @Router /api/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.references.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

// GetTag 标签详情
// @Summary 标签详情
// @Tags 标签
// @Produce json
// @Param id path int true "标签ID"
// @Success 200 {object} response.Response{data=model.Tag}
// @Failure 404 {object} response.Response
// @Router /api/tags/{id} [get]
func (h *Handler) GetTag(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	tag, err := h.references.GetTag(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

// ListIngredients 食材搜索
// @Summary 食材列表（按名称前缀搜索）
// @Tags 食材
// @Produce json
// @Param name query string false "名称前缀，不区分大小写"
// @Success 200 {object} response.Response{data=[]model.Ingredient}
// @Router /api/ingredients [get]
func (h *Handler) ListIngredients(c *gin.Context) {
	items, err := h.references.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// GetIngredient 食材详情
// @Summary 食材详情
// @Tags 食材
// @Produce json
// @Param id path int true "食材ID"
// @Success 200 {object} response.Response{data=model.Ingredient}
// @Failure 404 {object} response.Response
// @Router /api/ingredients/{id} [get]
func (h *Handler) GetIngredient(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	it, err := h.references.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, it)
}
