package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/api/middleware"
	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/response"
)

type createRecipeRequest struct {
	Ingredients []service.IngredientLineInput `json:"ingredients" binding:"required,min=1,dive"`
	Tags        []int64                       `json:"tags" binding:"required,min=1"`
	Image       string                        `json:"image" binding:"required"`
	Name        string                        `json:"name" binding:"required,max=200"`
	Text        string                        `json:"text" binding:"required"`
	CookingTime int                           `json:"cooking_time"`
}

// updateRecipeRequest 未出现的字段保持不变；tags/ingredients 传空数组表示清空
type updateRecipeRequest struct {
	Ingredients *[]service.IngredientLineInput `json:"ingredients"`
	Tags        *[]int64                       `json:"tags"`
	Image       *string                        `json:"image"`
	Name        *string                        `json:"name" binding:"omitempty,min=1,max=200"`
	Text        *string                        `json:"text" binding:"omitempty,min=1"`
	CookingTime *int                           `json:"cooking_time"`
}

// ListRecipes 菜谱列表
// @Summary 菜谱列表（支持作者、标签、收藏、购物车过滤）
// @Tags 菜谱
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(6)
// @Param author query int false "作者ID"
// @Param tags query []string false "标签 slug，可重复" collectionFormat(multi)
// @Param is_favorited query int false "只看已收藏" Enums(0, 1)
// @Param is_in_shopping_cart query int false "只看购物车" Enums(0, 1)
// @Success 200 {object} response.Response{data=service.Page[service.RecipeView]}
// @Router /api/recipes [get]
func (h *Handler) ListRecipes(c *gin.Context) {
	author, _ := strconv.ParseInt(c.Query("author"), 10, 64)
	filter := service.RecipeFilter{
		AuthorID:         author,
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
		Page:             queryInt(c, "page", 1),
		PageSize:         queryInt(c, "page_size", 0),
	}
	page, err := h.recipes.List(c.Request.Context(), middleware.Viewer(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetRecipe 菜谱详情
// @Summary 菜谱详情
// @Tags 菜谱
// @Produce json
// @Param id path int true "菜谱ID"
// @Success 200 {object} response.Response{data=service.RecipeView}
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id} [get]
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.recipes.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// CreateRecipe 发布菜谱
// @Summary 发布菜谱
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createRecipeRequest true "菜谱内容，image 为 base64 data URI"
// @Success 201 {object} response.Response{data=service.RecipeView}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes [post]
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.recipes.Create(c.Request.Context(), middleware.Viewer(c), service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// UpdateRecipe 修改菜谱（仅作者）
// @Summary 修改菜谱
// @Tags 菜谱
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Param request body updateRecipeRequest true "需要修改的字段"
// @Success 200 {object} response.Response{data=service.RecipeView}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id} [patch]
func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.recipes.Update(c.Request.Context(), middleware.Viewer(c), id, service.RecipePatch{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteRecipe 删除菜谱（仅作者）
// @Summary 删除菜谱
// @Tags 菜谱
// @Security BearerAuth
// @Param id path int true "菜谱ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/recipes/{id} [delete]
func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DownloadShoppingCart 导出购物清单
// @Summary 下载购物清单（纯文本附件）
// @Tags 购物车
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "to_buy.txt"
// @Failure 401 {object} response.Response
// @Router /api/recipes/download_shopping_cart [get]
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	text, err := h.shopping.Export(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="to_buy.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
