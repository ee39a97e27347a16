package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/foodgram/internal/service"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

// Handler HTTP 入口，持有全部服务
type Handler struct {
	recipes    service.RecipeService
	relService service.RelationshipService
	shopping   *service.ShoppingListService
	references service.ReferenceService
	users      service.UserService
}

func NewHandler(
	recipes service.RecipeService,
	relService service.RelationshipService,
	shopping *service.ShoppingListService,
	references service.ReferenceService,
	users service.UserService,
) *Handler {
	return &Handler{
		recipes:    recipes,
		relService: relService,
		shopping:   shopping,
		references: references,
		users:      users,
	}
}

// pathID 解析路径中的正整数 id
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("%s not found", name)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func queryBool(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}
