package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
	"github.com/d60-Lab/foodgram/pkg/tracing"
)

// ShoppingListHeader 导出文件首行
const ShoppingListHeader = "Shopping list for the recipes in your cart:"

// ShoppingItem 购物清单中的一行：同一食材在购物车内所有菜谱中的用量之和
type ShoppingItem = repository.IngredientTotal

// ShoppingListService 购物清单汇总与导出
type ShoppingListService struct {
	store *repository.Store
}

func NewShoppingListService(store *repository.Store) *ShoppingListService {
	return &ShoppingListService{store: store}
}

// Aggregate 一次分组查询；购物车为空时返回空切片
func (s *ShoppingListService) Aggregate(ctx context.Context, userID int64) ([]ShoppingItem, error) {
	ctx, span := tracing.Tracer("foodgram/service").Start(ctx, "ShoppingList.Aggregate")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	items, err := s.store.Cart.Totals(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate failed")
		return nil, err
	}
	if items == nil {
		items = []ShoppingItem{}
	}
	span.SetAttributes(attribute.Int("shopping_list.items", len(items)))
	return items, nil
}

// Export 汇总并渲染当前用户的购物清单
func (s *ShoppingListService) Export(ctx context.Context, viewer model.Viewer) (string, error) {
	if viewer.IsAnonymous() {
		return "", apperr.Unauthorized("authentication required")
	}
	items, err := s.Aggregate(ctx, viewer.UserID)
	if err != nil {
		return "", err
	}
	return Render(items), nil
}

// Render 首行标题，随后每行 "{序号}) {名称} ({单位}): {总量}"，序号从 1 开始
func Render(items []ShoppingItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for i, it := range items {
		fmt.Fprintf(&b, "%d) %s (%s): %d\n", i+1, it.Name, it.MeasurementUnit, it.Total)
	}
	return b.String()
}
