package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/testutil"
)

// seedMarks 构造：N 个菜谱，用户 u0 收藏其中一半，加购其中三分之一
func seedMarks(b *testing.B, n int) (*Store, int64, []int64) {
	db := testutil.NewDB(b)
	store := NewStore(db)
	ctx := context.Background()

	author := model.User{Email: "author@example.com", Username: "author", Password: "p"}
	viewer := model.User{Email: "u0@example.com", Username: "u0", Password: "p"}
	if err := db.Create(&author).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	if err := db.Create(&viewer).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	recipes := make([]model.Recipe, n)
	for i := range recipes {
		recipes[i] = model.Recipe{AuthorID: author.ID, Name: fmt.Sprintf("r%d", i), Text: "t", CookingTime: 1}
	}
	if err := db.CreateInBatches(&recipes, 500).Error; err != nil {
		b.Fatalf("seed recipes: %v", err)
	}
	ids := make([]int64, n)
	for i, r := range recipes {
		ids[i] = r.ID
		if i%2 == 0 {
			_ = store.Favorites.Add(ctx, viewer.ID, r.ID)
		}
		if i%3 == 0 {
			_ = store.Cart.Add(ctx, viewer.ID, r.ID)
		}
	}
	return store, viewer.ID, ids
}

func pageOf(ids []int64, size int) []int64 {
	start := rand.Intn(len(ids) - size)
	return ids[start : start+size]
}

// 每页两次批量查询
func BenchmarkAnnotatePage_Batched(b *testing.B) {
	store, viewerID, ids := seedMarks(b, 2000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page := pageOf(ids, 20)
		if _, err := store.Favorites.RecipeIDsAmong(ctx, viewerID, page); err != nil {
			b.Fatal(err)
		}
		if _, err := store.Cart.RecipeIDsAmong(ctx, viewerID, page); err != nil {
			b.Fatal(err)
		}
	}
}

// 对照组：逐条判断，每页 2N 次查询
func BenchmarkAnnotatePage_PerRow(b *testing.B) {
	store, viewerID, ids := seedMarks(b, 2000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, id := range pageOf(ids, 20) {
			if _, err := store.Favorites.Exists(ctx, viewerID, id); err != nil {
				b.Fatal(err)
			}
			if _, err := store.Cart.Exists(ctx, viewerID, id); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkCartTotals(b *testing.B) {
	store, viewerID, ids := seedMarks(b, 500)
	ctx := context.Background()
	ing := make([]model.Ingredient, 50)
	for i := range ing {
		ing[i] = model.Ingredient{Name: fmt.Sprintf("ingredient %02d", i), MeasurementUnit: "g"}
	}
	if _, err := store.Ingredients.CreateMissing(ctx, ing, 50); err != nil {
		b.Fatal(err)
	}
	all, err := store.Ingredients.SearchByPrefix(ctx, "ingredient", 0)
	if err != nil {
		b.Fatal(err)
	}
	for _, id := range ids {
		lines := make([]model.RecipeIngredient, 5)
		for j := range lines {
			lines[j] = model.RecipeIngredient{IngredientID: all[(int(id)+j)%len(all)].ID, Amount: j + 1}
		}
		if err := store.Recipes.ReplaceIngredients(ctx, id, lines); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Cart.Totals(ctx, viewerID); err != nil {
			b.Fatal(err)
		}
	}
}
