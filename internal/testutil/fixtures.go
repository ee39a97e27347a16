package testutil

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

// Fixtures 绕过服务层直接插入测试数据
type Fixtures struct {
	tb testing.TB
	db *gorm.DB
	n  int
}

func NewFixtures(tb testing.TB, db *gorm.DB) *Fixtures { return &Fixtures{tb: tb, db: db} }

func (f *Fixtures) must(err error) {
	f.tb.Helper()
	if err != nil {
		f.tb.Fatalf("fixture: %v", err)
	}
}

func (f *Fixtures) User(username string) model.User {
	f.tb.Helper()
	u := model.User{Email: username + "@example.com", Username: username, FirstName: username, LastName: "Test", Password: "x"}
	f.must(f.db.Create(&u).Error)
	return u
}

func (f *Fixtures) Tag(name, slug, color string) model.Tag {
	f.tb.Helper()
	t := model.Tag{Name: name, Slug: slug, Color: color}
	f.must(f.db.Create(&t).Error)
	return t
}

func (f *Fixtures) Ingredient(name, unit string) model.Ingredient {
	f.tb.Helper()
	it := model.Ingredient{Name: name, MeasurementUnit: unit}
	f.must(f.db.Create(&it).Error)
	return it
}

// Recipe 为 authorID 创建菜谱；lines 为 食材 id -> 数量
func (f *Fixtures) Recipe(authorID int64, lines map[int64]int, tagIDs ...int64) model.Recipe {
	f.tb.Helper()
	f.n++
	r := model.Recipe{AuthorID: authorID, Name: fmt.Sprintf("recipe %d", f.n), Text: "text", Image: "recipes/images/x.png", CookingTime: 10}
	f.must(f.db.Create(&r).Error)
	for id, amount := range lines {
		f.must(f.db.Create(&model.RecipeIngredient{RecipeID: r.ID, IngredientID: id, Amount: amount}).Error)
	}
	for _, id := range tagIDs {
		f.must(f.db.Create(&model.RecipeTag{RecipeID: r.ID, TagID: id}).Error)
	}
	return r
}

func (f *Fixtures) Favorite(userID, recipeID int64) {
	f.tb.Helper()
	f.must(f.db.Create(&model.Favorite{UserID: userID, RecipeID: recipeID}).Error)
}

func (f *Fixtures) Cart(userID, recipeID int64) {
	f.tb.Helper()
	f.must(f.db.Create(&model.CartEntry{UserID: userID, RecipeID: recipeID}).Error)
}

func (f *Fixtures) Follow(followerID, followeeID int64) {
	f.tb.Helper()
	f.must(f.db.Create(&model.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error)
}
