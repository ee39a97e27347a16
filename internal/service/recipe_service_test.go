package service

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func imageKey(t *testing.T, url string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(url, "/media/"), url)
	return strings.TrimPrefix(url, "/media/")
}

// assertNoImages 资源目录中不应残留任何文件
func assertNoImages(t *testing.T, e *env) {
	t.Helper()
	var files []string
	err := filepath.WalkDir(e.files.BasePath(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRecipeCreateRoundTrip(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	salt := e.fx.Ingredient("salt", "g")
	dinner := e.fx.Tag("dinner", "dinner", "#800080")

	v, err := e.recipes.Create(e.ctx, viewer(author), RecipeInput{
		Name: "soup", Text: "boil", Image: pngDataURI, CookingTime: 15,
		TagIDs:      []int64{dinner.ID},
		Ingredients: []IngredientLineInput{{ID: salt.ID, Amount: 4}},
	})
	require.NoError(t, err)

	assert.False(t, v.IsFavorited)
	assert.False(t, v.IsInShoppingCart)
	assert.Equal(t, author.ID, v.Author.ID)
	require.Len(t, v.Ingredients, 1)
	assert.Equal(t, 4, v.Ingredients[0].Amount)

	key := imageKey(t, v.Image)
	assert.True(t, strings.HasPrefix(key, "recipes/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	ok, err := e.files.Exists(e.ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := e.recipes.Get(e.ctx, viewer(author), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestRecipeCreateFailureRemovesImage(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")

	_, err := e.recipes.Create(e.ctx, viewer(author), RecipeInput{
		Name: "soup", Text: "boil", Image: pngDataURI, CookingTime: 15,
		TagIDs: []int64{404},
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assertNoImages(t, e)
}

func TestRecipeCreateValidationSkipsImage(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")

	_, err := e.recipes.Create(e.ctx, viewer(author), RecipeInput{
		Name: "soup", Text: "boil", Image: pngDataURI, CookingTime: 0,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assertNoImages(t, e)
}

func TestRecipeCreateRequiresViewer(t *testing.T) {
	e := newEnv(t)
	_, err := e.recipes.Create(e.ctx, model.Anonymous, RecipeInput{Name: "x", CookingTime: 1, Image: pngDataURI})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRecipeUpdateAuthorOnly(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	mallory := e.fx.User("mallory")
	r := e.fx.Recipe(author.ID, nil)

	_, err := e.recipes.Update(e.ctx, viewer(mallory), r.ID, RecipePatch{Name: strPtr("pwned")})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = e.recipes.Delete(e.ctx, viewer(mallory), r.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = e.recipes.Update(e.ctx, viewer(author), 9999, RecipePatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecipeUpdateReplacesImage(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	v, err := e.recipes.Create(e.ctx, viewer(author), RecipeInput{Name: "a", Text: "b", Image: pngDataURI, CookingTime: 1})
	require.NoError(t, err)
	oldKey := imageKey(t, v.Image)

	updated, err := e.recipes.Update(e.ctx, viewer(author), v.ID, RecipePatch{Image: strPtr(pngDataURI), Name: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	newKey := imageKey(t, updated.Image)
	assert.NotEqual(t, oldKey, newKey)

	ok, err := e.files.Exists(e.ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = e.files.Exists(e.ctx, newKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecipeDeleteCascades(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	alice := e.fx.User("alice")
	salt := e.fx.Ingredient("salt", "g")
	v, err := e.recipes.Create(e.ctx, viewer(author), RecipeInput{
		Name: "a", Text: "b", Image: pngDataURI, CookingTime: 1,
		Ingredients: []IngredientLineInput{{ID: salt.ID, Amount: 1}},
	})
	require.NoError(t, err)
	e.fx.Favorite(alice.ID, v.ID)
	e.fx.Cart(alice.ID, v.ID)

	require.NoError(t, e.recipes.Delete(e.ctx, viewer(author), v.ID))

	_, err = e.recipes.Get(e.ctx, viewer(alice), v.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	items, err := e.shopping.Aggregate(e.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	fav, err := e.store.Favorites.Exists(e.ctx, alice.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, fav)
	assertNoImages(t, e)
}

func TestRecipeListFilters(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	other := e.fx.User("other")
	alice := e.fx.User("alice")
	dinner := e.fx.Tag("dinner", "dinner", "#800080")
	lunch := e.fx.Tag("lunch", "lunch", "#008000")
	breakfast := e.fx.Tag("breakfast", "breakfast", "#FF8C00")

	r1 := e.fx.Recipe(author.ID, nil, dinner.ID)
	r2 := e.fx.Recipe(author.ID, nil, lunch.ID, dinner.ID)
	r3 := e.fx.Recipe(other.ID, nil, breakfast.ID)
	e.fx.Favorite(alice.ID, r1.ID)
	e.fx.Cart(alice.ID, r3.ID)

	list := func(v model.Viewer, f RecipeFilter) *Page[RecipeView] {
		t.Helper()
		page, err := e.recipes.List(e.ctx, v, f)
		require.NoError(t, err)
		return page
	}

	all := list(model.Anonymous, RecipeFilter{})
	assert.EqualValues(t, 3, all.Count)
	assert.Equal(t, []int64{r3.ID, r2.ID, r1.ID}, ids(all.Results), "newest first")

	byAuthor := list(model.Anonymous, RecipeFilter{AuthorID: author.ID})
	assert.ElementsMatch(t, []int64{r1.ID, r2.ID}, ids(byAuthor.Results))

	byTags := list(model.Anonymous, RecipeFilter{TagSlugs: []string{"lunch", "breakfast"}})
	assert.ElementsMatch(t, []int64{r2.ID, r3.ID}, ids(byTags.Results))

	fav := list(viewer(alice), RecipeFilter{IsFavorited: true})
	assert.Equal(t, []int64{r1.ID}, ids(fav.Results))
	assert.True(t, fav.Results[0].IsFavorited)

	cart := list(viewer(alice), RecipeFilter{IsInShoppingCart: true})
	assert.Equal(t, []int64{r3.ID}, ids(cart.Results))

	anon := list(model.Anonymous, RecipeFilter{IsFavorited: true})
	assert.Zero(t, anon.Count)
	assert.Empty(t, anon.Results)

	paged := list(model.Anonymous, RecipeFilter{Page: 2, PageSize: 2})
	assert.EqualValues(t, 3, paged.Count)
	assert.Equal(t, []int64{r1.ID}, ids(paged.Results))
}
