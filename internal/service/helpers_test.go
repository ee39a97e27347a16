package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/internal/testutil"
	"github.com/d60-Lab/foodgram/pkg/storage"
)

// 1x1 PNG
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type env struct {
	ctx      context.Context
	store    *repository.Store
	fx       *testutil.Fixtures
	queries  *testutil.QueryCounter
	files    *storage.LocalStorage
	images   *ImageStore
	annot    *Annotator
	recipes  RecipeService
	relation RelationshipService
	users    UserService
	shopping *ShoppingListService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	files, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()}, "/media")
	require.NoError(t, err)

	store := repository.NewStore(db)
	images := NewImageStore(files, 0)
	annot := NewAnnotator(images)
	return &env{
		ctx:      context.Background(),
		store:    store,
		fx:       testutil.NewFixtures(t, db),
		queries:  testutil.CountQueries(t, db),
		files:    files,
		images:   images,
		annot:    annot,
		recipes:  NewRecipeService(store, annot, images, DefaultPaging),
		relation: NewRelationshipService(store, annot),
		users:    NewUserService(store, annot, DefaultPaging),
		shopping: NewShoppingListService(store),
	}
}

func ids(views []RecipeView) []int64 {
	res := make([]int64, len(views))
	for i, v := range views {
		res[i] = v.ID
	}
	return res
}

func viewer(u model.User) model.Viewer { return model.ViewerOf(u.ID) }

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func idsPtr(v ...int64) *[]int64 { return &v }
