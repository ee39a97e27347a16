package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/internal/testutil"
)

func newStore(t *testing.T) (*Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewStore(db), testutil.NewFixtures(t, db)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(errors.New("UNIQUE constraint failed: favorites.user_id")), ErrDuplicate)
	assert.ErrorIs(t, translate(errors.New(`ERROR: duplicate key value violates unique constraint "ux_cart_user_recipe"`)), ErrDuplicate)
	assert.ErrorIs(t, translate(errors.New("Error 1062: Duplicate entry '1-2' for key 'ux_cart_user_recipe'")), ErrDuplicate)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

func TestMembershipBackstop(t *testing.T) {
	store, fx := newStore(t)
	ctx := context.Background()
	u := fx.User("alice")
	r := fx.Recipe(u.ID, nil)

	require.NoError(t, store.Cart.Add(ctx, u.ID, r.ID))
	assert.ErrorIs(t, store.Cart.Add(ctx, u.ID, r.ID), ErrDuplicate)

	removed, err := store.Cart.Remove(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = store.Cart.Remove(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, store.Follows.Create(ctx, u.ID, 42))
	assert.ErrorIs(t, store.Follows.Create(ctx, u.ID, 42), ErrDuplicate)
}

func TestIngredientLineUniqueAndPositive(t *testing.T) {
	store, fx := newStore(t)
	ctx := context.Background()
	u := fx.User("alice")
	salt := fx.Ingredient("salt", "g")
	r := fx.Recipe(u.ID, nil)

	err := store.Recipes.ReplaceIngredients(ctx, r.ID, []model.RecipeIngredient{
		{IngredientID: salt.ID, Amount: 1}, {IngredientID: salt.ID, Amount: 2},
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = store.Recipes.ReplaceIngredients(ctx, r.ID, []model.RecipeIngredient{{IngredientID: salt.ID, Amount: 0}})
	assert.Error(t, err, "amount check constraint")
}

func TestCreateMissingIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	items := []model.Ingredient{{Name: "salt", MeasurementUnit: "g"}, {Name: "salt", MeasurementUnit: "kg"}}

	n, err := store.Ingredients.CreateMissing(ctx, items, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = store.Ingredients.CreateMissing(ctx, []model.Ingredient{{Name: "salt", MeasurementUnit: "g"}}, 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	tags := []model.Tag{{Name: "dinner", Slug: "dinner", Color: "#800080"}}
	_, err = store.Tags.CreateMissing(ctx, tags)
	require.NoError(t, err)
	n, err = store.Tags.CreateMissing(ctx, []model.Tag{{Name: "dinner", Slug: "dinner", Color: "#800080"}})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUsersFindByIDsKeepsOrder(t *testing.T) {
	store, fx := newStore(t)
	a := fx.User("a")
	b := fx.User("b")
	c := fx.User("c")

	got, err := store.Users.FindByIDs(context.Background(), []int64{c.ID, a.ID, 999, c.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{c.ID, a.ID, b.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestTransactionRollsBack(t *testing.T) {
	store, fx := newStore(t)
	ctx := context.Background()
	u := fx.User("alice")

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		r := &model.Recipe{AuthorID: u.ID, Name: "half", Text: "t", CookingTime: 1}
		if err := tx.Recipes.Create(ctx, r); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := store.Recipes.List(ctx, RecipeQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
