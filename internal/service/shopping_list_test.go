package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func TestAggregateSumsAcrossCart(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	alice := e.fx.User("alice")
	salt := e.fx.Ingredient("salt", "g")
	flour := e.fx.Ingredient("flour", "kg")
	eggs := e.fx.Ingredient("eggs", "pcs")

	r1 := e.fx.Recipe(author.ID, map[int64]int{salt.ID: 5, flour.ID: 1})
	r2 := e.fx.Recipe(author.ID, map[int64]int{salt.ID: 10, eggs.ID: 2})
	notInCart := e.fx.Recipe(author.ID, map[int64]int{salt.ID: 100})
	e.fx.Cart(alice.ID, r1.ID)
	e.fx.Cart(alice.ID, r2.ID)
	e.fx.Cart(author.ID, notInCart.ID)

	e.queries.Reset()
	items, err := e.shopping.Aggregate(e.ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.queries.Load(), "one grouped query")

	require.Len(t, items, 3)
	assert.Equal(t, ShoppingItem{IngredientID: eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Total: 2}, items[0])
	assert.Equal(t, ShoppingItem{IngredientID: flour.ID, Name: "flour", MeasurementUnit: "kg", Total: 1}, items[1])
	assert.Equal(t, ShoppingItem{IngredientID: salt.ID, Name: "salt", MeasurementUnit: "g", Total: 15}, items[2])

	text, err := e.shopping.Export(e.ctx, viewer(alice))
	require.NoError(t, err)
	assert.Equal(t, ShoppingListHeader+"\n"+
		"1) eggs (pcs): 2\n"+
		"2) flour (kg): 1\n"+
		"3) salt (g): 15\n", text)
}

func TestAggregateSameNameDifferentUnits(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	grams := e.fx.Ingredient("sugar", "g")
	spoons := e.fx.Ingredient("sugar", "tbsp")
	r := e.fx.Recipe(author.ID, map[int64]int{grams.ID: 50, spoons.ID: 2})
	e.fx.Cart(author.ID, r.ID)

	items, err := e.shopping.Aggregate(e.ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, grams.ID, items[0].IngredientID, "ties on name break by id")
	assert.Equal(t, spoons.ID, items[1].IngredientID)
}

func TestEmptyCartRendersHeaderOnly(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")

	items, err := e.shopping.Aggregate(e.ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, ShoppingListHeader+"\n", Render(items))
}

func TestExportRequiresViewer(t *testing.T) {
	e := newEnv(t)
	_, err := e.shopping.Export(e.ctx, model.Anonymous)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
