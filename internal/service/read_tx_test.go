package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
)

func TestAnnotatedReadsRunInOneTransaction(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")
	bob := e.fx.User("bob")
	salt := e.fx.Ingredient("salt", "g")
	dinner := e.fx.Tag("dinner", "dinner", "#800080")
	r := e.fx.Recipe(bob.ID, map[int64]int{salt.ID: 3}, dinner.ID)
	e.fx.Favorite(alice.ID, r.ID)
	e.fx.Cart(alice.ID, r.ID)
	e.fx.Follow(alice.ID, bob.ID)

	cases := map[string]func() error{
		"recipe get": func() error {
			_, err := e.recipes.Get(e.ctx, viewer(alice), r.ID)
			return err
		},
		"recipe list": func() error {
			_, err := e.recipes.List(e.ctx, viewer(alice), RecipeFilter{IsFavorited: true})
			return err
		},
		"user get": func() error {
			_, err := e.users.GetUser(e.ctx, viewer(alice), bob.ID)
			return err
		},
		"me": func() error {
			_, err := e.users.Me(e.ctx, viewer(alice))
			return err
		},
		"subscriptions": func() error {
			_, err := e.users.ListSubscriptions(e.ctx, viewer(alice), 1, 10, 2)
			return err
		},
		"anonymous recipe list": func() error {
			_, err := e.recipes.List(e.ctx, model.Anonymous, RecipeFilter{})
			return err
		},
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			e.queries.Reset()
			require.NoError(t, call())
			assert.Positive(t, e.queries.Load())
			assert.Zero(t, e.queries.OutsideTx(), "every read shares the request transaction")
		})
	}
}

func TestReadTransactionReportsNotFound(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")

	_, err := e.recipes.Get(e.ctx, viewer(alice), 404)
	assert.Error(t, err)
	_, err = e.users.GetUser(e.ctx, viewer(alice), 404)
	assert.Error(t, err)

	// 失败的只读事务不应占住唯一连接
	_, err = e.users.Me(e.ctx, viewer(alice))
	require.NoError(t, err)
}
