package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/repository"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func TestToggleFavoriteAndCart(t *testing.T) {
	for _, kind := range []string{"favorite", "cart"} {
		t.Run(kind, func(t *testing.T) {
			e := newEnv(t)
			author := e.fx.User("author")
			alice := e.fx.User("alice")
			r := e.fx.Recipe(author.ID, nil)

			toggle := e.relation.ToggleFavorite
			if kind == "cart" {
				toggle = e.relation.ToggleCart
			}

			m, err := toggle(e.ctx, alice.ID, r.ID, IntentAdd)
			require.NoError(t, err)
			assert.Equal(t, r.ID, m.ID)
			assert.Equal(t, r.Name, m.Name)
			assert.Equal(t, "/media/"+r.Image, m.Image)

			_, err = toggle(e.ctx, alice.ID, r.ID, IntentAdd)
			require.ErrorIs(t, err, apperr.ErrConflict)
			assert.Equal(t, "already exists", err.Error())

			m, err = toggle(e.ctx, alice.ID, r.ID, IntentRemove)
			require.NoError(t, err)
			assert.Nil(t, m)

			_, err = toggle(e.ctx, alice.ID, r.ID, IntentRemove)
			require.ErrorIs(t, err, apperr.ErrConflict)
			assert.Equal(t, "does not exist", err.Error())

			_, err = toggle(e.ctx, alice.ID, 9999, IntentAdd)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestToggleFollow(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")
	bob := e.fx.User("bob")
	for i := 0; i < 3; i++ {
		e.fx.Recipe(bob.ID, nil)
	}

	sub, err := e.relation.ToggleFollow(e.ctx, alice.ID, bob.ID, IntentAdd, 2)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 3, sub.RecipesCount)
	assert.Len(t, sub.Recipes, 2)

	_, err = e.relation.ToggleFollow(e.ctx, alice.ID, bob.ID, IntentAdd, 0)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.relation.ToggleFollow(e.ctx, alice.ID, bob.ID, IntentRemove, 0)
	require.NoError(t, err)
	_, err = e.relation.ToggleFollow(e.ctx, alice.ID, bob.ID, IntentRemove, 0)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.relation.ToggleFollow(e.ctx, alice.ID, 4242, IntentAdd, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFollowSelfRejectedRegardlessOfState(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")

	_, err := e.relation.ToggleFollow(e.ctx, alice.ID, alice.ID, IntentAdd, 0)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "cannot follow self", err.Error())

	// 即使库里已有自关注记录，也先报自关注
	e.fx.Follow(alice.ID, alice.ID)
	_, err = e.relation.ToggleFollow(e.ctx, alice.ID, alice.ID, IntentAdd, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDuplicateInsertSurfacesAsConflict(t *testing.T) {
	e := newEnv(t)
	author := e.fx.User("author")
	alice := e.fx.User("alice")
	r := e.fx.Recipe(author.ID, nil)

	// 模拟两个并发请求都通过了存在性检查
	require.NoError(t, e.store.Favorites.Add(e.ctx, alice.ID, r.ID))
	err := e.store.Favorites.Add(e.ctx, alice.ID, r.ID)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	mapped := conflictOnDuplicate(err)
	assert.ErrorIs(t, mapped, apperr.ErrConflict)
	assert.Equal(t, ErrAlreadyExists.Error(), mapped.Error())

	other := fmt.Errorf("boom")
	assert.Equal(t, other, conflictOnDuplicate(other))
}
