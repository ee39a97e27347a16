package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/model"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func TestListSubscriptions(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")
	bob := e.fx.User("bob")
	carol := e.fx.User("carol")
	dave := e.fx.User("dave")
	for i := 0; i < 4; i++ {
		e.fx.Recipe(bob.ID, nil)
	}
	newest := e.fx.Recipe(carol.ID, nil)
	e.fx.Follow(alice.ID, bob.ID)
	e.fx.Follow(alice.ID, carol.ID)
	e.fx.Follow(dave.ID, bob.ID)

	page, err := e.users.ListSubscriptions(e.ctx, viewer(alice), 1, 10, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Results, 2)

	byID := map[int64]SubscriptionView{}
	for _, s := range page.Results {
		assert.True(t, s.IsSubscribed)
		byID[s.ID] = s
	}
	assert.EqualValues(t, 4, byID[bob.ID].RecipesCount)
	assert.Len(t, byID[bob.ID].Recipes, 3)
	assert.EqualValues(t, 1, byID[carol.ID].RecipesCount)
	assert.Equal(t, newest.ID, byID[carol.ID].Recipes[0].ID)

	empty, err := e.users.ListSubscriptions(e.ctx, viewer(carol), 1, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Results)

	_, err = e.users.ListSubscriptions(e.ctx, model.Anonymous, 1, 10, 0)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGetUserIsSubscribed(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.User("alice")
	bob := e.fx.User("bob")
	e.fx.Follow(alice.ID, bob.ID)

	v, err := e.users.GetUser(e.ctx, viewer(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, v.IsSubscribed)

	e.queries.Reset()
	v, err = e.users.GetUser(e.ctx, model.Anonymous, bob.ID)
	require.NoError(t, err)
	assert.False(t, v.IsSubscribed)
	assert.EqualValues(t, 1, e.queries.Load(), "anonymous viewer skips the follow lookup")

	me, err := e.users.Me(e.ctx, viewer(alice))
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = e.users.GetUser(e.ctx, model.Anonymous, 777)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	e := newEnv(t)
	in := CreateUserInput{Email: "Chef@Example.com", Username: "chef", FirstName: "Gordon", Password: "s3cret-pass"}

	u, err := e.users.CreateUser(e.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", u.Email)
	assert.NotEqual(t, in.Password, u.Password)

	_, err = e.users.CreateUser(e.ctx, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.users.CreateUser(e.ctx, CreateUserInput{Email: "not-an-email", Username: "x", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := e.users.Authenticate(e.ctx, "chef@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = e.users.Authenticate(e.ctx, "chef@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = e.users.Authenticate(e.ctx, "nobody@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
