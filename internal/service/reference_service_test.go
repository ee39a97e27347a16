package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/internal/cache"
	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func newCachedReference(t *testing.T, e *env) ReferenceService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewReferenceService(e.store, cache.New(client, time.Minute, nil))
}

func TestReferenceTagsCacheAside(t *testing.T) {
	e := newEnv(t)
	e.fx.Tag("lunch", "lunch", "#008000")
	e.fx.Tag("dinner", "dinner", "#800080")
	svc := newCachedReference(t, e)

	e.queries.Reset()
	first, err := svc.ListTags(e.ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "dinner", first[0].Name)
	assert.EqualValues(t, 1, e.queries.Load())

	second, err := svc.ListTags(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, e.queries.Load(), "served from redis")

	tag, err := svc.GetTag(e.ctx, first[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)
	assert.EqualValues(t, 1, e.queries.Load())

	_, err = svc.GetTag(e.ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReferenceIngredients(t *testing.T) {
	e := newEnv(t)
	e.fx.Ingredient("Salt", "g")
	e.fx.Ingredient("salted butter", "g")
	pepper := e.fx.Ingredient("pepper", "g")
	e.fx.Ingredient("100%_rye", "kg")

	for name, svc := range map[string]ReferenceService{
		"cached":   newCachedReference(t, e),
		"uncached": NewReferenceService(e.store, nil),
	} {
		t.Run(name, func(t *testing.T) {
			items, err := svc.SearchIngredients(e.ctx, "SAL")
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "Salt", items[0].Name)

			items, err = svc.SearchIngredients(e.ctx, "100%_")
			require.NoError(t, err)
			require.Len(t, items, 1, "wildcards in the prefix are literal")

			items, err = svc.SearchIngredients(e.ctx, "100%")
			require.NoError(t, err)
			assert.Len(t, items, 1)

			it, err := svc.GetIngredient(e.ctx, pepper.ID)
			require.NoError(t, err)
			assert.Equal(t, "pepper", it.Name)

			_, err = svc.GetIngredient(e.ctx, 31337)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestReferenceIngredientServedFromCache(t *testing.T) {
	e := newEnv(t)
	salt := e.fx.Ingredient("salt", "g")
	svc := newCachedReference(t, e)

	_, err := svc.GetIngredient(e.ctx, salt.ID)
	require.NoError(t, err)
	e.queries.Reset()
	it, err := svc.GetIngredient(e.ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, salt.ID, it.ID)
	assert.Equal(t, salt.Name, it.Name)
	assert.Equal(t, salt.MeasurementUnit, it.MeasurementUnit)
	assert.Zero(t, e.queries.Load())
}

func TestSearchIngredientsReturnsEveryMatch(t *testing.T) {
	e := newEnv(t)
	const n = 77
	for i := 0; i < n; i++ {
		e.fx.Ingredient(fmt.Sprintf("ingredient %02d", i), "g")
	}

	for name, svc := range map[string]ReferenceService{
		"cached":   newCachedReference(t, e),
		"uncached": NewReferenceService(e.store, nil),
	} {
		t.Run(name, func(t *testing.T) {
			all, err := svc.SearchIngredients(e.ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, n)

			prefixed, err := svc.SearchIngredients(e.ctx, "INGREDIENT")
			require.NoError(t, err)
			assert.Len(t, prefixed, n)
		})
	}
}

func TestSearchIngredientsFoldsNonASCIICase(t *testing.T) {
	e := newEnv(t)
	milk := e.fx.Ingredient("Молоко", "мл")
	e.fx.Ingredient("мука", "г")
	e.fx.Ingredient("Соль", "г")
	svc := NewReferenceService(e.store, nil)

	for _, prefix := range []string{"мол", "МОЛ", "Мол"} {
		items, err := svc.SearchIngredients(e.ctx, prefix)
		require.NoError(t, err)
		require.Len(t, items, 1, prefix)
		assert.Equal(t, milk.ID, items[0].ID)
		assert.Equal(t, "Молоко", items[0].Name)
	}

	items, err := svc.SearchIngredients(e.ctx, "М")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
