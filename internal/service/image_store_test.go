package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/foodgram/pkg/apperr"
)

func TestImageStoreSave(t *testing.T) {
	e := newEnv(t)

	key, err := e.images.Save(e.ctx, pngDataURI)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	bare := strings.TrimPrefix(pngDataURI, "data:image/png;base64,")
	key2, err := e.images.Save(e.ctx, bare)
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)

	url, err := e.images.URL(e.ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+key, url)

	require.NoError(t, e.images.Delete(e.ctx, key))
	ok, err := e.files.Exists(e.ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, e.images.Delete(e.ctx, ""))
}

func TestImageStoreRejects(t *testing.T) {
	e := newEnv(t)
	text := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("just some text"))

	for name, in := range map[string]string{
		"empty":       "",
		"not base64":  "data:image/png;base64,@@@",
		"not encoded": "data:image/png,raw",
		"not image":   text,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.images.Save(e.ctx, in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
