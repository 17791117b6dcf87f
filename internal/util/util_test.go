package util

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", "social", "user_ext_1", time.Hour)
	require.NoError(t, err)

	sub, err := ValidateToken("secret", "social", token)
	require.NoError(t, err)
	assert.Equal(t, "user_ext_1", sub)

	_, err = ValidateToken("other", "social", token)
	assert.Error(t, err)

	_, err = ValidateToken("secret", "someone-else", token)
	assert.Error(t, err)

	_, err = ValidateToken("secret", "", "")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "", "user_ext_1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("secret", "", token)
	assert.Error(t, err)
}

func TestGenerateObjectKey(t *testing.T) {
	key := GenerateObjectKey("posts", "png")
	assert.True(t, strings.HasPrefix(key, "posts/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, GenerateObjectKey("posts", ".png"))
}

func TestExtensionForMime(t *testing.T) {
	assert.Equal(t, ".png", ExtensionForMime("image/PNG"))
	assert.Equal(t, ".jpg", ExtensionForMime("image/jpeg"))
	assert.Equal(t, ".webp", ExtensionForMime("image/webp"))
}
