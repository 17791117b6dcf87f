package service

import (
	"context"
	"testing"

	"social-backend/internal/service/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	assert.Equal(t, []string{"#foo", "#bar", "#foo"}, ExtractHashtags("hello #Foo and #bar, again #FOO"))
	assert.Empty(t, ExtractHashtags("no tags # here"))
	assert.Equal(t, map[string]int64{"#a": -2, "#b": -1}, hashtagDeltas("#a #b #a", -1))
}

func TestNormalizeSearchTerm(t *testing.T) {
	assert.Equal(t, "#rustlang", NormalizeSearchTerm("Rust Lang"))
	assert.Equal(t, "#go", NormalizeSearchTerm("#go"))
}

func TestRecordSearchAndTrends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, term := range []string{"golang", "Go Lang", "rust", "golang"} {
		require.NoError(t, env.trends.RecordSearch(ctx, term))
	}
	assertCode(t, env.trends.RecordSearch(ctx, "  "), errors.ErrInvalidInput)

	trends, err := env.trends.GetTrends(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "#golang", trends[0].Topic)
	assert.EqualValues(t, 3, trends[0].SearchCount)
	assert.Equal(t, "#rust", trends[1].Topic)
}
