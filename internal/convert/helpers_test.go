package convert

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
	"mapgen/primitive"
)

func primitivePair(t *testing.T, env Env, src, dst analyze.TypeRef) primitive.ConversionPair {
	t.Helper()

	pair := primitive.ConversionPair{From: kindOf(env, src.Core()), To: kindOf(env, dst.Core())}
	require.NotZero(t, pair.From)
	require.NotZero(t, pair.To)

	return pair
}
