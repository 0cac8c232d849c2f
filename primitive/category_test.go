package primitive_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/primitive"
)

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to primitive.KindEnum
		want     primitive.CategoryEnum
	}{
		{primitive.KindInt32, primitive.KindInt64, primitive.CategorySafeNumber},
		{primitive.KindInt64, primitive.KindInt32, primitive.CategoryUnsafeNumber},
		{primitive.KindInt64, primitive.KindString, primitive.CategoryTextNumber},
		{primitive.KindBool, primitive.KindInt, primitive.CategoryNumericBool},
		{primitive.KindString, primitive.KindBool, primitive.CategoryTextualBool},
		{primitive.KindTime, primitive.KindString, primitive.CategoryDatetime},
		{primitive.KindTime, primitive.KindInt64, primitive.CategoryTimestamp},
		{primitive.KindDuration, primitive.KindInt64, primitive.CategoryNanoseconds},
		{primitive.KindDuration, primitive.KindFloat64, primitive.CategorySeconds},
		{primitive.KindPrimitiveEnum, primitive.KindString, primitive.CategoryEnumString},
		{primitive.KindTime, primitive.KindInt8, primitive.CategoryNone},
		{primitive.KindBool, primitive.KindTime, primitive.CategoryNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, primitive.CategoryOf(primitive.ConversionPair{From: tt.from, To: tt.to}),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestDefaultEnabled(t *testing.T) {
	t.Parallel()

	enabled := func(from, to primitive.KindEnum) bool {
		return primitive.DefaultEnabled(primitive.ConversionPair{From: from, To: to})
	}

	assert.True(t, enabled(primitive.KindInt32, primitive.KindInt64), "safe widening")
	assert.False(t, enabled(primitive.KindInt64, primitive.KindInt32), "narrowing")
	assert.False(t, enabled(primitive.KindInt64, primitive.KindInt64), "identity is left to same-type")
	assert.True(t, enabled(primitive.KindFloat32, primitive.KindString), "number to string")
	assert.False(t, enabled(primitive.KindString, primitive.KindFloat32), "parse can fail")
	assert.False(t, enabled(primitive.KindBool, primitive.KindInt))
	assert.False(t, enabled(primitive.KindInt, primitive.KindBool))
	assert.True(t, enabled(primitive.KindBool, primitive.KindString))
	assert.False(t, enabled(primitive.KindString, primitive.KindBool))
	assert.True(t, enabled(primitive.KindTime, primitive.KindString))
	assert.False(t, enabled(primitive.KindString, primitive.KindDuration))
	assert.True(t, enabled(primitive.KindPrimitiveEnum, primitive.KindString))
	assert.False(t, enabled(primitive.KindString, primitive.KindPrimitiveEnum))
}

func TestPairsAreSorted(t *testing.T) {
	t.Parallel()

	pairs := primitive.Pairs(primitive.CategoryDatetime | primitive.CategoryDuration)
	assert.Equal(t, []primitive.ConversionPair{
		{From: primitive.KindString, To: primitive.KindTime},
		{From: primitive.KindString, To: primitive.KindDuration},
		{From: primitive.KindTime, To: primitive.KindString},
		{From: primitive.KindDuration, To: primitive.KindString},
	}, pairs)

	assert.Empty(t, primitive.Pairs(primitive.CategoryNone))
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("expression", func(t *testing.T) {
		t.Parallel()

		lines, ok := primitive.Template(primitive.ConversionPair{From: primitive.KindInt32, To: primitive.KindString})
		require.True(t, ok)
		assert.False(t, primitive.IsStatement(lines))

		res, err := primitive.Render(lines, primitive.Vars{Src: "src.Quantity", DstType: "string"})
		require.NoError(t, err)
		assert.Equal(t, []string{"string(strconv.FormatInt(int64(src.Quantity), 10))"}, res, spew.Sdump(res))
	})

	t.Run("statement", func(t *testing.T) {
		t.Parallel()

		lines, ok := primitive.Template(primitive.ConversionPair{From: primitive.KindString, To: primitive.KindInt16})
		require.True(t, ok)
		assert.True(t, primitive.IsStatement(lines))

		res, err := primitive.Render(lines, primitive.Vars{
			Src:      "src.Count",
			Dst:      "dst.Count",
			DstType:  "int16",
			DstStem:  "count",
			FuncName: "ToItem",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"var count int64",
			"count, err = strconv.ParseInt(src.Count, 10, 16)",
			"if err != nil {",
			`	return fmt.Errorf("ToItem: %w", err)`,
			"}",
			"",
			"dst.Count = int16(count)",
		}, res, spew.Sdump(res))
	})

	t.Run("template is a copy", func(t *testing.T) {
		t.Parallel()

		pair := primitive.ConversionPair{From: primitive.KindTime, To: primitive.KindString}
		lines, _ := primitive.Template(pair)
		lines[0] = "changed"

		again, _ := primitive.Template(pair)
		assert.Equal(t, "{{.src}}.Format(time.RFC3339Nano)", again[0])
	})

	t.Run("bad template", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Render([]string{"{{.src"}, primitive.Vars{})
		assert.Error(t, err)
	})
}

func TestCategoryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", primitive.CategoryNone.String())
	assert.Equal(t, "text-number", primitive.CategoryTextNumber.String())
	assert.Equal(t, "safe-number|duration", (primitive.CategorySafeNumber | primitive.CategoryDuration).String())
}
