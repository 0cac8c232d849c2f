package convert

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
)

func TestBuiltins(t *testing.T) {
	all := Builtins()

	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s.ID()], "duplicate id %s", s.ID())
		seen[s.ID()] = true
	}

	assert.Equal(t, SameTypeID, all[0].ID())
	assert.True(t, seen["primitive.int32-int64"])
	assert.True(t, seen["temporal.time-string"])
	assert.True(t, seen["temporal.duration-int64"])
	assert.True(t, seen["enum.to-string"])
	assert.False(t, seen["primitive.int64-int64"], "identity pairs are left to same-type")
}

func TestFindBest_Builtins(t *testing.T) {
	env := testEnv()
	r := NewRegistry(nil, Builtins()...)

	tests := []struct {
		name     string
		src, dst analyze.TypeRef
		force    []string
		want     string
	}{
		{"identical", stringRef, stringRef, nil, SameTypeID},
		{"nullable identical", stringRef.Ptr(), stringRef, nil, SameTypeID},
		{"widening", int32Ref, int64Ref, nil, "primitive.int32-int64"},
		{"number to string", int64Ref, stringRef, nil, "primitive.int64-string"},
		{"string to number", stringRef, int64Ref, []string{"primitive.string-int64"}, "primitive.string-int64"},
		{"defined type", centsRef, stringRef, nil, "primitive.int64-string"},
		{"time to string", timeRef, stringRef, nil, "temporal.time-string"},
		{"embedded time", stampRef, int64Ref, nil, "temporal.time-int64"},
		{"embedded time is a time", stampRef, timeRef, nil, SameTypeID},
		{"enum to string", statusRef, stringRef, nil, "enum.to-string"},
		{"enum to int", statusRef, int64Ref, []string{"enum.to-integer"}, "enum.to-integer"},
		{"string to enum", stringRef, labelRef, []string{"enum.from-string"}, "enum.from-string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := r.FindBest(env, tt.src, tt.dst, tt.force)
			require.True(t, ok)
			assert.Equal(t, tt.want, best.ID())
		})
	}

	t.Run("disabled", func(t *testing.T) {
		for _, pair := range [][2]analyze.TypeRef{
			{statusRef, int64Ref},
			{stringRef, labelRef},
			{stringRef, statusRef},
			{stringRef, timeRef},
			{analyze.Basic("bool"), int64Ref},
		} {
			_, ok := r.FindBest(env, pair[0], pair[1], nil)
			assert.False(t, ok, "%s -> %s", pair[0], pair[1])
		}
	})
}

func TestConvert_Nullability(t *testing.T) {
	env := testEnv()
	ctx := NewContext(env, analyze.FuncRef{PkgPath: "mapgen/warehouse", Name: "FromOrder"})
	widen, ok := NewPrimitive(primitivePair(t, env, int32Ref, int64Ref))
	require.True(t, ok)

	tests := []struct {
		name     string
		src, dst analyze.TypeRef
		nullSafe bool
		asserts  bool
	}{
		{"non-null to non-null", int32Ref, int64Ref, false, false},
		{"nullable to nullable", int32Ref.Ptr(), int64Ref.Ptr(), true, false},
		{"nullable to non-null", int32Ref.Ptr(), int64Ref, true, true},
		{"non-null to nullable", int32Ref, int64Ref.Ptr(), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, widen.Matches(env, tt.src, tt.dst))

			out, err := widen.Convert(ctx, SourceExpr("Quantity"), tt.src, tt.dst)
			require.NoError(t, err)

			assert.Equal(t, tt.nullSafe, out.NullSafe, spew.Sdump(out))
			assert.Equal(t, tt.asserts, out.AssertNotNull, spew.Sdump(out))
			assert.Equal(t, ExprTemplate, out.Kind)
			assert.Equal(t, []string{"{{.dstType}}({{.src}})"}, out.Lines)
			assert.False(t, out.Statement)
		})
	}
}

func TestConvert_SameType(t *testing.T) {
	out, err := SameType{}.Convert(nil, SourceExpr("Name"), stringRef.Ptr(), stringRef)
	require.NoError(t, err)

	assert.Equal(t, ExprSource, out.Kind)
	assert.True(t, out.AssertNotNull)
	assert.Equal(t, "src.Name!!", out.String())

	out, err = SameType{}.Convert(nil, SourceExpr("Name"), stringRef.Ptr(), stringRef.Ptr())
	require.NoError(t, err)
	assert.False(t, out.AssertNotNull)
	assert.False(t, out.NullSafe)
}

func TestConvert_Statement(t *testing.T) {
	env := testEnv()
	parse, ok := NewPrimitive(primitivePair(t, env, stringRef, int64Ref))
	require.True(t, ok)

	out, err := parse.Convert(NewContext(env, analyze.FuncRef{}), SourceExpr("Total"), stringRef, int64Ref)
	require.NoError(t, err)

	assert.True(t, out.Statement)
	assert.Equal(t, "primitive.string-int64(src.Total)", out.String())
}

func TestConvert_Enum(t *testing.T) {
	env := testEnv()
	ctx := NewContext(env, analyze.FuncRef{})

	out, err := NewEnum(EnumToString).Convert(ctx, SourceExpr("Status"), statusRef, stringRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"{{.src}}.String()"}, out.Lines)

	out, err = NewEnum(EnumToString).Convert(ctx, SourceExpr("Label"), labelRef, stringRef)
	require.NoError(t, err)
	assert.Equal(t, []string{"{{.dstType}}({{.src}})"}, out.Lines)

	out, err = NewEnum(StringToEnum).Convert(ctx, SourceExpr("Label"), stringRef.Ptr(), labelRef.Ptr())
	require.NoError(t, err)
	assert.True(t, out.NullSafe)
	assert.False(t, out.AssertNotNull)
}

func TestString(t *testing.T) {
	assert.Equal(t, "same-type [SameType, priority 0, enabled]", String(SameType{}))
	assert.Equal(t, "enum.to-integer [Enum, priority 3000, disabled]", String(NewEnum(EnumToInteger)))
	assert.Equal(t, "Family(42)", Family(42).String())
}
