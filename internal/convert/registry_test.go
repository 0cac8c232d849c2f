package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
)

func always(Env, analyze.TypeRef, analyze.TypeRef) bool { return true }

func never(Env, analyze.TypeRef, analyze.TypeRef) bool { return false }

func ids(strategies []Strategy) []string {
	res := make([]string, len(strategies))
	for i, s := range strategies {
		res[i] = s.ID()
	}

	return res
}

func TestRegistry_Order(t *testing.T) {
	r := NewRegistry(nil,
		NewCustom("b", 10, true, always, nil),
		NewCustom("low", 1, true, always, nil),
		NewCustom("a", 10, true, always, nil),
		NewCustom("high", 20, true, never, nil),
	)

	assert.Equal(t, []string{"custom.high", "custom.a", "custom.b", "custom.low"}, ids(r.Strategies()))

	best, ok := r.FindBest(testEnv(), int32Ref, int64Ref, nil)
	require.True(t, ok)
	assert.Equal(t, "custom.a", best.ID(), "equal priorities fall back to the ID")

	for range 5 {
		again, _ := r.FindBest(testEnv(), int32Ref, int64Ref, nil)
		assert.Equal(t, best.ID(), again.ID())
	}
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil, Builtins()...)
	n := r.Len()

	r.Register(Builtins()...)
	assert.Equal(t, n, r.Len())

	r.Register(NewCustom("x", 1, true, always, nil), NewCustom("x", 99, true, always, nil))
	assert.Equal(t, n+1, r.Len())

	s, ok := r.Get("custom.x")
	require.True(t, ok)
	assert.Equal(t, 1, s.Priority(), "the first registration wins")
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry(nil, Builtins()...)
	r.Reset(NewCustom("only", 1, true, always, nil))

	assert.Equal(t, []string{"custom.only"}, ids(r.Strategies()))

	_, ok := r.Get(SameTypeID)
	assert.False(t, ok)
}

func TestRegistry_ForceEnabled(t *testing.T) {
	env := testEnv()
	r := NewRegistry(nil, Builtins()...)

	_, ok := r.FindBest(env, int64Ref, int32Ref, nil)
	assert.False(t, ok, "narrowing is disabled by default")

	best, ok := r.FindBest(env, int64Ref, int32Ref, []string{"primitive.int64-int32"})
	require.True(t, ok)
	assert.Equal(t, "primitive.int64-int32", best.ID())

	_, ok = r.FindBest(env, int64Ref, int32Ref, []string{"primitive.int64-int16"})
	assert.False(t, ok, "enabling another strategy does not help")
}

func TestRegistry_NoMatch(t *testing.T) {
	r := NewRegistry(nil, Builtins()...)

	_, ok := r.FindBest(testEnv(), orderRef, dtoRef, nil)
	assert.False(t, ok)
}

func TestRegistry_DelegateOutranksBuiltins(t *testing.T) {
	env := testEnv()
	fn := analyze.FuncRef{PkgPath: "mapgen/store", Name: "FormatStatus"}

	r := NewRegistry(nil, Builtins()...)
	r.Register(NewDelegate(Record{
		Func:     fn,
		Param:    "s",
		Source:   statusRef,
		Target:   stringRef,
		Priority: PriorityHandWritten,
	}))

	best, ok := r.FindBest(env, statusRef, stringRef, nil)
	require.True(t, ok)
	assert.Equal(t, DelegateID(fn), best.ID())
}
