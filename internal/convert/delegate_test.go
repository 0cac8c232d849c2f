package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
	"mapgen/internal/mapping"
)

var (
	toOrder = analyze.FuncRef{PkgPath: "mapgen/mappers", Recv: "OrderMapper", Name: "ToOrder"}
	toItem  = analyze.FuncRef{PkgPath: "mapgen/mappers", Recv: "OrderMapper", Name: "ToItem"}
	other   = analyze.FuncRef{PkgPath: "mapgen/mappers", Recv: "ItemMapper", Name: "ToItem"}
)

func orderDelegate(fn analyze.FuncRef, source, target analyze.TypeRef) Delegate {
	return NewDelegate(Record{
		Kind:     mapping.KindMapper,
		Func:     fn,
		Param:    "src",
		Source:   source,
		Target:   target,
		Priority: PriorityDerived,
	})
}

func TestDelegate_Matches(t *testing.T) {
	env := testEnv()
	d := orderDelegate(toOrder, orderRef, dtoRef)

	assert.True(t, d.Matches(env, orderRef, dtoRef))
	assert.True(t, d.Matches(env, orderRef.Ptr(), dtoRef))
	assert.True(t, d.Matches(env, orderRef, dtoRef.Ptr()))
	assert.False(t, d.Matches(env, dtoRef, orderRef))
	assert.Equal(t, "delegate.mapgen/mappers.OrderMapper.ToOrder", d.ID())
	assert.Equal(t, FamilyDelegate, d.Family())
}

func TestDelegate_Convert(t *testing.T) {
	env := testEnv()

	tests := []struct {
		name     string
		current  analyze.FuncRef
		rec      Delegate
		src, dst analyze.TypeRef
		want     string
	}{
		{
			name:    "call",
			current: toItem,
			rec:     orderDelegate(other, orderRef, dtoRef),
			src:     orderRef,
			dst:     dtoRef,
			want:    "mapgen/mappers.ItemMapper.ToItem(src.Order)",
		},
		{
			name:    "same mapper is self",
			current: toItem,
			rec:     orderDelegate(toOrder, orderRef, dtoRef),
			src:     orderRef,
			dst:     dtoRef,
			want:    "self.ToOrder(src.Order)",
		},
		{
			name:    "recursion is self",
			current: toOrder,
			rec:     orderDelegate(toOrder, orderRef, dtoRef),
			src:     orderRef.Ptr(),
			dst:     dtoRef.Ptr(),
			want:    "self.ToOrder(src.Order)?",
		},
		{
			name:    "nullable source into non-null target",
			current: toItem,
			rec:     orderDelegate(other, orderRef, dtoRef),
			src:     orderRef.Ptr(),
			dst:     dtoRef,
			want:    "mapgen/mappers.ItemMapper.ToItem(src.Order)?!!",
		},
		{
			name:    "nullable result into non-null target",
			current: toItem,
			rec:     orderDelegate(other, orderRef, dtoRef.Ptr()),
			src:     orderRef,
			dst:     dtoRef,
			want:    "mapgen/mappers.ItemMapper.ToItem(src.Order)!!",
		},
		{
			name:    "function accepting nil",
			current: toItem,
			rec:     orderDelegate(other, orderRef.Ptr(), dtoRef.Ptr()),
			src:     orderRef.Ptr(),
			dst:     dtoRef.Ptr(),
			want:    "mapgen/mappers.ItemMapper.ToItem(src.Order)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.rec.Convert(NewContext(env, tt.current), SourceExpr("Order"), tt.src, tt.dst)
			require.NoError(t, err)

			assert.Equal(t, ExprCall, out.Kind)
			assert.Equal(t, "src", out.Param)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestCustom(t *testing.T) {
	env := testEnv()

	upper := NewCustom("upper", 10, false,
		func(_ Env, src, dst analyze.TypeRef) bool {
			return src.Core().Equal(stringRef) && dst.Core().Equal(stringRef)
		},
		func(_ *Context, in Expr, _, _ analyze.TypeRef) (Expr, error) {
			arg := in
			return Expr{Kind: ExprTemplate, Lines: []string{"strings.ToUpper({{.src}})"}, Arg: &arg}, nil
		},
	)

	assert.Equal(t, "custom.upper", upper.ID())
	assert.False(t, upper.EnabledByDefault())

	r := NewRegistry(nil, Builtins()...)
	r.Register(upper)

	best, ok := r.FindBest(env, stringRef, stringRef, nil)
	require.True(t, ok)
	assert.Equal(t, SameTypeID, best.ID())

	best, ok = r.FindBest(env, stringRef.Ptr(), stringRef, []string{"custom.upper"})
	require.True(t, ok)
	require.Equal(t, "custom.upper", best.ID())

	out, err := best.Convert(nil, SourceExpr("Name"), stringRef.Ptr(), stringRef)
	require.NoError(t, err)
	assert.Equal(t, "custom.upper(src.Name)?!!", out.String())

	failing := NewCustom("failing", 1, true, always, func(*Context, Expr, analyze.TypeRef, analyze.TypeRef) (Expr, error) {
		return Expr{}, errors.New("boom")
	})
	_, err = failing.Convert(nil, SourceExpr("Name"), stringRef, stringRef)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom.failing: boom")

	_, err = NewCustom("empty", 1, true, always, nil).Convert(nil, SourceExpr("Name"), stringRef, stringRef)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestContext(t *testing.T) {
	ctx := NewContext(testEnv(), toOrder)

	require.True(t, ctx.Enter(orderRef, dtoRef))
	assert.Equal(t, 1, ctx.Depth)
	assert.False(t, ctx.Enter(orderRef.Ptr(), dtoRef), "nullability does not make a new pair")
	assert.True(t, ctx.Visiting(orderRef, dtoRef))

	child := ctx.Child(toItem)
	assert.True(t, child.Visiting(orderRef, dtoRef), "children share the path")
	assert.True(t, child.IsSelf(toOrder), "same mapper")
	assert.False(t, child.IsSelf(other))

	ctx.Leave(orderRef, dtoRef)
	assert.Equal(t, 0, ctx.Depth)
	assert.False(t, ctx.Visiting(orderRef, dtoRef))

	var none *Context
	assert.False(t, none.IsSelf(toOrder))
}

func TestExpr(t *testing.T) {
	assert.Equal(t, "src.Name", SourceExpr("Name").String())
	assert.Equal(t, `"fixed"`, ConstantExpr(`"fixed"`).String())
	assert.Equal(t, "strings.TrimSpace(src.Note)", UserExpr("strings.TrimSpace(src.Note)").String())
	assert.Equal(t, "tenant", ParamExpr("tenant").String())
	assert.Equal(t, "template", ExprTemplate.String())

	inner := SourceExpr("Name")
	inner.AssertNotNull = true
	outer := Expr{Kind: ExprTemplate, Strategy: "x", Arg: &inner}
	assert.True(t, outer.Asserts())
	assert.False(t, SourceExpr("Name").Asserts())
}
