package cache

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
	"mapgen/internal/diagnostic"
	"mapgen/internal/mapping"
	"mapgen/internal/plan"
)

func testGraph(extra ...string) *analyze.TypeGraph {
	g := analyze.NewTypeGraph()

	for _, name := range append([]string{"Order", "Customer", "Item"}, extra...) {
		for _, pkg := range []string{"example.com/store", "example.com/warehouse"} {
			g.AddType(&analyze.TypeInfo{
				ID:   analyze.TypeID{PkgPath: pkg, Name: name},
				Kind: analyze.TypeKindStruct,
				Properties: []analyze.PropertyInfo{
					{Name: "ID", Type: analyze.Basic("int64"), Mutable: true},
				},
			})
		}
	}

	return g
}

func testRequest() plan.Request {
	src := analyze.Named("example.com/store", "Order")
	dst := analyze.Named("example.com/warehouse", "Order")

	return plan.Request{
		Kind:   mapping.KindTo,
		Func:   plan.DefaultFunc(mapping.KindTo, src.ID, dst.ID),
		Param:  plan.DefaultParam,
		Source: src,
		Target: dst,
	}
}

func TestFingerprint(t *testing.T) {
	in := Inputs{Graph: testGraph(), Requests: []plan.Request{testRequest()}, Config: plan.DefaultConfig()}

	first, err := Fingerprint(in)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	for range 5 {
		again, err := Fingerprint(Inputs{Graph: testGraph(), Requests: []plan.Request{testRequest()}, Config: plan.DefaultConfig()})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	changes := map[string]Inputs{
		"graph":   {Graph: testGraph("Note"), Requests: in.Requests, Config: in.Config},
		"config":  {Graph: in.Graph, Requests: in.Requests, Config: plan.Config{}},
		"records": {Graph: in.Graph, Requests: in.Requests, Config: in.Config, Records: []convert.Record{{Param: "x"}}},
	}

	for name, changed := range changes {
		other, err := Fingerprint(changed)
		require.NoError(t, err)
		assert.NotEqual(t, first, other, name)
	}
}

func TestStore(t *testing.T) {
	g := testGraph()
	res := plan.NewBuilder(g, plan.DefaultConfig(), nil).Run([]plan.Request{testRequest()}, nil)
	require.Len(t, res.Plans, 1)

	s := New(afero.NewMemMapFs(), "/cache", nil)

	_, ok := s.Load("abc")
	assert.False(t, ok)

	require.NoError(t, s.Save("abc", res))

	cached, ok := s.Load("abc")
	require.True(t, ok)
	plans := cached.Plans
	require.Len(t, plans, 1)
	assert.Equal(t, res.Plans[0].Func, plans[0].Func)
	assert.Equal(t, res.Plans[0].Assignments[0].Value.String(), plans[0].Assignments[0].Value.String())

	require.NoError(t, s.Clear())

	_, ok = s.Load("abc")
	assert.False(t, ok)
}

func TestStore_KeepsDiagnostics(t *testing.T) {
	res := &plan.Result{}
	res.Diagnostics.AddLint(diagnostic.CodeImmutableUnbound, "Audit is not bound to a constructor parameter", "A->B", "Audit")
	res.Diagnostics.AddWarning(diagnostic.CodeUnknownSource, "Ignoring mapping", "A->B", "Nme", "Name")
	res.Diagnostics.AddInfo(diagnostic.CodeNullAssertion, "Text asserted non-null", "A->B", "Text")

	s := New(afero.NewMemMapFs(), "/cache", nil)
	require.NoError(t, s.Save("abc", res))

	cached, ok := s.Load("abc")
	require.True(t, ok)
	assert.Equal(t, res.Diagnostics, cached.Diagnostics)
}

func TestStore_Corrupt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cache/abc.msgpack", []byte("not msgpack"), 0o644))

	_, ok := New(fsys, "/cache", nil).Load("abc")
	assert.False(t, ok)
}
