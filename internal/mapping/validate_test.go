package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapgen/internal/analyze"
	"mapgen/internal/diagnostic"
)

func testGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()

	g.AddType(&analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "mapgen/store", Name: "Customer"},
		Kind: analyze.TypeKindStruct,
		Properties: []analyze.PropertyInfo{
			{Name: "ID", Type: analyze.Basic("int64"), Mutable: true},
			{Name: "FullName", Type: analyze.Basic("string"), Mutable: true},
			{Name: "Email", Type: analyze.Basic("string"), Mutable: true},
		},
	})

	g.AddType(&analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "mapgen/warehouse", Name: "Customer"},
		Kind: analyze.TypeKindStruct,
		Properties: []analyze.PropertyInfo{
			{Name: "ID", Type: analyze.Basic("int64")},
			{Name: "Name", Type: analyze.Basic("string"), Mutable: true},
			{Name: "Contact", Type: analyze.Basic("string"), Mutable: true},
		},
		Constructors: []analyze.ConstructorInfo{{
			Name:    "NewCustomer",
			Visible: true,
			Params: []analyze.ParamInfo{
				{Name: "ID", Type: analyze.Basic("int64")},
				{Name: "Email", Type: analyze.Basic("string")},
			},
		}},
	})

	return g
}

func customerMapping() TypeMapping {
	return TypeMapping{
		Kind:   KindMapper,
		Source: "store.Customer",
		Target: "warehouse.Customer",
		Param:  "src",
	}
}

func TestValidate_Clean(t *testing.T) {
	tm := customerMapping()
	tm.OneToOne = map[string]string{"FullName": "Name"}
	tm.Fields = []Directive{
		{Target: "Contact", Expression: "src.Email"},
		{Target: "Email", Source: "Email"},
	}

	res := Validate(&MappingFile{TypeMappings: []TypeMapping{tm}}, testGraph())

	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Lints)
}

func TestValidate_UnknownSourceSuggests(t *testing.T) {
	tm := customerMapping()
	tm.Fields = []Directive{{Target: "Name", Source: "FulName"}}

	res := Validate(&MappingFile{TypeMappings: []TypeMapping{tm}}, testGraph())

	require.True(t, res.IsValid(), "unknown sources are warnings")
	require.Len(t, res.Warnings, 1)

	w := res.Warnings[0]
	assert.Equal(t, diagnostic.CodeUnknownSource, w.Code)
	assert.Equal(t, "Ignoring mapping: FulName not existing in Customer", w.Message)
	assert.Equal(t, "Name", w.Property)
	assert.Equal(t, "FullName", w.Suggestions[0])
}

func TestValidate_UnknownTarget(t *testing.T) {
	tm := customerMapping()
	tm.Extra = []ExtraParam{{Name: "tenant", Type: "string"}}
	tm.Fields = []Directive{
		{Target: "Nam", Source: "FullName"},
		{Target: "tenant", Constant: `"acme"`},
	}

	res := Validate(&MappingFile{TypeMappings: []TypeMapping{tm}}, testGraph())

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnknownTarget, res.Warnings[0].Code)
	assert.Equal(t, "Nam", res.Warnings[0].Property)
	assert.Contains(t, res.Warnings[0].Suggestions, "Name")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(mf *MappingFile)
		code   string
	}{
		{
			name: "conflicting directive",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Fields = []Directive{{Target: "Name", Source: "FullName", Constant: `"x"`}}
			},
			code: "conflicting_directive",
		},
		{
			name: "duplicate target",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Fields = []Directive{{Target: "Name", Source: "FullName"}}
				mf.TypeMappings[0].Ignore = []string{"Name"}
			},
			code: "duplicate_target",
		},
		{
			name: "missing source type",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Source = "store.Invoice"
			},
			code: "source_type_not_found",
		},
		{
			name: "missing target type",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Target = "warehouse.Invoice"
			},
			code: "target_type_not_found",
		},
		{
			name: "invalid func",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Func = "noPackage"
			},
			code: "invalid_func",
		},
		{
			name: "invalid constructor",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Constructor = &[]string{"map[string"}
			},
			code: "invalid_constructor",
		},
		{
			name: "unnamed extra",
			modify: func(mf *MappingFile) {
				mf.TypeMappings[0].Extra = []ExtraParam{{Type: "string"}}
			},
			code: "invalid_extra",
		},
		{
			name: "duplicate converter",
			modify: func(mf *MappingFile) {
				def := ConverterDef{Func: "mapgen/store.ParseStatus", Source: "string", Target: "int"}
				mf.Converters = []ConverterDef{def, def}
			},
			code: "duplicate_converter",
		},
		{
			name: "malformed converter",
			modify: func(mf *MappingFile) {
				mf.Converters = []ConverterDef{{Func: "ParseStatus", Source: "string", Target: "int"}}
			},
			code: diagnostic.CodeConverterDef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf := &MappingFile{TypeMappings: []TypeMapping{customerMapping()}}
			tt.modify(mf)

			res := Validate(mf, testGraph())
			require.False(t, res.IsValid())
			assert.Equal(t, tt.code, res.Errors[0].Code)
		})
	}
}

func TestValidate_FieldPriorityLint(t *testing.T) {
	prio := 4
	tm := customerMapping()
	tm.Fields = []Directive{{Target: "Name", Source: "FullName", Priority: &prio}}

	res := Validate(&MappingFile{TypeMappings: []TypeMapping{tm}}, testGraph())

	assert.True(t, res.IsValid())
	require.Len(t, res.Lints, 1)
	assert.Equal(t, "field_priority", res.Lints[0].Code)
}

func TestValidate_Nil(t *testing.T) {
	assert.False(t, Validate(nil, testGraph()).IsValid())
	assert.False(t, Validate(&MappingFile{}, nil).IsValid())
}
