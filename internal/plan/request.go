package plan

import (
	"fmt"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
	"mapgen/internal/mapping"
)

// DefaultParam is the source parameter name when a mapping sets none.
const DefaultParam = "src"

// MapperRecv is the receiver type of generated mapper methods.
const MapperRecv = "Mapper"

// FromMappingFile turns a mapping file into requests and the records of its
// hand-written converters. Type names are resolved against graph.
func FromMappingFile(mf *mapping.MappingFile, graph *analyze.TypeGraph) ([]Request, []convert.Record, error) {
	requests := make([]Request, 0, len(mf.TypeMappings))

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]

		req, err := requestOf(tm, graph)
		if err != nil {
			return nil, nil, fmt.Errorf("mapping %s: %w", tm, err)
		}

		requests = append(requests, req)
	}

	records := make([]convert.Record, 0, len(mf.Converters))

	for _, def := range mf.Converters {
		rec, err := recordOf(def, graph)
		if err != nil {
			return nil, nil, fmt.Errorf("converter %s: %w", def.Func, err)
		}

		records = append(records, rec)
	}

	return requests, records, nil
}

func requestOf(tm *mapping.TypeMapping, graph *analyze.TypeGraph) (Request, error) {
	src, err := mapping.LookupType(tm.Source, graph)
	if err != nil {
		return Request{}, err
	}

	dst, err := mapping.LookupType(tm.Target, graph)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Kind:       tm.Kind,
		Param:      tm.Param,
		Source:     src.Ref(),
		Target:     dst.Ref(),
		Directives: tm.Directives(),
		Priority:   convert.PriorityDerived,
	}

	if req.Kind == "" {
		req.Kind = mapping.KindMapper
	}

	if req.Param == "" {
		req.Param = DefaultParam
	}

	if tm.Priority != nil {
		req.Priority = *tm.Priority
	}

	if tm.Func != "" {
		if req.Func, err = analyze.ParseFuncRef(tm.Func); err != nil {
			return Request{}, err
		}
	} else {
		req.Func = DefaultFunc(req.Kind, src.ID, dst.ID)
	}

	for _, e := range tm.Extra {
		t, err := mapping.ResolveTypeRef(e.Type, graph)
		if err != nil {
			return Request{}, fmt.Errorf("extra parameter %s: %w", e.Name, err)
		}

		req.ExtraParams = append(req.ExtraParams, analyze.ParamInfo{Name: e.Name, Type: t})
	}

	if tm.Constructor != nil {
		types, err := mapping.ResolveTypeRefs(*tm.Constructor, graph)
		if err != nil {
			return Request{}, fmt.Errorf("constructor: %w", err)
		}

		req.Constructor = &types
	}

	return req, nil
}

// DefaultFunc names the function generated for kind: To<Target> next to the
// source type, From<Source> next to the target type, or a Mapper method in
// the target package.
func DefaultFunc(kind mapping.Kind, src, dst analyze.TypeID) analyze.FuncRef {
	switch kind {
	case mapping.KindTo:
		return analyze.FuncRef{PkgPath: src.PkgPath, Name: "To" + dst.Name}
	case mapping.KindFrom:
		return analyze.FuncRef{PkgPath: dst.PkgPath, Name: "From" + src.Name}
	default:
		return analyze.FuncRef{PkgPath: dst.PkgPath, Recv: MapperRecv, Name: "Map" + src.Name + "To" + dst.Name}
	}
}

func recordOf(def mapping.ConverterDef, graph *analyze.TypeGraph) (convert.Record, error) {
	fn, err := analyze.ParseFuncRef(def.Func)
	if err != nil {
		return convert.Record{}, err
	}

	src, err := mapping.ResolveTypeRef(def.Source, graph)
	if err != nil {
		return convert.Record{}, err
	}

	dst, err := mapping.ResolveTypeRef(def.Target, graph)
	if err != nil {
		return convert.Record{}, err
	}

	rec := convert.Record{
		Func:     fn,
		Param:    DefaultParam,
		Source:   src,
		Target:   dst,
		Priority: convert.PriorityHandWritten,
		Disabled: def.Disabled,
	}

	if info, ok := graph.Func(fn); ok && info.Param != "" {
		rec.Param = info.Param
	}

	if def.Priority != nil {
		rec.Priority = *def.Priority
	}

	return rec, nil
}
