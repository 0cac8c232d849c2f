// Package analyze provides the type model consumed by the mapping core and a
// Go front-end that builds it.
//
// It uses golang.org/x/tools/go/packages with go/types to build a canonical
// in-memory model of named types, their properties and their constructors.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeRef: a TypeID plus nullability and type arguments
//   - TypeInfo: kind, properties, constructors, supertypes and enum values
//   - FuncInfo: a single-argument mapping function found in a package
//   - TypeGraph: lookup tables plus per-pass memo maps
package analyze
