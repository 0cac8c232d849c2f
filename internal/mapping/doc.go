// Package mapping provides the mapping file schema, its YAML and HCL parsers,
// and structural validation against a type graph.
//
// A mapping file is the front-end input of a pass: each entry describes one
// mapping request and carries the directives that override implicit
// same-name property matching.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - kind: mapper                 # to | from | mapper
//	    func: mapgen/mappers.OrderMapper.ToWarehouse
//	    source: store.Order
//	    target: warehouse.Order
//	    priority: 10                 # whole-mapping priority
//	    enable: [primitive.int32-int64]
//	    constructor: [int64, warehouse.Customer]   # [] forces zero arguments
//	    extra:
//	      - name: requestID
//	        type: string
//	    121:                         # source: target shorthand
//	      FullName: Name
//	    fields:
//	      - target: Status
//	        constant: '"new"'
//	      - target: Note
//	        expression: 'strings.TrimSpace(it.Note)'
//	      - target: CreatedAt
//	        ignore: true
//	    ignore: [UpdatedAt]
//	converters:
//	  - func: mapgen/store.ParseStatus
//	    source: string
//	    target: store.OrderStatus
//
// The same structure can be written in HCL, see ParseHCL.
//
// # Directive Rules
//
//   - At most one of source, constant and expression is set.
//   - A directive with only a target binds the same-named source property.
//   - Each target is named by at most one directive.
//   - ignore wins over any other setting of the directive.
package mapping
