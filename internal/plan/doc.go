// Package plan turns mapping requests into assignment plans.
//
// Resolution pipeline, per pass:
//  1. Analyze packages → type graph
//  2. Load the mapping file (optional) → validate → Requests
//  3. Create the pass registry: built-in strategies, recorded and hand-written
//     delegates, and one delegate per request
//  4. For each request:
//     - resolve property mappings (Resolver)
//     - select the constructor (SelectConstructor)
//     - convert every bound value through the registry, deriving nested
//     mapping functions when allowed
//  5. Emit plans, failures and diagnostics
//
// A failing request produces a Failure and no plan; other requests are not
// affected.
package plan
