// Package diagnostic provides structured errors, warnings, lints and infos
// collected while a mapping pass runs.
//
// Key capabilities:
//   - Dropped directive warnings (unknown source property, unknown target)
//   - Lints for mappings that silently produce no assignment
//   - Null-assertion notes marking runtime failure points in a plan
//   - "Did you mean" suggestions attached to a diagnostic
package diagnostic
