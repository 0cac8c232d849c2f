// Package match provides identifier normalization and edit-distance scoring
// used to suggest property names when a directive references one that does
// not exist.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
