// Package convert holds the conversion strategies and the registry that
// picks one of them for a (source, target) type pair.
//
// A Strategy is one of a closed set of variants:
//
//   - SameType passes a value through when the cores are assignable
//   - Primitive converts between Go basic kinds and time.Time/time.Duration
//     using the templates of package primitive
//   - Enum converts between enums and strings or integers
//   - Delegate calls another mapping function by reference
//   - Custom wraps a caller supplied match/convert pair
//
// Strategies are immutable values. A Registry is created at the start of a
// pass from Builtins plus the delegates known to the pass and discarded at
// its end; FindBest returns at most one strategy per query.
//
// Nullability: strategies declare non-null cores. A nullable source still
// matches, the produced Expr is marked NullSafe and, when the target is not
// nullable, AssertNotNull. A nullable declared result feeding a non-null
// target is asserted as well.
package convert
