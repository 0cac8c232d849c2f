package plan

import (
	"cmp"
	"slices"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
)

// Compatible reports whether mapping m can provide a value of type dst.
type Compatible func(m *ResolvedPropertyMapping, dst analyze.TypeRef) bool

// Selection is the outcome of SelectConstructor.
type Selection struct {
	// Constructor is nil for a zero value literal.
	Constructor *analyze.ConstructorInfo
	// Args holds one mapping per bound parameter, in parameter order.
	// Optional parameters without a mapping are left out.
	Args []Arg
	// Assignments are the mappings of mutable properties not consumed by
	// the constructor, in resolution order.
	Assignments []ResolvedPropertyMapping
	// Dropped are the mappings of immutable properties not consumed by the
	// constructor.
	Dropped []ResolvedPropertyMapping
}

// Arg binds a constructor parameter.
type Arg struct {
	Param   analyze.ParamInfo
	Mapping ResolvedPropertyMapping
}

// SelectConstructor picks the constructor of target and partitions mappings
// into constructor arguments and post-construction assignments.
//
// With an explicit parameter type list, the visible constructors whose
// parameter types accept the list in order are candidates; an empty list
// selects the zero-argument constructor, or the zero value literal when the
// type has no visible constructor. Without one, a constructor qualifies when every
// required parameter has a compatible mapping; the qualifying constructor
// with the most parameters wins. The zero-argument constructor is a fallback
// only when no other constructor partially overlaps the mappings. A type
// without visible constructors is built as a zero value literal.
func SelectConstructor(
	env convert.Env,
	target *analyze.TypeInfo,
	mappings []ResolvedPropertyMapping,
	explicit *[]analyze.TypeRef,
	compatible Compatible,
) (Selection, error) {
	active := make(map[string]*ResolvedPropertyMapping)

	for i := range mappings {
		if !mappings[i].Ignored() {
			active[mappings[i].Target] = &mappings[i]
		}
	}

	var visible []analyze.ConstructorInfo

	for _, c := range target.Constructors {
		if c.Visible {
			visible = append(visible, c)
		}
	}

	var (
		chosen *analyze.ConstructorInfo
		err    error
	)

	if explicit != nil {
		chosen, err = selectExplicit(env, target.ID, visible, *explicit)
	} else {
		chosen, err = selectAutomatic(target.ID, visible, active, compatible)
	}

	if err != nil {
		return Selection{}, err
	}

	return partition(target, chosen, mappings, active)
}

func selectExplicit(
	env convert.Env,
	id analyze.TypeID,
	visible []analyze.ConstructorInfo,
	types []analyze.TypeRef,
) (*analyze.ConstructorInfo, error) {
	var matches []analyze.ConstructorInfo

	for _, c := range visible {
		if len(c.Params) != len(types) {
			continue
		}

		ok := true

		for i, p := range c.Params {
			if !env.Assignable(types[i], p.Type) {
				ok = false
				break
			}
		}

		if ok {
			matches = append(matches, c)
		}
	}

	switch {
	case len(matches) == 1:
		return &matches[0], nil
	case len(matches) > 1:
		return nil, ambiguous(id, matches)
	case len(types) == 0 && len(visible) == 0:
		return nil, nil
	default:
		return nil, &NoMatchingConstructorError{Target: id, Explicit: types}
	}
}

func selectAutomatic(
	id analyze.TypeID,
	visible []analyze.ConstructorInfo,
	active map[string]*ResolvedPropertyMapping,
	compatible Compatible,
) (*analyze.ConstructorInfo, error) {
	if len(visible) == 0 {
		return nil, nil
	}

	var (
		qualifying []analyze.ConstructorInfo
		zeroArg    *analyze.ConstructorInfo
		partial    *analyze.ConstructorInfo
		partialCov int
		missing    []string
	)

	for i, c := range visible {
		if len(c.Params) == 0 {
			if zeroArg == nil {
				zeroArg = &visible[i]
			}

			continue
		}

		covered, lacking := coverage(c, active, compatible)

		switch {
		case len(lacking) == 0:
			qualifying = append(qualifying, c)
		case covered > partialCov:
			partial, partialCov, missing = &visible[i], covered, lacking
		}
	}

	if len(qualifying) > 0 {
		most := slices.MaxFunc(qualifying, func(a, b analyze.ConstructorInfo) int {
			return cmp.Compare(len(a.Params), len(b.Params))
		})

		best := slices.DeleteFunc(qualifying, func(c analyze.ConstructorInfo) bool {
			return len(c.Params) != len(most.Params)
		})
		if len(best) > 1 {
			return nil, ambiguous(id, best)
		}

		return &best[0], nil
	}

	if partial != nil {
		return nil, &NoMatchingConstructorError{Target: id, Constructor: partial.Name, Missing: missing}
	}

	if zeroArg != nil {
		return zeroArg, nil
	}

	return nil, &NoMatchingConstructorError{Target: id}
}

// coverage counts the parameters of c with a compatible mapping and lists
// the required ones without.
func coverage(
	c analyze.ConstructorInfo,
	active map[string]*ResolvedPropertyMapping,
	compatible Compatible,
) (int, []string) {
	covered := 0

	var lacking []string

	for _, p := range c.Params {
		m, ok := active[p.Name]

		switch {
		case ok && (compatible == nil || compatible(m, p.Type)):
			covered++
		case !p.Optional:
			lacking = append(lacking, p.Name)
		}
	}

	return covered, lacking
}

func partition(
	target *analyze.TypeInfo,
	chosen *analyze.ConstructorInfo,
	mappings []ResolvedPropertyMapping,
	active map[string]*ResolvedPropertyMapping,
) (Selection, error) {
	sel := Selection{Constructor: chosen}
	consumed := map[string]struct{}{}

	if chosen != nil {
		var missing []string

		for _, p := range chosen.Params {
			m, ok := active[p.Name]
			if !ok {
				if !p.Optional {
					missing = append(missing, p.Name)
				}

				continue
			}

			sel.Args = append(sel.Args, Arg{Param: p, Mapping: *m})
			consumed[p.Name] = struct{}{}
		}

		if len(missing) > 0 {
			return Selection{}, &NoMatchingConstructorError{Target: target.ID, Constructor: chosen.Name, Missing: missing}
		}
	}

	for _, m := range mappings {
		if m.Ignored() {
			continue
		}

		if _, ok := consumed[m.Target]; ok {
			continue
		}

		prop, ok := target.Property(m.Target)
		switch {
		case !ok:
			// Extra parameters or parameters of another constructor.
		case prop.Mutable:
			sel.Assignments = append(sel.Assignments, m)
		default:
			sel.Dropped = append(sel.Dropped, m)
		}
	}

	return sel, nil
}

func ambiguous(id analyze.TypeID, list []analyze.ConstructorInfo) error {
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name
	}

	return &AmbiguousConstructorError{Target: id, Candidates: names}
}
