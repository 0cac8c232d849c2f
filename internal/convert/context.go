package convert

import "mapgen/internal/analyze"

// Context is the state of one top-level mapping request. It must not be
// shared between requests.
type Context struct {
	// Env is the type graph of the pass.
	Env Env
	// Current is the function being generated.
	Current analyze.FuncRef
	// Visited holds the pairs being resolved on the current path.
	Visited map[string]struct{}
	// Depth is the nesting level of derived requests.
	Depth int
}

// NewContext creates the context of a request generating current.
func NewContext(env Env, current analyze.FuncRef) *Context {
	return &Context{
		Env:     env,
		Current: current,
		Visited: make(map[string]struct{}),
	}
}

// PairKey is the identity of a (source, target) pair, nullability ignored.
func PairKey(src, dst analyze.TypeRef) string {
	return src.Core().String() + "->" + dst.Core().String()
}

// Enter marks the pair as being resolved. It returns false when the pair is
// already on the path, that is when resolving it again would loop.
func (c *Context) Enter(src, dst analyze.TypeRef) bool {
	key := PairKey(src, dst)
	if _, ok := c.Visited[key]; ok {
		return false
	}

	c.Visited[key] = struct{}{}
	c.Depth++

	return true
}

// Leave undoes Enter.
func (c *Context) Leave(src, dst analyze.TypeRef) {
	delete(c.Visited, PairKey(src, dst))
	c.Depth--
}

// Visiting reports whether the pair is on the path.
func (c *Context) Visiting(src, dst analyze.TypeRef) bool {
	_, ok := c.Visited[PairKey(src, dst)]
	return ok
}

// IsSelf reports whether calling fn from the current function is a call on
// the function itself or on its own mapper.
func (c *Context) IsSelf(fn analyze.FuncRef) bool {
	if c == nil {
		return false
	}

	return c.Current == fn || c.Current.SameOwner(fn)
}

// Child returns a context for generating fn on behalf of c. The path and
// depth are shared so cycles spanning several functions are detected.
func (c *Context) Child(fn analyze.FuncRef) *Context {
	return &Context{Env: c.Env, Current: fn, Visited: c.Visited, Depth: c.Depth}
}
