package convert

import (
	"cmp"
	"log/slog"
	"slices"

	"mapgen/internal/analyze"
)

// Registry holds the strategies of one pass.
type Registry struct {
	strategies []Strategy
	ids        map[string]struct{}
	// sorted is the priority ordered view, rebuilt lazily after changes.
	sorted []Strategy
	logger *slog.Logger
}

// NewRegistry creates a registry holding strategies. A nil logger logs to
// slog.Default().
func NewRegistry(logger *slog.Logger, strategies ...Strategy) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{logger: logger}
	r.Reset(strategies...)

	return r
}

// Register adds strategies. A strategy whose ID is already registered is
// skipped, so registering the same set twice changes nothing.
func (r *Registry) Register(strategies ...Strategy) {
	for _, s := range strategies {
		if _, dup := r.ids[s.ID()]; dup {
			r.logger.Debug("strategy already registered", "id", s.ID())
			continue
		}

		r.ids[s.ID()] = struct{}{}
		r.strategies = append(r.strategies, s)
		r.sorted = nil
	}
}

// Reset replaces every registered strategy.
func (r *Registry) Reset(strategies ...Strategy) {
	r.strategies = nil
	r.ids = make(map[string]struct{})
	r.sorted = nil

	r.Register(strategies...)
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	return len(r.strategies)
}

// Get returns the strategy with the given ID.
func (r *Registry) Get(id string) (Strategy, bool) {
	for _, s := range r.strategies {
		if s.ID() == id {
			return s, true
		}
	}

	return nil, false
}

// Strategies returns the strategies in lookup order: priority descending,
// then ID, then registration order.
func (r *Registry) Strategies() []Strategy {
	return slices.Clone(r.view())
}

func (r *Registry) view() []Strategy {
	if r.sorted == nil {
		r.sorted = slices.Clone(r.strategies)
		slices.SortStableFunc(r.sorted, func(a, b Strategy) int {
			return cmp.Or(cmp.Compare(b.Priority(), a.Priority()), cmp.Compare(a.ID(), b.ID()))
		})
	}

	return r.sorted
}

// FindBest returns the first strategy in lookup order that is enabled by
// default or force-enabled and matches the pair.
func (r *Registry) FindBest(env Env, src, dst analyze.TypeRef, forceEnabled []string) (Strategy, bool) {
	for _, s := range r.view() {
		if !s.EnabledByDefault() && !slices.Contains(forceEnabled, s.ID()) {
			continue
		}

		if s.Matches(env, src, dst) {
			r.logger.Debug("strategy selected", "source", src.String(), "target", dst.String(), "id", s.ID())
			return s, true
		}
	}

	return nil, false
}
