package cli

import (
	"fmt"
	"path/filepath"

	"mapgen/internal/analyze"
	"mapgen/internal/cache"
	"mapgen/internal/config"
	"mapgen/internal/convert"
	"mapgen/internal/diagnostic"
	"mapgen/internal/manifest"
	"mapgen/internal/mapping"
	"mapgen/internal/plan"
)

// pass is the outcome of one planning run.
type pass struct {
	graph    *analyze.TypeGraph
	requests []plan.Request
	records  []convert.Record
	result   *plan.Result
	cached   bool
}

// runOptions tune a run.
type runOptions struct {
	useCache bool
}

// run loads packages and the mapping file, then plans every request.
func (a *app) run(opts runOptions) (*pass, error) {
	fsys := config.AppFs
	cfg := a.cfg

	graph, err := analyze.NewAnalyzer(a.logger).LoadPackages(cfg.Dir, cfg.Packages...)
	if err != nil {
		return nil, err
	}

	mappingPath := a.path(cfg.MappingFile)

	mf, err := mapping.LoadFile(fsys, mappingPath)
	if err != nil {
		return nil, err
	}

	p := &pass{graph: graph, result: &plan.Result{}}

	validation := mapping.Validate(mf, graph)
	if !validation.IsValid() {
		p.result.Diagnostics.Merge(*validation)
		return p, fmt.Errorf("invalid mapping file %s", mappingPath)
	}

	p.requests, p.records, err = plan.FromMappingFile(mf, graph)
	if err != nil {
		return nil, err
	}

	var diags diagnostic.Diagnostics

	entries, err := manifest.Read(fsys, a.path(cfg.ManifestDir))
	if err != nil {
		return nil, err
	}

	p.records = append(p.records, manifest.Records(entries, graph, &diags)...)

	store := cache.New(fsys, a.path(cfg.CacheDir), a.logger)

	key, err := cache.Fingerprint(cache.Inputs{
		Graph:    graph,
		Requests: p.requests,
		Records:  p.records,
		Config:   cfg.Plan(),
	})
	if err != nil {
		return nil, err
	}

	if cached, ok := a.cached(store, key, opts); ok {
		p.result, p.cached = cached, true
	} else {
		p.result = plan.NewBuilder(graph, cfg.Plan(), a.logger).Run(p.requests, p.records)

		a.logger.Info("pass complete",
			"requests", len(p.requests),
			"plans", len(p.result.Plans),
			"failures", len(p.result.Failures))

		if opts.useCache && len(p.result.Failures) == 0 {
			if err := store.Save(key, p.result); err != nil {
				a.logger.Warn("plan cache not saved", "error", err)
			}
		}
	}

	p.result.Diagnostics.Merge(*validation)
	p.result.Diagnostics.Merge(diags)

	return p, nil
}

func (a *app) cached(store *cache.Store, key string, opts runOptions) (*plan.Result, bool) {
	if !opts.useCache {
		return nil, false
	}

	return store.Load(key)
}

// path resolves p against the configured directory.
func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(a.cfg.Dir, p)
}

// writeManifest records the functions planned by p next to those recorded
// before and still present.
func (a *app) writeManifest(p *pass) (int, error) {
	var entries []manifest.Entry

	for _, rec := range p.records {
		if rec.AlreadyGenerated {
			entries = append(entries, manifest.Entry{Kind: rec.Kind, Func: rec.Func})
		}
	}

	entries = append(entries, manifest.FromPlans(p.result.Plans)...)

	if err := manifest.Write(config.AppFs, a.path(a.cfg.ManifestDir), entries); err != nil {
		return 0, err
	}

	return len(entries), nil
}
