// Package cache stores the plans and diagnostics of a pass keyed by a
// fingerprint of its inputs, so an unchanged pass is not planned again.
package cache

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
	"mapgen/internal/diagnostic"
	"mapgen/internal/plan"
)

// FormatVersion is bumped whenever the encoded plan layout changes.
const FormatVersion = 2

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Inputs is everything a pass depends on.
type Inputs struct {
	Graph    *analyze.TypeGraph
	Requests []plan.Request
	Records  []convert.Record
	Config   plan.Config
}

// snapshot is the deterministic, map free form of Inputs.
type snapshot struct {
	Version  int
	Types    []*analyze.TypeInfo
	Funcs    []*analyze.FuncInfo
	Requests []plan.Request
	Records  []convert.Record
	Config   plan.Config
}

// Fingerprint returns a hex digest of in. Equal inputs yield equal digests.
func Fingerprint(in Inputs) (string, error) {
	s := snapshot{
		Version:  FormatVersion,
		Requests: in.Requests,
		Records:  in.Records,
		Config:   in.Config,
	}

	if in.Graph != nil {
		for _, t := range in.Graph.Types {
			s.Types = append(s.Types, t)
		}

		for _, f := range in.Graph.Funcs {
			s.Funcs = append(s.Funcs, f)
		}
	}

	slices.SortFunc(s.Types, func(a, b *analyze.TypeInfo) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	slices.SortFunc(s.Funcs, func(a, b *analyze.FuncInfo) int {
		return cmp.Compare(a.Ref.String(), b.Ref.String())
	})

	data, err := encode(s)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// entry is the encoded cache file.
type entry struct {
	Version     int                    `msgpack:"version"`
	Key         string                 `msgpack:"key"`
	Plans       []plan.Plan            `msgpack:"plans"`
	Diagnostics diagnostic.Diagnostics `msgpack:"diagnostics"`
}

// Store keeps one file per fingerprint in a directory.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// New creates a Store in dir. A nil logger logs to slog.Default().
func New(fsys afero.Fs, dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{fs: fsys, dir: dir, logger: logger}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".msgpack")
}

// Load returns the result stored under key. A missing, stale or corrupt
// entry is a miss.
func (s *Store) Load(key string) (*plan.Result, bool) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reading plan cache", "key", key, "error", err)
		}

		return nil, false
	}

	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		s.logger.Warn("decoding plan cache", "key", key, "error", err)
		return nil, false
	}

	if e.Version != FormatVersion || e.Key != key {
		s.logger.Debug("stale plan cache", "key", key, "version", e.Version)
		return nil, false
	}

	s.logger.Debug("plan cache hit", "key", key, "plans", len(e.Plans))

	return &plan.Result{Plans: e.Plans, Diagnostics: e.Diagnostics}, true
}

// Save stores the plans and diagnostics of res under key. Failures are not
// stored; a pass with failures is planned again.
func (s *Store) Save(key string, res *plan.Result) error {
	data, err := encode(entry{Version: FormatVersion, Key: key, Plans: res.Plans, Diagnostics: res.Diagnostics})
	if err != nil {
		return fmt.Errorf("encoding plans: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path(key), data, filePerm); err != nil {
		return fmt.Errorf("writing plan cache: %w", err)
	}

	return nil
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clearing plan cache: %w", err)
	}

	return nil
}
