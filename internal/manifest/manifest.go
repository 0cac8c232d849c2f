// Package manifest records the mapping functions generated by a pass, one
// file per kind with one fully qualified entry point per line. Later passes
// load the entries as records and delegate to the recorded functions instead
// of generating them again.
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
	"mapgen/internal/diagnostic"
	"mapgen/internal/mapping"
	"mapgen/internal/plan"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Entry is one recorded mapping function.
type Entry struct {
	Kind mapping.Kind
	Func analyze.FuncRef
}

// FileName returns the manifest file of kind.
func FileName(kind mapping.Kind) string {
	return string(kind)
}

// Parse reads one manifest file. Blank lines and lines starting with "#" are
// skipped. name is used in error messages.
func Parse(kind mapping.Kind, r io.Reader, name string) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fn, err := analyze.ParseFuncRef(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}

		entries = append(entries, Entry{Kind: kind, Func: fn})
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return entries, nil
}

// Read returns the entries of every kind found in dir. Missing files and a
// missing directory yield no entries.
func Read(fsys afero.Fs, dir string) ([]Entry, error) {
	var entries []Entry

	for _, kind := range mapping.Kinds {
		path := filepath.Join(dir, FileName(kind))

		data, err := afero.ReadFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}

		list, err := Parse(kind, bytes.NewReader(data), path)
		if err != nil {
			return nil, err
		}

		entries = append(entries, list...)
	}

	return entries, nil
}

// Write replaces the manifest in dir with entries, sorted and without
// duplicates. Files of kinds without entries are removed.
func Write(fsys afero.Fs, dir string, entries []Entry) error {
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	for _, kind := range mapping.Kinds {
		var lines []string

		for _, e := range entries {
			if e.Kind == kind {
				lines = append(lines, e.Func.String())
			}
		}

		path := filepath.Join(dir, FileName(kind))

		if len(lines) == 0 {
			if err := fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("removing %s: %w", path, err)
			}

			continue
		}

		slices.Sort(lines)
		lines = slices.Compact(lines)

		if err := afero.WriteFile(fsys, path, []byte(strings.Join(lines, "\n")+"\n"), filePerm); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}

// FromPlans returns the entries of the functions the plans generate.
func FromPlans(plans []plan.Plan) []Entry {
	entries := make([]Entry, 0, len(plans))
	for _, p := range plans {
		entries = append(entries, Entry{Kind: p.Kind, Func: p.Func})
	}

	return entries
}

// Records resolves entries through the function table of graph. Entries
// whose function is not in the graph are reported and skipped, which is the
// case when the generated code was deleted.
func Records(entries []Entry, graph *analyze.TypeGraph, diags *diagnostic.Diagnostics) []convert.Record {
	records := make([]convert.Record, 0, len(entries))

	for _, e := range entries {
		info, ok := graph.Func(e.Func)
		if !ok {
			diags.AddWarning(diagnostic.CodeManifestEntry,
				fmt.Sprintf("recorded function %s not found, it will be generated again", e.Func), "", "")

			continue
		}

		records = append(records, convert.Record{
			Kind:             e.Kind,
			Func:             e.Func,
			Param:            info.Param,
			Source:           info.Source,
			Target:           info.Result,
			Priority:         convert.PriorityRecorded,
			AlreadyGenerated: true,
		})
	}

	return records
}
