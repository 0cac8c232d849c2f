package mapping

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultVersion is assumed when a file declares none.
const DefaultVersion = "1"

// supportedVersions is the schema range this package understands.
var supportedVersions = version.MustConstraints(version.NewConstraint(">= 1, < 2"))

// LoadFile loads and parses a mapping file, YAML or HCL by extension.
func LoadFile(fs afero.Fs, path string) (*MappingFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(path, data)
	default:
		return Parse(data)
	}
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if err := applyDefaults(&mf); err != nil {
		return nil, err
	}

	return &mf, nil
}

// applyDefaults fills in default values for optional fields and checks the
// schema version.
func applyDefaults(mf *MappingFile) error {
	if mf.Version == "" {
		mf.Version = DefaultVersion
	}

	v, err := version.NewVersion(mf.Version)
	if err != nil {
		return fmt.Errorf("invalid mapping schema version %q: %w", mf.Version, err)
	}

	if !supportedVersions.Check(v) {
		return fmt.Errorf("unsupported mapping schema version %s (supported: %s)", v, supportedVersions)
	}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		if tm.Kind == "" {
			tm.Kind = KindMapper
		}

		if tm.Param == "" {
			tm.Param = "src"
		}
	}

	return nil
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile as YAML.
func WriteFile(fs afero.Fs, mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
