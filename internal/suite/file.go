package suite

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// File is the on-disk form of a suite definition file:
//
//	[[suite]]
//	name = "mylox"
//	language = "go"
//	executable = "bin/mylox"
//	args = ["run"]
//
//	[suite.tests]
//	"test/limit" = "skip"
type File struct {
	Suites []*Suite `toml:"suite" validate:"dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads and validates suite definitions from a TOML file.
func LoadFile(fsys afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suite file: %w", err)
	}

	if len(file.Suites) == 0 {
		return nil, errors.New("suite file defines no suites")
	}

	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid suite file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Suites))
	for _, s := range file.Suites {
		if s.Name == All {
			return nil, fmt.Errorf("invalid suite file %s: suite name %q is reserved", path, All)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("invalid suite file %s: duplicate suite %q", path, s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	return NewRegistry(file.Suites...), nil
}
