// Package suite describes the interpreter variants the harness can test and
// which test paths each of them skips.
package suite

import "strings"

// Disposition is the run/skip decision for a test path.
type Disposition string

const (
	Run  Disposition = "run"
	Skip Disposition = "skip"
)

// Suite is a named interpreter variant. It is built once at startup and
// only read afterwards.
type Suite struct {
	// Tests maps a test path or directory prefix to its disposition.
	Tests      map[string]Disposition `toml:"tests" validate:"dive,keys,required,endkeys,oneof=run skip"`
	Name       string                 `toml:"name" validate:"required"`
	Language   string                 `toml:"language" validate:"required"`
	Executable string                 `toml:"executable" validate:"required"`
	Args       []string               `toml:"args"`
}

// Disposition resolves the most specific entry for path by checking each
// of its component prefixes ("test", "test/foo", "test/foo/bar.lox").
// Paths without an entry run.
func (s *Suite) Disposition(path string) Disposition {
	path = strings.ReplaceAll(path, "\\", "/")

	disposition := Run
	var subpath strings.Builder
	for i, part := range strings.Split(path, "/") {
		if i > 0 {
			subpath.WriteByte('/')
		}
		subpath.WriteString(part)

		if d, ok := s.Tests[subpath.String()]; ok {
			disposition = d
		}
	}
	return disposition
}
