package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// MachineNotFoundError is returned when a scenario names a machine document
// that doesn't exist.
type MachineNotFoundError struct {
	Scenario string
	Path     string
}

// Error implements the error interface.
func (e *MachineNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q references machine file %q which does not exist", e.Scenario, e.Path)
}

// Discover returns every .yaml or .yml scenario file under dir in lexical
// order. A non-empty filter is a glob matched against the file name
// without its extension.
//
// Files under a directory named "machines" or "golden" are skipped so
// machine documents can live next to their scenarios.
func Discover(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (d.Name() == "machines" || d.Name() == "golden") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<name>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}
