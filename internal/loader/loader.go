package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/roach88/compstate/internal/ir"
)

// Format identifies a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf returns the format implied by a file extension.
// JSON documents are read as YAML.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unrecognized document extension: %s", path)}
	}
}

// Parse decodes a document. filename is used in CUE positions only.
func Parse(data []byte, format Format, filename string) (*Document, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML: %v", err)}
		}
	case FormatCUE:
		value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
		if err := value.Validate(cue.Concrete(true)); err != nil {
			return nil, cueError(ErrCodeBuildFailed, "building CUE value", err)
		}
		if err := value.Decode(&raw); err != nil {
			return nil, cueError(ErrCodeBuildFailed, "decoding CUE value", err)
		}
	default:
		return nil, &LoadError{Code: ErrCodeUnknownFormat, Message: fmt.Sprintf("unknown format %q", format)}
	}
	if raw == nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Message: "document is empty"}
	}
	return decodeDocument(raw)
}

// ParseFile reads and decodes the document at path. A directory is loaded
// as a single CUE package.
func ParseFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing document: %v", err)}
	}
	if info.IsDir() {
		return parseCUEDir(path)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return Parse(data, format, path)
}

// LoadFile reads the document at path and builds its configuration graph.
func LoadFile(path string, opts ...Option) (*ir.MachineConfig, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// parseCUEDir loads every .cue file in dir as one CUE instance.
func parseCUEDir(dir string) (*Document, error) {
	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, cueError(ErrCodeLoadFailed, "loading CUE files", inst.Err)
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeBuildFailed, "building CUE value", err)
	}
	var raw any
	if err := value.Decode(&raw); err != nil {
		return nil, cueError(ErrCodeBuildFailed, "decoding CUE value", err)
	}
	return decodeDocument(raw)
}

// FindCUEFiles returns the .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// cueError converts a CUE error into a LoadError carrying its position.
func cueError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	if positions := errors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
