// Package loader turns a file path into a dataset.Table: it validates the
// path, infers the file's format, and dispatches to the matching parser.
package loader

import (
	"errors"
	"fmt"

	"github.com/quarrylabs/datascout/internal/dataset"
)

// Sentinel errors surfaced by this package. Returned errors wrap one of
// these plus context; match with errors.Is.
var (
	ErrInvalidPath       = errors.New("invalid path")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyFile         = errors.New("empty file")
	ErrParse             = errors.New("parse error")
)

// Load parses the file at path into a Table, inferring the format first.
func Load(path string) (*dataset.Table, error) {
	return LoadDelimited(path, ',')
}

// LoadDelimited is Load with an explicit CSV field delimiter. The delimiter
// only matters when the file is inferred as CSV.
func LoadDelimited(path string, delim rune) (*dataset.Table, error) {
	switch tag := InferFormat(path); tag {
	case "csv":
		return loadCSV(path, delim)
	case "xlsx":
		return loadXLSX(path)
	case "json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("%w: %q (supported: csv, xlsx, json)", ErrUnsupportedFormat, tag)
	}
}

// Supported reports whether tag names a loadable format.
func Supported(tag string) bool {
	switch tag {
	case "csv", "xlsx", "json":
		return true
	}
	return false
}

// SupportedFormats lists the loadable format tags.
func SupportedFormats() []string {
	return []string{"csv", "xlsx", "json"}
}
