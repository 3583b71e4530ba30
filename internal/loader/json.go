package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quarrylabs/datascout/internal/dataset"
)

// loadJSON reads either a records file (top-level array of flat objects)
// or a columnar file (top-level object of equal-length scalar arrays).
// Column order follows first appearance in the document, which Go maps
// would not preserve, so both shapes are walked token by token.
func loadJSON(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("%w: top-level JSON value must be an array or object", ErrParse)
	}
	var t *dataset.Table
	switch delim {
	case '[':
		t, err = jsonRecords(dec, path)
	case '{':
		t, err = jsonColumnar(dec, path)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at top level", ErrParse, delim.String())
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrParse)
	}
	return t, nil
}

// jsonRecords consumes an array of flat objects. The header is the union
// of keys in first-appearance order; absent keys read as missing.
func jsonRecords(dec *json.Decoder, path string) (*dataset.Table, error) {
	var header []string
	seen := map[string]bool{}
	var rows []map[string]string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("%w: array element %d is not an object", ErrParse, len(rows))
		}
		row := map[string]string{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParse, err)
			}
			key := keyTok.(string)
			valTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParse, err)
			}
			val, err := scalarString(valTok)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %w", ErrParse, key, err)
			}
			row[key] = val
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no records in %s", ErrEmptyFile, filepath.Base(path))
	}

	recs := make([][]string, 0, len(rows)+1)
	recs = append(recs, header)
	for _, row := range rows {
		rec := make([]string, len(header))
		for j, name := range header {
			rec[j] = row[name] // absent keys stay "", the missing token
		}
		recs = append(recs, rec)
	}
	t, err := dataset.FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return t, nil
}

// jsonColumnar consumes an object mapping column names to scalar arrays.
func jsonColumnar(dec *json.Decoder, path string) (*dataset.Table, error) {
	var header []string
	cols := map[string][]string{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		key := keyTok.(string)
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return nil, fmt.Errorf("%w: column %q is not an array", ErrParse, key)
		}
		var vals []string
		for dec.More() {
			valTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrParse, err)
			}
			val, err := scalarString(valTok)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q: %w", ErrParse, key, err)
			}
			vals = append(vals, val)
		}
		if _, err := dec.Token(); err != nil { // closing bracket
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		header = append(header, key)
		cols[key] = vals
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	n := -1
	for _, name := range header {
		if n == -1 {
			n = len(cols[name])
			continue
		}
		if len(cols[name]) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, others have %d", ErrParse, name, len(cols[name]), n)
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: no rows in %s", ErrEmptyFile, filepath.Base(path))
	}

	recs := make([][]string, 0, n+1)
	recs = append(recs, header)
	for i := 0; i < n; i++ {
		rec := make([]string, len(header))
		for j, name := range header {
			rec[j] = cols[name][i]
		}
		recs = append(recs, rec)
	}
	t, err := dataset.FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return t, nil
}

// scalarString renders a decoded JSON scalar as a cell value. Null becomes
// the empty string, which downstream normalization treats as missing.
func scalarString(tok json.Token) (string, error) {
	switch v := tok.(type) {
	case json.Delim:
		return "", fmt.Errorf("nested values are not supported")
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value %v", tok)
	}
}
