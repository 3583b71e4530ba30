package loader

import (
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// sniffLen bounds how much of a file the content tier reads. Zip-based
// office formats need more than the usual magic-number window.
const sniffLen = 8192

// extMIMEs is registered with the mime package up front so extension
// lookup does not depend on the host's mime tables.
var extMIMEs = map[string]string{
	".csv":  "text/csv",
	".tsv":  "text/tab-separated-values",
	".json": "application/json",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
}

// mimeTags normalizes known MIME types to short format tags. Anything not
// listed falls back to the subtype after the slash.
var mimeTags = map[string]string{
	"text/csv":                  "csv",
	"text/tab-separated-values": "tsv",
	"application/json":          "json",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
	"application/vnd.ms-excel":                                         "xls",
}

func init() {
	for ext, typ := range extMIMEs {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// strategy is one format-inference tier: a name for reporting plus a pure
// lookup that returns "" when it has no answer.
type strategy struct {
	name  string
	infer func(path string) string
}

// strategies are tried in order, cheapest first: extension-based MIME
// lookup, then content sniffing, then the raw extension. A mislabeled
// extension therefore wins over the file's actual bytes.
var strategies = []strategy{
	{"mime", inferByMIME},
	{"content", inferByContent},
	{"extension", inferByExtension},
}

// InferFormat returns the format tag for path, or "" when every tier
// comes up empty.
func InferFormat(path string) string {
	tag, _ := InferFormatTier(path)
	return tag
}

// InferFormatTier returns the format tag together with the name of the
// tier that produced it: "mime", "content", or "extension".
func InferFormatTier(path string) (tag, tier string) {
	for _, s := range strategies {
		if tag := s.infer(path); tag != "" {
			return tag, s.name
		}
	}
	return "", ""
}

func inferByMIME(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	if media, _, err := mime.ParseMediaType(mt); err == nil {
		mt = media
	}
	if tag, ok := mimeTags[mt]; ok {
		return tag
	}
	if i := strings.LastIndex(mt, "/"); i >= 0 && i+1 < len(mt) {
		return mt[i+1:]
	}
	return ""
}

// inferByContent matches the leading bytes against known binary
// signatures. Plain-text formats have none, so csv/json never match here.
func inferByContent(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return ""
	}
	kind, err := filetype.Match(buf[:n])
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.Extension
}

func inferByExtension(path string) string {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i < 0 || i+1 >= len(base) {
		return ""
	}
	return strings.ToLower(base[i+1:])
}
