package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/constable/internal/codec"
	"github.com/roach88/constable/internal/cval"
	"github.com/roach88/constable/internal/script"
	"github.com/roach88/constable/internal/update"
)

// LoadDocument reads a JSON or YAML document and builds it as a canonical
// value in the realm. The decoder is chosen by file extension.
func LoadDocument(r *cval.Realm, path string) (cval.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	switch filepath.Ext(path) {
	case ".json":
		return codec.DecodeJSON(r, data)
	case ".yaml", ".yml":
		return codec.DecodeYAML(r, data)
	default:
		return nil, fmt.Errorf("unsupported document extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}
}

// LoadScript reads and validates a YAML update script and compiles its parts
// into the realm.
func LoadScript(r *cval.Realm, path string) ([]update.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	sc, err := script.Parse(path, data)
	if err != nil {
		return nil, err
	}
	return sc.Compile(r)
}
