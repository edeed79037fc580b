package mcp

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/tidwall/jsonc"
)

// PackageFile is the name of the scaffolded manifest
const PackageFile = "package.json"

// Path returns the package.json location for cfg
func Path(cfg config.MCPConfig) string {
	return filepath.Join(cfg.Dir, PackageFile)
}

// Parse reads a package.json, tolerating comments and trailing commas. Numbers
// are kept as json.Number so re-encoding does not change them.
func Parse(data []byte) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", PackageFile, err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}

// Merge applies cfg to doc: name, private and the server dependencies
func Merge(doc map[string]interface{}, cfg config.MCPConfig) (map[string]interface{}, error) {
	doc["name"] = cfg.Name
	doc["private"] = true

	deps := map[string]interface{}{}
	if existing, ok := doc["dependencies"]; ok && existing != nil {
		m, ok := existing.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: dependencies must be an object, got %T", PackageFile, existing)
		}
		deps = m
	}
	for _, server := range cfg.Servers {
		version := server.Version
		if version == "" {
			version = "latest"
		}
		deps[server.Package] = version
	}
	doc["dependencies"] = deps
	return doc, nil
}

// Encode renders doc with sorted keys, two-space indentation and a trailing
// newline
func Encode(doc map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scaffold writes the merged package.json for cfg
func Scaffold(w *filesync.Writer, cfg config.MCPConfig) filesync.Result {
	logger := logging.GetLogger("mcp")
	path := Path(cfg)

	current, err := w.FS().ReadFile(path)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return failed(path, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path))
	}

	doc, err := Parse(current)
	if err != nil {
		return failed(path, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path))
	}
	if doc, err = Merge(doc, cfg); err != nil {
		return failed(path, errors.Wrap(err, errors.ErrInvalidInput, "cannot merge dependencies"))
	}
	content, err := Encode(doc)
	if err != nil {
		return failed(path, errors.Wrap(err, errors.ErrInternal, "cannot encode package.json"))
	}

	logger.Debug().Str("path", path).Int("servers", len(cfg.Servers)).Msg("Scaffolding MCP package")
	return w.WriteFile(path, content, 0)
}

func failed(path string, err error) filesync.Result {
	logger := logging.GetLogger("mcp")
	logger.Error().Err(err).Str("path", path).Msg("MCP scaffold failed")
	return filesync.Result{Path: path, Outcome: filesync.OutcomeFailed, Err: err, Error: err.Error()}
}
