package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/arthur-debert/devstrap/pkg/config"
	"github.com/arthur-debert/devstrap/pkg/errors"
	"github.com/arthur-debert/devstrap/pkg/filesync"
	"github.com/arthur-debert/devstrap/pkg/logging"
	"github.com/arthur-debert/devstrap/pkg/paths"
	"github.com/arthur-debert/devstrap/pkg/platform"
)

// EmbeddedPrefix marks a built-in template source
const EmbeddedPrefix = "embedded:"

//go:embed embedded/*.tmpl
var builtins embed.FS

// Data is what a template sees
type Data struct {
	Vars     map[string]string
	Platform platform.Info
	Home     string
}

// Builtins lists the names usable as embedded:<name>
func Builtins() []string {
	entries, _ := fs.ReadDir(builtins, "embedded")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

var funcs = template.FuncMap{
	"default": func(def string, value interface{}) string {
		if s, ok := value.(string); ok && s != "" {
			return s
		}
		return def
	},
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"join":  strings.Join,
}

// Renderer materializes templates through the idempotent writer
type Renderer struct {
	writer *filesync.Writer
	source string
	home   string
}

// New creates a Renderer; source is the dotfiles directory relative sources
// are read from
func New(w *filesync.Writer, source, home string) *Renderer {
	return &Renderer{writer: w, source: source, home: home}
}

// Render executes spec's template with data
func (r *Renderer) Render(spec config.TemplateSpec, data Data) ([]byte, error) {
	text, err := r.load(spec.Source)
	if err != nil {
		return nil, err
	}

	name := spec.Name
	if name == "" {
		name = spec.Source
	}
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateParse, "cannot parse template %s", name)
	}

	if data.Vars == nil {
		data.Vars = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template %s", name)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) load(source string) (string, error) {
	if name, ok := strings.CutPrefix(source, EmbeddedPrefix); ok {
		content, err := builtins.ReadFile("embedded/" + name + ".tmpl")
		if err != nil {
			return "", errors.Newf(errors.ErrNotFound, "unknown built-in template %q (available: %s)",
				name, strings.Join(Builtins(), ", "))
		}
		return string(content), nil
	}

	path := paths.ExpandHomeIn(r.home, source)
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.source, filepath.FromSlash(path))
	}
	content, err := r.writer.FS().ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "cannot read template %s", path)
	}
	return string(content), nil
}

// Apply renders and writes every spec. Failures are reported per template.
func (r *Renderer) Apply(specs []config.TemplateSpec, data Data) []filesync.Result {
	logger := logging.GetLogger("templates")
	results := make([]filesync.Result, 0, len(specs))

	for _, spec := range specs {
		dest := paths.ExpandHomeIn(r.home, spec.Dest)
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(r.home, dest)
		}

		mode, err := parseMode(spec.Mode)
		if err != nil {
			results = append(results, failedResult(dest, err))
			continue
		}

		content, err := r.Render(spec, data)
		if err != nil {
			logger.Error().Err(err).Str("template", spec.Name).Msg("Template failed")
			results = append(results, failedResult(dest, err))
			continue
		}
		results = append(results, r.writer.WriteFile(dest, content, mode))
	}
	return results
}

func parseMode(mode string) (fs.FileMode, error) {
	if mode == "" {
		return 0, nil
	}
	perm, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, errors.Newf(errors.ErrInvalidInput, "invalid file mode %q", mode)
	}
	return fs.FileMode(perm).Perm(), nil
}

func failedResult(path string, err error) filesync.Result {
	return filesync.Result{Path: path, Outcome: filesync.OutcomeFailed, Err: err, Error: fmt.Sprint(err)}
}
