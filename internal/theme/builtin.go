package theme

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// FallbackID is the theme substituted for unknown theme ids.
const FallbackID = "execution-steps"

//go:embed themes/*.yaml
var builtinFS embed.FS

// Decode parses one theme declared in YAML. Unknown keys are rejected.
func Decode(name string, data []byte) (*Theme, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Theme
	if err := dec.Decode(&t); err != nil {
		return nil, carouselerrors.NewParseError(name, yamlLine(err), err)
	}
	return &t, nil
}

// LoadFS decodes every *.yaml file in dir of fsys, sorted by file name.
func LoadFS(fsys fs.FS, dir string) ([]*Theme, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read theme directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var themes []*Theme
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read theme %s: %w", name, err)
		}
		t, err := Decode(name, data)
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, nil
}

// NewRegistryFrom builds a registry whose fallback is the theme with
// fallbackID and registers the rest.
func NewRegistryFrom(themes []*Theme, fallbackID string) (*Registry, error) {
	var fallback *Theme
	for _, t := range themes {
		if t.ID == fallbackID {
			fallback = t
			break
		}
	}
	if fallback == nil {
		return nil, carouselerrors.NewThemeError(fallbackID, "fallback theme not found", nil)
	}

	reg, err := NewRegistry(fallback)
	if err != nil {
		return nil, err
	}
	for _, t := range themes {
		if t == fallback {
			continue
		}
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

var (
	builtinOnce sync.Once
	builtinList []*Theme
	builtinErr  error
)

// Builtin returns a registry holding the bundled themes. Each call returns a
// fresh registry so callers may register extra themes independently.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		builtinList, builtinErr = LoadFS(builtinFS, "themes")
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	return NewRegistryFrom(builtinList, FallbackID)
}

// MustBuiltin is Builtin for program start-up and tests.
func MustBuiltin() *Registry {
	reg, err := Builtin()
	if err != nil {
		panic(err)
	}
	return reg
}

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

func yamlLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
