package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml
var tuningFS embed.FS

//go:embed scripts/*.tengo
var scriptsFS embed.FS

const scriptExt = ".tengo"

// Load reads a tuning file, preferring prefabs/<name> on disk so edits are
// picked up without rebuilding.
func Load(name string) ([]byte, error) {
	return readPrefab(tuningFS, cleanPrefabPath(name))
}

// LoadScript reads an input script by name ("circle", "circle.tengo" and
// "prefabs/scripts/circle.tengo" all resolve the same file).
func LoadScript(name string) ([]byte, error) {
	data, err := readPrefab(scriptsFS, cleanScriptPath(name))
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return data, nil
}

// Scripts lists the embedded input scripts without their extension.
func Scripts() []string {
	entries, err := fs.ReadDir(scriptsFS, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != scriptExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), scriptExt))
	}
	sort.Strings(names)
	return names
}

func readPrefab(embedded embed.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return embedded.ReadFile(clean)
}

func cleanPrefabPath(p string) string {
	s := filepath.ToSlash(p)
	s = strings.TrimPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(cleanPrefabPath(p), "scripts/")
	if path.Ext(s) != scriptExt {
		s += scriptExt
	}
	return "scripts/" + s
}
