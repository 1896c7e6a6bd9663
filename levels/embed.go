package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is a top-down arena in world units with the origin at the
// bottom-left corner.
type Level struct {
	Name       string      `json:"name"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Obstacles  []Obstacle  `json:"obstacles,omitempty"`
	Agents     []Spawn     `json:"agents,omitempty"`
	Characters []Character `json:"characters,omitempty"`
}

// Obstacle is an axis-aligned box given by its lower-left corner and size.
type Obstacle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	SightOnly bool    `json:"sight_only,omitempty"`
}

// Spawn places an agent. Facing is the initial sight direction.
type Spawn struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	FacingX float64 `json:"facing_x,omitempty"`
	FacingY float64 `json:"facing_y,omitempty"`
}

// Character places a controllable character. The first entry is the main
// character.
type Character struct {
	Name string  `json:"name,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Load reads levels/<name>.json from disk if present, otherwise from the
// embedded set.
func Load(name string) (*Level, error) {
	file := fileName(name)
	data, err := os.ReadFile(filepath.Join("levels", file))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, file)
		if err != nil {
			return nil, fmt.Errorf("levels: load %s: %w", name, err)
		}
	}
	return Parse(name, data)
}

// Parse decodes and validates level JSON.
func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("levels: %s: invalid size %gx%g", name, lvl.Width, lvl.Height)
	}
	for i, o := range lvl.Obstacles {
		if o.W <= 0 || o.H <= 0 {
			return nil, fmt.Errorf("levels: %s: obstacle %d has empty size", name, i)
		}
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(fileName(name), ".json")
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

func fileName(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	if !strings.HasSuffix(base, ".json") {
		base += ".json"
	}
	return base
}
