package config

import (
	"sort"

	"github.com/san-kum/sandsim/internal/dynamo"
)

// Presets build fresh scenes so callers may mutate what they get back.
var Presets = map[string]func() *Config{
	"default": func() *Config {
		cfg := DefaultConfig()
		cfg.Spawns = []SpawnConfig{
			{Material: dynamo.Sand, X: 450, Y: 300, Cols: 15, Rows: 10},
			{Material: dynamo.Water, X: 250, Y: 150, Cols: 20, Rows: 10},
		}
		return cfg
	},
	"hourglass": func() *Config {
		cfg := DefaultConfig()
		cfg.Duration = 20
		cfg.Obstacles = append(cfg.Obstacles,
			ObstacleConfig{Shape: "rect", X: 295, Y: 450, W: 290, H: 20},
			ObstacleConfig{Shape: "rect", X: 605, Y: 450, W: 290, H: 20},
		)
		cfg.Spawns = []SpawnConfig{
			{Material: dynamo.Sand, X: 450, Y: 250, Cols: 25, Rows: 15},
		}
		return cfg
	},
	"campfire": func() *Config {
		cfg := DefaultConfig()
		cfg.Spawns = []SpawnConfig{
			{Material: dynamo.Stone, X: 450, Y: 848, Cols: 12, Rows: 1, Static: true},
			{Material: dynamo.Sand, X: 450, Y: 800, Cols: 12, Rows: 6},
			{Material: dynamo.Fire, X: 450, Y: 740, Cols: 6, Rows: 3},
		}
		return cfg
	},
	"rain": func() *Config {
		cfg := DefaultConfig()
		cfg.Obstacles = append(cfg.Obstacles,
			ObstacleConfig{Shape: "circle", X: 250, Y: 500, Radius: 60},
			ObstacleConfig{Shape: "circle", X: 650, Y: 600, Radius: 80},
		)
		for x := 150.0; x < 900; x += 200 {
			cfg.Spawns = append(cfg.Spawns, SpawnConfig{Material: dynamo.Water, X: x, Y: 80, Cols: 10, Rows: 6})
		}
		cfg.Spawns = append(cfg.Spawns, SpawnConfig{Material: dynamo.Fire, X: 650, Y: 480, Cols: 4, Rows: 2})
		return cfg
	},
	"terrain": func() *Config {
		cfg := DefaultConfig()
		cfg.Terrain = DefaultTerrain()
		cfg.Spawns = []SpawnConfig{
			{Material: dynamo.Water, X: 450, Y: 150, Cols: 25, Rows: 8},
			{Material: dynamo.Sand, X: 200, Y: 250, Cols: 10, Rows: 6},
		}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
