package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 900 || cfg.Height != 900 {
		t.Errorf("expected 900x900 world, got %.0fx%.0f", cfg.Width, cfg.Height)
	}
	if cfg.SubSteps != 8 {
		t.Errorf("expected 8 sub-steps, got %d", cfg.SubSteps)
	}
	if cfg.FrameDt <= 0 {
		t.Error("frame_dt should be positive")
	}
	if len(cfg.Obstacles) != 1 || cfg.Obstacles[0].Shape != "rect" {
		t.Fatalf("expected a single floor rect, got %+v", cfg.Obstacles)
	}
	floor := cfg.Obstacles[0]
	if floor.X != 450 || floor.Y != 880 || floor.W != 900 || floor.H != 40 {
		t.Errorf("unexpected floor %+v", floor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, dynamo.ErrParameterBounds},
		{"no sub-steps", func(c *Config) { c.SubSteps = 0 }, dynamo.ErrParameterBounds},
		{"small cells", func(c *Config) { c.CellSize = 5 }, dynamo.ErrParameterBounds},
		{"zero frame", func(c *Config) { c.FrameDt = 0 }, dynamo.ErrParameterBounds},
		{"nan frame", func(c *Config) { c.FrameDt = math.NaN() }, dynamo.ErrParameterBounds},
		{"clamp below frame", func(c *Config) { c.MaxFrameDt = c.FrameDt / 2 }, dynamo.ErrParameterBounds},
		{"negative duration", func(c *Config) { c.Duration = -1 }, dynamo.ErrParameterBounds},
		{"bad shape", func(c *Config) {
			c.Obstacles = append(c.Obstacles, ObstacleConfig{Shape: "hexagon", Radius: 3})
		}, dynamo.ErrUnknownShape},
		{"flat rect", func(c *Config) {
			c.Obstacles = append(c.Obstacles, ObstacleConfig{Shape: "rect", W: 10})
		}, dynamo.ErrParameterBounds},
		{"empty spawn", func(c *Config) {
			c.Spawns = []SpawnConfig{{Material: dynamo.Sand, Cols: 0, Rows: 2}}
		}, dynamo.ErrParameterBounds},
		{"bad material", func(c *Config) {
			c.Spawns = []SpawnConfig{{Material: dynamo.Material(99), Cols: 1, Rows: 1}}
		}, dynamo.ErrUnknownMaterial},
		{"flat terrain scale", func(c *Config) {
			c.Terrain = DefaultTerrain()
			c.Terrain.Scale = 0
		}, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")

	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Spawns = []SpawnConfig{{Material: dynamo.Steam, X: 100, Y: 100, Cols: 2, Rows: 3}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if len(loaded.Spawns) != 1 || loaded.Spawns[0].Material != dynamo.Steam {
		t.Errorf("spawns did not survive the round trip: %+v", loaded.Spawns)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "gravity: 500\nspawns:\n  - material: water\n    x: 100\n    y: 100\n    cols: 2\n    rows: 2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gravity != 500 {
		t.Errorf("expected gravity 500, got %f", cfg.Gravity)
	}
	if cfg.SubSteps != 8 || cfg.Width != 900 {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.Spawns[0].Material != dynamo.Water {
		t.Errorf("expected water spawn, got %v", cfg.Spawns[0].Material)
	}
}

func TestLoadRejectsUnknownMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "spawns:\n  - material: lava\n    cols: 1\n    rows: 1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, dynamo.ErrUnknownMaterial) {
		t.Errorf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Obstacles = append(cfg.Obstacles, ObstacleConfig{Shape: "circle", X: 200, Y: 200, Radius: 30})
	cfg.Spawns = []SpawnConfig{
		{Material: dynamo.Sand, X: 450, Y: 300, Cols: 3, Rows: 2},
		{Material: dynamo.Stone, X: 450, Y: 600, Cols: 4, Rows: 1, Static: true},
	}

	s, err := cfg.Build(dynamo.NewRand(1))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(s.Obstacles()) != 2 {
		t.Errorf("expected 2 obstacles, got %d", len(s.Obstacles()))
	}
	st := s.Stats()
	if st.Particles != 10 {
		t.Errorf("expected 10 particles, got %d", st.Particles)
	}
	if st.Static != 4 {
		t.Errorf("expected 4 static stones, got %d", st.Static)
	}

	// static blocks sit on an exact lattice, one diameter apart
	var xs []float64
	for _, p := range s.Particles() {
		if p.Static {
			xs = append(xs, p.Pos.X)
		}
	}
	want := []float64{432, 444, 456, 468}
	if len(xs) != len(want) {
		t.Fatalf("expected %d static xs, got %d", len(want), len(xs))
	}
	for i := range want {
		if math.Abs(xs[i]-want[i]) > 1e-9 {
			t.Errorf("static x[%d] = %f, want %f", i, xs[i], want[i])
		}
	}
}

func TestBuildInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubSteps = 0
	if _, err := cfg.Build(dynamo.NewRand(1)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestPopulateAfterReset(t *testing.T) {
	cfg := GetPreset("hourglass")
	s, err := cfg.Build(dynamo.NewRand(3))
	if err != nil {
		t.Fatal(err)
	}
	before := s.Stats().Particles
	s.Update(cfg.FrameDt)

	s.Reset()
	if err := cfg.Populate(s); err != nil {
		t.Fatal(err)
	}
	if s.Stats().Particles != before {
		t.Errorf("expected %d particles after repopulating, got %d", before, s.Stats().Particles)
	}
	if len(s.Obstacles()) != 3 {
		t.Errorf("expected floor and funnel, got %d obstacles", len(s.Obstacles()))
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("campfire")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Spawns) == 0 {
		t.Error("campfire should spawn particles")
	}

	// each call yields an independent copy
	cfg.Spawns = nil
	if len(GetPreset("campfire").Spawns) == 0 {
		t.Error("mutating a preset leaked into the registry")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Error("preset names should be sorted")
		}
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
		if _, err := cfg.Build(dynamo.NewRand(1)); err != nil {
			t.Errorf("preset %s does not build: %v", name, err)
		}
	}
}

func TestTerrain(t *testing.T) {
	tc := DefaultTerrain()
	pts := tc.Heights(900)

	step := dynamo.Stone.Props().Radius * 2
	if len(pts) != int(900/step) {
		t.Fatalf("expected %d ridge stones, got %d", int(900/step), len(pts))
	}
	for i, p := range pts {
		if math.Abs(p.Y-tc.BaseY) > tc.Amplitude*2 {
			t.Errorf("stone %d at y=%f strays too far from base %f", i, p.Y, tc.BaseY)
		}
	}

	again := DefaultTerrain().Heights(900)
	for i := range pts {
		if pts[i] != again[i] {
			t.Fatal("terrain should be deterministic for a fixed seed")
		}
	}

	s, err := physics.New(physics.DefaultConfig(900, 900), dynamo.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	n := tc.Apply(s, 900)
	if s.Stats().Static != n {
		t.Errorf("expected %d static stones, got %d", n, s.Stats().Static)
	}
}

func TestWrite(t *testing.T) {
	var buf strings.Builder
	cfg := GetPreset("terrain")
	if err := Write(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"sub_steps: 8", "material: water", "terrain:", "octaves: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml missing %q", want)
		}
	}
}
