package automation

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandsim/internal/config"
	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/metrics"
	"github.com/san-kum/sandsim/internal/physics"
	"github.com/san-kum/sandsim/internal/sim"
)

// Obstacles placed by a script honour the same spacing as the live
// viewer's brush.
const ObstacleMinDist = 20.0

type Action string

const (
	ActionSpawn          Action = "spawn"
	ActionAttractor      Action = "attractor"
	ActionClearAttractor Action = "clear_attractor"
	ActionToggleOptimize Action = "toggle_optimize"
	ActionObstacle       Action = "obstacle"
	ActionReset          Action = "reset"
	ActionClear          Action = "clear"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Seed        int64   `yaml:"seed"`
	Duration    float64 `yaml:"duration"`
	Events      []Event `yaml:"events"`
}

// Event fires once, on the first frame whose start time reaches At.
type Event struct {
	At       float64         `yaml:"at"`
	Action   Action          `yaml:"action"`
	Material dynamo.Material `yaml:"material,omitempty"`
	X        float64         `yaml:"x,omitempty"`
	Y        float64         `yaml:"y,omitempty"`
	Cols     int             `yaml:"cols,omitempty"`
	Rows     int             `yaml:"rows,omitempty"`
	Force    float64         `yaml:"force,omitempty"`
	Shape    string          `yaml:"shape,omitempty"`
	W        float64         `yaml:"w,omitempty"`
	H        float64         `yaml:"h,omitempty"`
	Radius   float64         `yaml:"radius,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("%w: unknown preset %q", dynamo.ErrParameterBounds, s.Preset)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", dynamo.ErrParameterBounds)
	}
	for i, ev := range s.Events {
		if ev.At < 0 {
			return fmt.Errorf("event %d: %w: negative time", i+1, dynamo.ErrParameterBounds)
		}
		switch ev.Action {
		case ActionSpawn:
			if ev.Cols < 1 || ev.Rows < 1 {
				return fmt.Errorf("event %d: %w: spawn needs cols and rows", i+1, dynamo.ErrParameterBounds)
			}
		case ActionObstacle:
			if _, err := ev.obstacle().Build(); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		case ActionAttractor, ActionClearAttractor, ActionToggleOptimize, ActionReset, ActionClear:
		default:
			return fmt.Errorf("event %d: %w: unknown action %q", i+1, dynamo.ErrParameterBounds, ev.Action)
		}
	}
	return nil
}

func (ev Event) obstacle() config.ObstacleConfig {
	return config.ObstacleConfig{Shape: ev.Shape, X: ev.X, Y: ev.Y, W: ev.W, H: ev.H, Radius: ev.Radius}
}

func (ev Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%.2f %s", ev.At, ev.Action)
	switch ev.Action {
	case ActionSpawn:
		fmt.Fprintf(&b, " %s %dx%d at (%.0f, %.0f)", ev.Material, ev.Cols, ev.Rows, ev.X, ev.Y)
	case ActionAttractor:
		fmt.Fprintf(&b, " %.0f at (%.0f, %.0f)", ev.Force, ev.X, ev.Y)
	case ActionObstacle:
		fmt.Fprintf(&b, " %s at (%.0f, %.0f)", ev.Shape, ev.X, ev.Y)
	}
	return b.String()
}

// Report summarises a scenario replay.
type Report struct {
	Result  *sim.Result
	Applied []Event
	Skipped []Event
}

// Config resolves the scene the scenario starts from.
func (s *Scenario) Config(base *config.Config) *config.Config {
	cfg := base
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	return cfg
}

// RunScenario builds the scenario's scene and replays its events in time
// order while the simulator advances.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config) (*Report, error) {
	cfg := scenario.Config(base)
	solver, err := cfg.Build(dynamo.NewRand(cfg.Seed))
	if err != nil {
		return nil, err
	}

	events := make([]Event, len(scenario.Events))
	copy(events, scenario.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	s := sim.New(solver)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	report := &Report{}
	next := 0
	fire := func(solver *physics.Solver, _ int, t float64) bool {
		for next < len(events) && events[next].At <= t+1e-9 {
			ev := events[next]
			next++
			if apply(solver, cfg, ev) {
				report.Applied = append(report.Applied, ev)
			} else {
				report.Skipped = append(report.Skipped, ev)
			}
		}
		return true
	}

	report.Result, err = s.RunWithCallback(ctx, sim.Config{
		FrameDt:    cfg.FrameDt,
		MaxFrameDt: cfg.MaxFrameDt,
		Duration:   cfg.Duration,
	}, fire)
	return report, err
}

func apply(s *physics.Solver, cfg *config.Config, ev Event) bool {
	switch ev.Action {
	case ActionSpawn:
		return s.SpawnRegion(ev.X, ev.Y, ev.Material, ev.Cols, ev.Rows) > 0
	case ActionAttractor:
		s.SetAttractor(ev.X, ev.Y, ev.Force)
	case ActionClearAttractor:
		s.ClearAttractor()
	case ActionToggleOptimize:
		s.ToggleOptimization()
	case ActionObstacle:
		if !s.CanPlaceObstacle(ev.X, ev.Y, ObstacleMinDist) {
			return false
		}
		obs, err := ev.obstacle().Build()
		if err != nil {
			return false
		}
		s.AddObstacle(obs)
	case ActionClear:
		s.Reset()
	case ActionReset:
		s.Reset()
		if err := cfg.Populate(s); err != nil {
			return false
		}
	}
	return true
}
