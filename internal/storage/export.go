package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/sim"
)

type ExportData struct {
	Scene     string               `json:"scene"`
	Seed      int64                `json:"seed"`
	FrameDt   float64              `json:"frame_dt"`
	Frames    int                  `json:"frames"`
	Times     []float64            `json:"times"`
	Series    map[string][]float64 `json:"series"`
	Metrics   map[string]float64   `json:"metrics"`
	Particles []ParticleRecord     `json:"particles,omitempty"`
}

// ParticleRecord is the serialised end state of one particle.
type ParticleRecord struct {
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	VX       float64         `json:"vx"`
	VY       float64         `json:"vy"`
	Material dynamo.Material `json:"material"`
	Static   bool            `json:"static,omitempty"`
	Sleeping bool            `json:"sleeping,omitempty"`
	Burning  bool            `json:"burning,omitempty"`
	Life     float64         `json:"life"`
}

func NewExportData(scene string, seed int64, frameDt float64, result *sim.Result, w dynamo.World) ExportData {
	data := ExportData{
		Scene:   scene,
		Seed:    seed,
		FrameDt: frameDt,
		Frames:  result.Frames,
		Times:   result.Times,
		Series:  result.Series,
		Metrics: result.Metrics,
	}
	if w != nil {
		ps := w.Particles()
		data.Particles = make([]ParticleRecord, len(ps))
		for i := range ps {
			p := &ps[i]
			v := p.Velocity()
			data.Particles[i] = ParticleRecord{
				X: p.Pos.X, Y: p.Pos.Y, VX: v.X, VY: v.Y,
				Material: p.Material,
				Static:   p.Static,
				Sleeping: p.Sleeping,
				Burning:  p.Burning,
				Life:     p.Life,
			}
		}
	}
	return data
}

func WriteJSON(out io.Writer, data ExportData) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
