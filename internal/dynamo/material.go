package dynamo

import (
	"fmt"
	"strings"
)

type Material uint8

const (
	Water Material = iota
	Sand
	Stone
	Fire
	Smoke
	Steam
	numMaterials
)

// RGB is a display colour. The engine only mutates it for burning sand.
type RGB struct {
	R, G, B uint8
}

// Properties are the constants a material fixes on a particle at creation
// or transformation time.
type Properties struct {
	Radius   float64
	Mass     float64
	Friction float64
	Decay    float64
	Color    RGB
}

// Gas-phase materials carry negative mass so that gravity lifts them.
var materialTable = [numMaterials]Properties{
	Water: {Radius: 3.0, Mass: 1.0, Friction: 0.0, Color: RGB{30, 100, 250}},
	Sand:  {Radius: 4.0, Mass: 2.0, Friction: 1.0, Color: RGB{230, 190, 60}},
	Stone: {Radius: 6.0, Mass: 8.0, Friction: 0.9, Color: RGB{100, 100, 100}},
	Fire:  {Radius: 4.0, Mass: -0.8, Friction: 0.1, Decay: 0.015, Color: RGB{255, 80, 10}},
	Smoke: {Radius: 5.5, Mass: -0.05, Friction: 0.1, Decay: 0.01, Color: RGB{150, 150, 150}},
	Steam: {Radius: 5.0, Mass: -0.8, Friction: 0.1, Decay: 0.005, Color: RGB{200, 240, 255}},
}

var materialNames = [numMaterials]string{"water", "sand", "stone", "fire", "smoke", "steam"}

// MaxRadius is the largest radius of any material. Grid cells must be at
// least twice this so every colliding pair shares or neighbours a cell.
const MaxRadius = 6.0

// Materials lists every kind in declaration order.
func Materials() []Material {
	out := make([]Material, 0, numMaterials)
	for m := Material(0); m < numMaterials; m++ {
		out = append(out, m)
	}
	return out
}

func ParseMaterial(s string) (Material, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range materialNames {
		if n == name {
			return Material(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, s)
}

func (m Material) String() string {
	if m < numMaterials {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", uint8(m))
}

func (m Material) Valid() bool { return m < numMaterials }

func (m Material) Props() Properties { return materialTable[m] }

// IsGas reports fire, smoke and steam.
func (m Material) IsGas() bool { return m == Fire || m == Smoke || m == Steam }

// IsGranular reports the solids that may fall asleep and that get strong
// floor friction.
func (m Material) IsGranular() bool { return m == Sand || m == Stone }

// Damping is the per-step velocity retention used by the integrator.
// Gases lose 2% per step to air resistance.
func (m Material) Damping() float64 {
	if m.IsGas() {
		return 0.98
	}
	return 1.0
}

// MarshalText lets materials appear by name in YAML and JSON.
func (m Material) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMaterial, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Material) UnmarshalText(b []byte) error {
	v, err := ParseMaterial(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
