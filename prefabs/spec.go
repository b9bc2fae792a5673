package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartcam/obj"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RigSpec is one offset family of the chase rig. Back is negative behind
// the kart; Tilt is negative for pitching down.
type RigSpec struct {
	Back   float64 `yaml:"back"`
	Height float64 `yaml:"height"`
	Tilt   float64 `yaml:"tilt"`
}

type CameraSpec struct {
	Name           string  `yaml:"name"`
	Mode           string  `yaml:"mode"`
	Chase          RigSpec `yaml:"chase"`
	Closeup        RigSpec `yaml:"closeup"`
	SteerGain      float64 `yaml:"steer_gain"`
	SteerSmoothing float64 `yaml:"steer_smoothing"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Tuning converts the spec to rig tuning, keeping the shipped value for any
// field left at zero.
func (s *CameraSpec) Tuning() (obj.Tuning, error) {
	t := obj.DefaultTuning()
	if s == nil {
		return t, nil
	}
	t.Chase = s.Chase.apply(t.Chase)
	t.Closeup = s.Closeup.apply(t.Closeup)
	if s.SteerGain != 0 {
		t.SteerGain = s.SteerGain
	}
	if s.SteerSmoothing != 0 {
		if s.SteerSmoothing < 0 || s.SteerSmoothing > 1 {
			return t, fmt.Errorf("prefabs: camera %q: steer_smoothing must be in (0, 1], got %v", s.Name, s.SteerSmoothing)
		}
		t.SteerSmoothing = s.SteerSmoothing
	}
	return t, nil
}

// InitialMode parses the configured start mode; empty means normal.
func (s *CameraSpec) InitialMode() (obj.CameraMode, error) {
	if s == nil || strings.TrimSpace(s.Mode) == "" {
		return obj.ModeNormal, nil
	}
	return obj.ParseMode(s.Mode)
}

func (r RigSpec) apply(base obj.RigOffset) obj.RigOffset {
	out := base
	if r.Back != 0 {
		out.Offset = mgl64.Vec3{out.Offset[0], r.Back, out.Offset[2]}
	}
	if r.Height != 0 {
		out.Offset = mgl64.Vec3{out.Offset[0], out.Offset[1], r.Height}
	}
	if r.Tilt != 0 {
		out.Tilt = r.Tilt
	}
	return out
}

// KartSpec tunes the demo karts.
type KartSpec struct {
	Name         string      `yaml:"name"`
	Length       float64     `yaml:"length"`
	Width        float64     `yaml:"width"`
	Mass         float64     `yaml:"mass"`
	EngineForce  float64     `yaml:"engine_force"`
	TopSpeed     float64     `yaml:"top_speed"`
	TurnRate     float64     `yaml:"turn_rate"`
	Grip         float64     `yaml:"grip"`
	Script       string      `yaml:"script"`
	Colors       []YAMLColor `yaml:"colors"`
}

func LoadKartSpec() (*KartSpec, error) {
	spec, err := LoadSpec[KartSpec]("kart.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
