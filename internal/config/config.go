package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/relsim/internal/gr"
)

// Solar-system units: AU, years, solar masses.
const (
	DefaultG  = 39.47841760435743 // 4*pi^2, AU^3 / (yr^2 Msun)
	DefaultC  = 63239.7263        // speed of light, AU/yr
	DefaultDt = 1e-4
)

type BodyConfig struct {
	Name string    `yaml:"name"`
	Mass float64   `yaml:"mass"`
	Pos  []float64 `yaml:"pos,flow"`
	Vel  []float64 `yaml:"vel,flow"`
}

type Config struct {
	Correction  string       `yaml:"correction"`
	G           float64      `yaml:"g"`
	C           float64      `yaml:"c"`
	Dt          float64      `yaml:"dt"`
	Duration    float64      `yaml:"duration"`
	Softening   float64      `yaml:"softening"`
	SampleEvery int          `yaml:"sample_every"`
	Bodies      []BodyConfig `yaml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		Correction:  "implicit",
		G:           DefaultG,
		C:           DefaultC,
		Dt:          DefaultDt,
		Duration:    10.0,
		SampleEvery: 20,
		Bodies:      mercuryBodies(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Bodies) == 0 {
		return nil, fmt.Errorf("config %s: no bodies defined", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetBodies converts the configured bodies into simulation particles.
// Missing position/velocity components are zero.
func (c *Config) GetBodies() []gr.Body {
	bodies := make([]gr.Body, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = gr.Body{
			Mass: b.Mass,
			Pos:  vec3(b.Pos),
			Vel:  vec3(b.Vel),
		}
	}
	return bodies
}

func vec3(v []float64) gr.Vec3 {
	var out gr.Vec3
	if len(v) > 0 {
		out.X = v[0]
	}
	if len(v) > 1 {
		out.Y = v[1]
	}
	if len(v) > 2 {
		out.Z = v[2]
	}
	return out
}
