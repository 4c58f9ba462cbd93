package config

// Planet masses in solar masses, orbits started at perihelion on +x with
// prograde velocity along +y. Elements are J2000 values.
func mercuryBodies() []BodyConfig {
	return []BodyConfig{
		{Name: "sun", Mass: 1.0},
		{Name: "mercury", Mass: 1.6601e-7,
			Pos: []float64{0.30749, 0, 0}, Vel: []float64{0, 12.4414, 0}},
	}
}

var Presets = map[string]*Config{
	"mercury": {
		Correction: "implicit", G: DefaultG, C: DefaultC,
		Dt: 1e-4, Duration: 10.0, SampleEvery: 20,
		Bodies: mercuryBodies(),
	},
	// Speed of light cut by 100x so one perihelion shift is visible in a
	// short terminal run (~5e-3 rad per orbit instead of ~5e-7).
	"mercury-fast": {
		Correction: "implicit", G: DefaultG, C: DefaultC / 100,
		Dt: 1e-4, Duration: 10.0, SampleEvery: 20,
		Bodies: mercuryBodies(),
	},
	"binary": {
		Correction: "implicit", G: DefaultG, C: DefaultC,
		Dt: 1e-4, Duration: 5.0, SampleEvery: 20,
		Bodies: []BodyConfig{
			{Name: "a", Mass: 0.5,
				Pos: []float64{0.5, 0, 0}, Vel: []float64{0, 3.14159265, 0}},
			{Name: "b", Mass: 0.5,
				Pos: []float64{-0.5, 0, 0}, Vel: []float64{0, -3.14159265, 0}},
		},
	},
	"inner": {
		Correction: "implicit", G: DefaultG, C: DefaultC,
		Dt: 2e-4, Duration: 20.0, SampleEvery: 50,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: 1.0},
			{Name: "mercury", Mass: 1.6601e-7,
				Pos: []float64{0.30749, 0, 0}, Vel: []float64{0, 12.4414, 0}},
			{Name: "venus", Mass: 2.4478e-6,
				Pos: []float64{0.71843, 0, 0}, Vel: []float64{0, 7.4379, 0}},
			{Name: "earth", Mass: 3.0035e-6,
				Pos: []float64{0.98330, 0, 0}, Vel: []float64{0, 6.3890, 0}},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
