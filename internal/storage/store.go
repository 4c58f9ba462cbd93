// Package storage persists simulation runs: one directory per run holding
// metadata.json and a states.csv of sampled body positions.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/relsim/internal/gr"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Correction string             `json:"correction"`
	G          float64            `json:"g"`
	C          float64            `json:"c"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Sample is one stored row: simulation time plus every body's position.
type Sample struct {
	Time      float64
	Positions []gr.Vec3
}

// Save writes a run directory and returns its id.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Correction, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(samples) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := range samples[0].Positions {
		header = append(header,
			fmt.Sprintf("b%dx", i), fmt.Sprintf("b%dy", i), fmt.Sprintf("b%dz", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range samples {
		row := make([]string, 0, len(header))
		row = append(row, strconv.FormatFloat(sample.Time, 'g', -1, 64))
		for _, p := range sample.Positions {
			row = append(row,
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Z, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the states.csv of a run.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	nBodies := (len(records[0]) - 1) / 3
	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 1+3*nBodies {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		sample := Sample{Time: t, Positions: make([]gr.Vec3, nBodies)}
		for i := 0; i < nBodies; i++ {
			x, errX := strconv.ParseFloat(record[1+i*3], 64)
			y, errY := strconv.ParseFloat(record[2+i*3], 64)
			z, errZ := strconv.ParseFloat(record[3+i*3], 64)
			if errX != nil || errY != nil || errZ != nil {
				continue
			}
			sample.Positions[i] = gr.Vec3{X: x, Y: y, Z: z}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
