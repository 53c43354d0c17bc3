package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/turns"
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
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Turns          int                `json:"turns"`
	TRev           float64            `json:"t_rev"`
	ShuntImpedance float64            `json:"shunt_impedance"`
	Frequency      float64            `json:"frequency"`
	Quality        float64            `json:"quality"`
	Macroparticles int                `json:"macroparticles"`
	Intensity      float64            `json:"intensity"`
	Seed           int64              `json:"seed"`
	Backend        string             `json:"backend"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes one run directory: metadata.json, turns.csv with the per-turn
// records, and particles.csv with the final beam and voltage arrays.
func (s *Store) Save(meta RunMetadata, result *turns.Result, b *beam.Particles, induced []float64) (string, error) {
	runID := fmt.Sprintf("music_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics

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

	if err := s.writeTurns(runDir, result); err != nil {
		return "", err
	}
	if err := s.writeParticles(runDir, b, induced); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeTurns(runDir string, result *turns.Result) error {
	f, err := os.Create(filepath.Join(runDir, "turns.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"turn", "first_voltage", "peak_voltage", "energy_spread"}); err != nil {
		return err
	}
	for i := 0; i < len(result.FirstVoltage); i++ {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(result.FirstVoltage[i], 'e', 17, 64),
			strconv.FormatFloat(result.PeakVoltage[i], 'e', 17, 64),
			strconv.FormatFloat(result.EnergySpread[i], 'e', 17, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeParticles(runDir string, b *beam.Particles, induced []float64) error {
	f, err := os.Create(filepath.Join(runDir, "particles.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"dt", "de", "induced_voltage"}); err != nil {
		return err
	}
	for i := 0; i < b.N(); i++ {
		v := 0.0
		if i < len(induced) {
			v = induced[i]
		}
		row := []string{
			strconv.FormatFloat(b.Dt[i], 'e', 17, 64),
			strconv.FormatFloat(b.DE[i], 'e', 17, 64),
			strconv.FormatFloat(v, 'e', 17, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadParticles reads back the dt, dE and voltage columns of a saved run.
func (s *Store) LoadParticles(runID string) (dt, de, induced []float64, err error) {
	rows, err := s.readCSV(filepath.Join(s.baseDir, runID, "particles.csv"), 3)
	if err != nil {
		return nil, nil, nil, err
	}
	return rows[0], rows[1], rows[2], nil
}

// LoadTurns reads back the per-turn records of a saved run, skipping the
// turn-number column.
func (s *Store) LoadTurns(runID string) (first, peak, spread []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "turns.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	for i, rec := range records {
		if i == 0 || len(rec) < 4 {
			continue
		}
		v1, err1 := strconv.ParseFloat(rec[1], 64)
		v2, err2 := strconv.ParseFloat(rec[2], 64)
		v3, err3 := strconv.ParseFloat(rec[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nil, nil, fmt.Errorf("storage: bad row %d in turns.csv", i)
		}
		first = append(first, v1)
		peak = append(peak, v2)
		spread = append(spread, v3)
	}
	return first, peak, spread, nil
}

func (s *Store) readCSV(path string, cols int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([][]float64, cols)
	for i, rec := range records {
		if i == 0 || len(rec) < cols {
			continue
		}
		for c := 0; c < cols; c++ {
			v, err := strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad row %d in %s", i, filepath.Base(path))
			}
			out[c] = append(out[c], v)
		}
	}
	return out, nil
}
