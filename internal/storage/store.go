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

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	seriesFile     = "series.csv"
	configFile     = "config.yaml"
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
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Count       int                `json:"count"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Time        float64            `json:"time"`
	Collider    string             `json:"collider"`
	Bounds      dynamo.Bounds      `json:"bounds"`
	Frames      int                `json:"frames"`
	Collisions  int                `json:"collisions"`
	WallHits    int                `json:"wall_hits"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// Create makes a new run directory and returns its id.
func (s *Store) Create(name string) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	if err := os.MkdirAll(s.dir(runID), 0755); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// OpenTrajectory creates the trajectory file of a run. The caller must
// Close the writer.
func (s *Store) OpenTrajectory(runID string) (*TrajectoryWriter, error) {
	f, err := os.Create(filepath.Join(s.dir(runID), trajectoryFile))
	if err != nil {
		return nil, err
	}
	tw, err := NewTrajectoryWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	tw.closer = f
	return tw, nil
}

func (s *Store) SaveMetadata(meta *RunMetadata) error {
	f, err := os.Create(filepath.Join(s.dir(meta.ID), metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// SaveConfig writes the effective run configuration as YAML next to the
// trajectory so the run can be reproduced.
func (s *Store) SaveConfig(runID string, cfg any) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir(runID), configFile), data, 0644)
}

func (s *Store) ConfigPath(runID string) string {
	return filepath.Join(s.dir(runID), configFile)
}

// SaveSeries writes the per-step energy and collision counts.
func (s *Store) SaveSeries(runID string, result *sim.Result) error {
	f, err := os.Create(filepath.Join(s.dir(runID), seriesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "energy", "collisions"}); err != nil {
		return err
	}
	for i := range result.Energy {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(result.Energy[i], 'g', -1, 64),
			strconv.FormatFloat(result.CollisionSeries[i], 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]sim.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.dir(runID), trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTrajectory(f)
}

// LoadSeries returns the per-step energy and collision counts of a run.
func (s *Store) LoadSeries(runID string) (energy, collisions []float64, err error) {
	f, err := os.Open(filepath.Join(s.dir(runID), seriesFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("series row %d: %w", i, err)
		}
		c, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("series row %d: %w", i, err)
		}
		energy = append(energy, e)
		collisions = append(collisions, c)
	}

	return energy, collisions, nil
}
