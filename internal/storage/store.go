package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	G         float64            `json:"g"`
	TimeScale float64            `json:"time_scale"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// Params are the engine settings a run was made with.
type Params struct {
	G         float64
	TimeScale float64
	Dt        float64
}

// Save writes the run's metadata and, if traj is non-nil, its sampled
// positions. It returns the run ID.
func (s *Store) Save(p Params, result *sim.Result, traj *Trajectory) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d_%d", result.Preset, result.Seed, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    result.Preset,
		Timestamp: now,
		Seed:      result.Seed,
		G:         p.G,
		TimeScale: p.TimeScale,
		Dt:        p.Dt,
		Steps:     result.Steps,
		Metrics:   result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if traj == nil {
		return runID, nil
	}
	if err := writeStates(filepath.Join(runDir, statesFile), traj); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, traj *Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"step"}
	for _, id := range traj.IDs {
		header = append(header, id+"_x", id+"_y")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range traj.Samples {
		row := []string{strconv.Itoa(s.Step)}
		for _, p := range s.Positions {
			row = append(row, strconv.FormatFloat(p.X, 'f', 6, 64), strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns saved runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads back the sampled positions of a run.
func (s *Store) LoadStates(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	traj := &Trajectory{Stride: 1}
	if len(records) == 0 {
		return traj, nil
	}

	header := records[0]
	for i := 1; i+1 < len(header); i += 2 {
		traj.IDs = append(traj.IDs, strings.TrimSuffix(header[i], "_x"))
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		sample := Sample{Step: step}
		for j := 1; j+1 < len(record); j += 2 {
			x, errX := strconv.ParseFloat(record[j], 64)
			y, errY := strconv.ParseFloat(record[j+1], 64)
			if errX != nil || errY != nil {
				continue
			}
			sample.Positions = append(sample.Positions, dynamo.Vec2{X: x, Y: y})
		}
		traj.Samples = append(traj.Samples, sample)
	}
	if len(traj.Samples) > 1 {
		traj.Stride = traj.Samples[1].Step - traj.Samples[0].Step
	}
	return traj, nil
}
