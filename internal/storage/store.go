package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/fresnel/internal/optics"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
	mapFile      = "map.csv"
)

var ErrNotFound = errors.New("storage: run not found")

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
	ID            string     `json:"id"`
	Mode          string     `json:"mode"`
	Shape         string     `json:"shape,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	Wavelength    float64    `json:"wavelength"`
	FieldStrength float64    `json:"field_strength"`
	Limits        [2]float64 `json:"limits"`
	Distance      float64    `json:"distance"`
	Points        int        `json:"points"`
	Screen        [2]float64 `json:"screen"`
	Terms         int        `json:"terms"`
	ElapsedMs     float64    `json:"elapsed_ms"`
	Peak          float64    `json:"peak"`
}

func (s *Store) newRun(meta *RunMetadata) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Mode, uuid.NewString()[:8])
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runDir, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// SaveProfile stores a 1-D profile as profile.csv with columns
// x, intensity, re, im. Mode, distance, points and peak are filled in from p.
func (s *Store) SaveProfile(meta RunMetadata, p *optics.Profile) (string, error) {
	meta.Mode = "profile"
	meta.Distance = p.Distance
	meta.Points = len(p.Samples)
	meta.ElapsedMs = float64(p.Elapsed.Microseconds()) / 1000
	if i := p.Peak(); i >= 0 {
		meta.Peak = p.Samples[i].Intensity
	}

	runDir, err := s.newRun(&meta)
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(p.Samples))
	for i, smp := range p.Samples {
		rows[i] = []string{
			formatFloat(smp.X),
			formatFloat(smp.Intensity),
			formatFloat(real(smp.Amplitude)),
			formatFloat(imag(smp.Amplitude)),
		}
	}
	if err := writeCSV(filepath.Join(runDir, profileFile), []string{"x", "intensity", "re", "im"}, rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// SaveMap stores a 2-D map as map.csv in long form with columns
// x, y, intensity.
func (s *Store) SaveMap(meta RunMetadata, m *optics.Map) (string, error) {
	meta.Mode = "map"
	meta.Distance = m.Distance
	meta.Points = len(m.Axis)
	meta.ElapsedMs = float64(m.Elapsed.Microseconds()) / 1000
	meta.Peak = m.Max()

	runDir, err := s.newRun(&meta)
	if err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(m.Axis)*len(m.Axis))
	for _, row := range m.Samples {
		for _, smp := range row {
			rows = append(rows, []string{formatFloat(smp.X), formatFloat(smp.Y), formatFloat(smp.Intensity)})
		}
	}
	if err := writeCSV(filepath.Join(runDir, mapFile), []string{"x", "y", "intensity"}, rows); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every stored run, newest first.
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
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// DataPath returns the CSV file holding the run's samples.
func (s *Store) DataPath(meta *RunMetadata) string {
	name := profileFile
	if meta.Mode == "map" {
		name = mapFile
	}
	return filepath.Join(s.baseDir, meta.ID, name)
}

func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	out := make([][]float64, 0, len(records)-1)
	for line, rec := range records[1:] {
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line+2, err)
			}
			vals[j] = v
		}
		out = append(out, vals)
	}
	return out, nil
}

// LoadProfile reads back screen positions and intensities.
func (s *Store) LoadProfile(runID string) (xs, ys []float64, err error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, profileFile))
	if err != nil {
		return nil, nil, err
	}
	xs = make([]float64, len(rows))
	ys = make([]float64, len(rows))
	for i, r := range rows {
		xs[i], ys[i] = r[0], r[1]
	}
	return xs, ys, nil
}

// LoadMap reads back the axis and the intensity grid indexed [x][y].
func (s *Store) LoadMap(runID string) (axis []float64, grid [][]float64, err error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, mapFile))
	if err != nil {
		return nil, nil, err
	}
	n := 0
	for n*n < len(rows) {
		n++
	}
	if n*n != len(rows) {
		return nil, nil, fmt.Errorf("storage: map %s has %d cells, not a square grid", runID, len(rows))
	}

	axis = make([]float64, n)
	grid = make([][]float64, n)
	for i := 0; i < n; i++ {
		grid[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			r := rows[i*n+j]
			grid[i][j] = r[2]
			if i == 0 {
				axis[j] = r[1]
			}
		}
	}
	return axis, grid, nil
}
