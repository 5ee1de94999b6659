// Package storage persists built cosmology bundles as sampled tables:
// a metadata.json with the parameters and conformal-time range, plus csv
// files with the neutrino background and thermal-history samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/cosmoprep/internal/cosmology"
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

type BundleMetadata struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Params    cosmology.Params `json:"params"`
	Amnu      float64          `json:"amnu"`
	TauMin    float64          `json:"taumin"`
	TauMax    float64          `json:"taumax"`
	NumThermo int              `json:"num_thermo"`
}

// Save samples the bundle's splines onto its thermal grid and writes the
// run directory. It returns the run ID.
func (s *Store) Save(name string, b *cosmology.Bundle, numThermo int) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := BundleMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Params:    b.Params,
		Amnu:      b.Derived.Amnu,
		TauMin:    b.Derived.TauMin,
		TauMax:    b.Derived.TauMax,
		NumThermo: numThermo,
	}

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

	if err := s.writeBackground(runDir, b, numThermo); err != nil {
		return "", err
	}
	if err := s.writeThermal(runDir, b, numThermo); err != nil {
		return "", err
	}
	return runID, nil
}

// writeBackground dumps (a, rhonu, pnu) on the geometric a-grid.
func (s *Store) writeBackground(runDir string, b *cosmology.Bundle, n int) error {
	f, err := os.Create(filepath.Join(runDir, "background.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"a", "rhonu", "pnu"}); err != nil {
		return err
	}
	for _, a := range sampleGeom(b.Derived.Amin, b.Derived.Amax, n) {
		row := []string{
			formatFloat(a),
			formatFloat(b.RhonuOfA.Evaluate(a)),
			formatFloat(b.PnuOfA.Evaluate(a)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeThermal dumps (tau, cs2, tb, xe, a) on the uniform tau-grid.
func (s *Store) writeThermal(runDir string, b *cosmology.Bundle, n int) error {
	f, err := os.Create(filepath.Join(runDir, "thermal.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"tau", "cs2", "tb", "xe", "a"}); err != nil {
		return err
	}
	dtau := (b.Derived.TauMax - b.Derived.TauMin) / float64(n-1)
	for i := 0; i < n; i++ {
		tau := b.Derived.TauMin + float64(i)*dtau
		row := []string{
			formatFloat(tau),
			formatFloat(b.Cs2OfTau.Evaluate(tau)),
			formatFloat(b.TempbOfTau.Evaluate(tau)),
			formatFloat(b.XeOfTau.Evaluate(tau)),
			formatFloat(b.AOfTau.Evaluate(tau)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]BundleMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BundleMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]BundleMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta BundleMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*BundleMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta BundleMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTable reads one of the saved csv tables as named columns.
func (s *Store) LoadTable(runID, table string) (map[string][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, table+".csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for j, cell := range record {
			if j >= len(header) {
				break
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad value %q in %s: %w", cell, table, err)
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}
	return cols, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func sampleGeom(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	ratio := hi / lo
	for i := range xs {
		xs[i] = lo * math.Pow(ratio, float64(i)/float64(n-1))
	}
	return xs
}
