package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/dragsim/internal/compare"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

const (
	metadataFile     = "metadata.json"
	trajectoriesFile = "trajectories.csv"
)

// Store archives comparison runs, one directory per run.
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
	Params     physics.Params     `json:"params"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	TMax       float64            `json:"t_max"`
	Galileo    trajectory.Landing `json:"galileo"`
	Newton     trajectory.Landing `json:"newton"`
	Rows       []compare.Row      `json:"rows"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes metadata and both trajectories under a fresh run id and
// fills in meta.ID and meta.Timestamp. A failed save removes the run
// directory again.
func (s *Store) Save(meta *RunMetadata, galileo, newton *trajectory.Trajectory) (runID string, err error) {
	meta.ID = "run_" + uuid.NewString()[:8]
	meta.Timestamp = time.Now()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, trajectoriesFile), func(w io.Writer) error {
		return writeTrajectories(w, galileo, newton)
	})
	if err != nil {
		return "", err
	}

	ix, err := OpenIndex(filepath.Join(s.baseDir, indexFile))
	if err != nil {
		return "", fmt.Errorf("open index: %w", err)
	}
	defer ix.Close()
	if err = ix.Insert(context.Background(), *meta); err != nil {
		return "", fmt.Errorf("index run: %w", err)
	}

	return meta.ID, nil
}

func writeTrajectories(out io.Writer, trs ...*trajectory.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"model", "t", "x", "y", "u", "w"}); err != nil {
		return err
	}
	for _, tr := range trs {
		if tr == nil {
			continue
		}
		for _, smp := range tr.Samples {
			row := []string{tr.Model}
			for _, v := range []float64{smp.T, smp.X, smp.Y, smp.U, smp.W} {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// writeFile reports close errors, which is where a failed flush to disk
// shows up.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Search queries the run index. An archive without an index yields no
// runs.
func (s *Store) Search(ctx context.Context, f Filter) ([]Summary, error) {
	path := filepath.Join(s.baseDir, indexFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []Summary{}, nil
	}
	ix, err := OpenIndex(path)
	if err != nil {
		return nil, err
	}
	defer ix.Close()
	return ix.Search(ctx, f)
}

// List returns archived runs, oldest first. Unreadable entries are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
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
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectories reads back the galileo and newton samples of a run.
func (s *Store) LoadTrajectories(runID string) (galileo, newton *trajectory.Trajectory, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoriesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	galileo = &trajectory.Trajectory{Model: trajectory.ModelGalileo}
	newton = &trajectory.Trajectory{Model: trajectory.ModelNewton}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 6 {
			return nil, nil, fmt.Errorf("%s line %d: expected 6 fields, got %d", trajectoriesFile, i+1, len(record))
		}

		var vals [5]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", trajectoriesFile, i+1, err)
			}
		}
		smp := trajectory.Sample{T: vals[0], X: vals[1], Y: vals[2], U: vals[3], W: vals[4]}

		switch record[0] {
		case trajectory.ModelGalileo:
			galileo.Samples = append(galileo.Samples, smp)
		case trajectory.ModelNewton:
			newton.Samples = append(newton.Samples, smp)
		default:
			return nil, nil, fmt.Errorf("%s line %d: unknown model %q", trajectoriesFile, i+1, record[0])
		}
	}

	return galileo, newton, nil
}
