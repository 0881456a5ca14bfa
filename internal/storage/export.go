package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dragsim/internal/trajectory"
)

type ExportData struct {
	RunMetadata
	Trajectories map[string][]trajectory.Sample `json:"trajectories"`
}

// ExportJSON writes a run as a single JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, galileo, newton *trajectory.Trajectory) error {
	data := ExportData{
		RunMetadata:  meta,
		Trajectories: make(map[string][]trajectory.Sample, 2),
	}
	for _, tr := range []*trajectory.Trajectory{galileo, newton} {
		if tr != nil {
			data.Trajectories[tr.Model] = tr.Samples
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes to path, or to stdout when path is "-".
func ExportJSONFile(path string, meta RunMetadata, galileo, newton *trajectory.Trajectory) error {
	if path == "-" {
		return ExportJSON(os.Stdout, meta, galileo, newton)
	}

	return writeFile(path, func(w io.Writer) error {
		return ExportJSON(w, meta, galileo, newton)
	})
}
