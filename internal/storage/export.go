package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run        RunMetadata `json:"run"`
	Trajectory *Trajectory `json:"trajectory,omitempty"`
}

// ExportJSON writes a run and its trajectory as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, traj *Trajectory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Trajectory: traj})
}

func ExportJSONFile(path string, meta RunMetadata, traj *Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, traj)
}
