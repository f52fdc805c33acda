package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/equilab/internal/telemetry"
)

type ExportPoint struct {
	Tick int      `json:"tick"`
	A    int      `json:"a"`
	B    int      `json:"b"`
	AB   int      `json:"ab"`
	Kc   *float64 `json:"kc"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Steps  int           `json:"steps"`
	Points []ExportPoint `json:"points"`
}

func newExportData(meta RunMetadata, points []telemetry.Point) ExportData {
	data := ExportData{
		Run:    meta,
		Steps:  len(points),
		Points: make([]ExportPoint, len(points)),
	}
	for i, p := range points {
		data.Points[i] = ExportPoint{Tick: p.Tick, A: p.A, B: p.B, AB: p.AB, Kc: finitePtr(p.Kc)}
	}
	return data
}

// ExportJSON writes a run to path. Undefined Kc readings become null.
func ExportJSON(path string, meta RunMetadata, points []telemetry.Point) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(file, &err)
	return WriteJSON(file, meta, points)
}

func WriteJSON(w io.Writer, meta RunMetadata, points []telemetry.Point) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, points))
}

// ExportCSV copies the stored series of a run to path.
func (s *Store) ExportCSV(runID, path string) error {
	points, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return writeSeries(path, points)
}
