package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID         string             `json:"id"`
	Plant      string             `json:"plant"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	Setpoints  []float64          `json:"setpoints"`
	Outputs    []float64          `json:"outputs"`
	Errors     []float64          `json:"errors"`
	Controls   []float64          `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, series *Series) ExportData {
	return ExportData{
		ID:         meta.ID,
		Plant:      meta.Plant,
		Integrator: meta.Integrator,
		Controller: meta.Controller,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Steps:      len(series.Times),
		Times:      series.Times,
		Setpoints:  series.Setpoints,
		Outputs:    series.Outputs,
		Errors:     series.Errs,
		Controls:   series.Controls,
		Metrics:    meta.Metrics,
	}
}

func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(meta, series))
}

func ExportJSONFile(path string, meta *RunMetadata, series *Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, series)
}
