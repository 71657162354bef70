// Package export encodes environment tables and training runs for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"hvac_simulator/internal/model"
	"hvac_simulator/internal/trainer"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves a format name; empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType is the MIME type of the encoded output.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension is the file extension, without the dot.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return string(f)
}

// WriteEnvironment encodes an environment table.
func WriteEnvironment(w io.Writer, f Format, rows []model.EnvironmentRow) error {
	switch f {
	case FormatJSON:
		return json.NewEncoder(w).Encode(rows)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(rows)
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, model.Labels(model.EnvironmentColumns))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.TimeStep),
			formatFloat(r.Temperature),
			formatFloat(r.Humidity),
			formatFloat(r.EnergyUsage),
		})
	}
	return writeCSV(w, records)
}

// WriteRun encodes a training run. CSV carries the per-episode results only.
func WriteRun(w io.Writer, f Format, run trainer.Run) error {
	switch f {
	case FormatJSON:
		return json.NewEncoder(w).Encode(run)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(run)
	}

	header := append([]string{"Episode"}, model.Labels(model.EpisodeColumns)...)
	records := make([][]string, 0, len(run.Results)+1)
	records = append(records, header)
	for _, r := range run.Results {
		records = append(records, []string{
			strconv.Itoa(r.Episode),
			formatFloat(r.ComfortScore),
			formatFloat(r.EnergyConsumed),
		})
	}
	return writeCSV(w, records)
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
