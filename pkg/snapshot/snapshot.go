// Package snapshot loads season performance records from files exported by
// the game backend.
package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Layr-Labs/eigenx-rewards-go/pkg/types"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// CSV column names. address and level are required, the rest default to zero.
const (
	ColumnAddress       = "address"
	ColumnPoints        = "points"
	ColumnLevel         = "level"
	ColumnTreatsCreated = "treats_created"
	ColumnActivityScore = "activity_score"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q (want .json or .csv)", filepath.Ext(path))
	}
}

// LoadRecords reads a snapshot file. Records are returned in file order and
// are not validated beyond parsing; the allocator rejects bad values.
func LoadRecords(path string) ([]*types.PerformanceRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open snapshot %s", path)
	}
	defer f.Close()

	records, err := ReadRecords(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read snapshot %s", path)
	}
	return records, nil
}

// ReadRecords parses a snapshot from r.
func ReadRecords(r io.Reader, format Format) ([]*types.PerformanceRecord, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

func readJSON(r io.Reader) ([]*types.PerformanceRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var records []*types.PerformanceRecord
	if err := decoder.Decode(&records); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON records")
	}
	for i, record := range records {
		if record == nil {
			return nil, errors.Errorf("record %d is null", i)
		}
	}
	if records == nil {
		records = []*types.PerformanceRecord{}
	}
	return records, nil
}

func readCSV(r io.Reader) ([]*types.PerformanceRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []*types.PerformanceRecord{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{ColumnAddress, ColumnLevel} {
		if _, ok := columns[required]; !ok {
			return nil, errors.Errorf("CSV header is missing required column %q", required)
		}
	}

	records := make([]*types.PerformanceRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV row")
		}
		line, _ := reader.FieldPos(0)

		record, err := parseRow(row, columns)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRow(row []string, columns map[string]int) (*types.PerformanceRecord, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	uintField := func(name string) (uint64, error) {
		v := field(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s %q", name, v)
		}
		return n, nil
	}

	record := &types.PerformanceRecord{Address: field(ColumnAddress)}
	var err error
	if record.Points, err = uintField(ColumnPoints); err != nil {
		return nil, err
	}
	if record.Level, err = uintField(ColumnLevel); err != nil {
		return nil, err
	}
	if record.TreatsCreated, err = uintField(ColumnTreatsCreated); err != nil {
		return nil, err
	}
	if v := field(ColumnActivityScore); v != "" {
		record.ActivityScore, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s %q", ColumnActivityScore, v)
		}
	}
	return record, nil
}
