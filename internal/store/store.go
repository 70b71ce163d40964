// Package store persists acquisition rounds to an append-only CSV log
// and reads them back for historical charting.
package store

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"codeberg.org/mutker/sensord/internal/classify"
	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/sensor"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	sentinel   = "N/A"
	anomalyYes = "Yes"
	anomalyNo  = "No"

	defaultFilePerm = 0o644
)

var header = []string{"Timestamp", "TEMP", "PPM", "LEVEL", "Anomaly"}

// Record pairs a sample with its verdict. The verdict is never stored
// apart from the sample it was derived from.
type Record struct {
	Sample  sensor.Sample
	Verdict classify.Verdict
}

// CSVLog appends records to a CSV file. Rows are immutable once written;
// the file is only ever appended to, apart from the header written when
// the file is created or found empty. All file access happens under one
// mutex so rows never interleave and readers never observe a torn row.
type CSVLog struct {
	path string
	mu   sync.Mutex
}

func NewCSVLog(path string) *CSVLog {
	return &CSVLog{path: path}
}

// EnsureInitialized writes the header if the log is absent or empty.
// Idempotent: a non-empty log is left untouched.
func (l *CSVLog) EnsureInitialized() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	errFactory := errors.New()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		return errFactory.Wrap(errors.ErrStorageInit, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errFactory.Wrap(errors.ErrStorageInit, err)
	}
	if info.Size() > 0 {
		return nil
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errFactory.Wrap(errors.ErrStorageInit, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errFactory.Wrap(errors.ErrStorageInit, err)
	}

	return nil
}

// Append serializes one record as one row. Open-write-close under the
// mutex, so concurrent appends are totally ordered. A failed append is
// reported to the caller; it costs one record, not the loop.
func (l *CSVLog) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	errFactory := errors.New()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		return errFactory.Wrap(errors.ErrStorageAppend, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(marshalRecord(r)); err != nil {
		return errFactory.Wrap(errors.ErrStorageAppend, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errFactory.Wrap(errors.ErrStorageAppend, err)
	}

	return nil
}

// Load drains the whole log, skipping the header and any row that fails
// to parse. It shares the append mutex, so it may run concurrently with
// the acquisition loop without seeing partial rows.
func (l *CSVLog) Load() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	errFactory := errors.New()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errFactory.Wrap(errors.ErrStorageRead, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records []Record
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			// Malformed rows are skipped; parsing continues past them.
			// Anything other than a parse error is a real I/O failure
			// and would repeat forever, so it surfaces to the caller.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, errFactory.Wrap(errors.ErrStorageRead, err)
		}
		if len(row) > 0 && row[0] == header[0] {
			continue
		}

		record, ok := parseRecord(row)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

func marshalRecord(r Record) []string {
	anomaly := anomalyNo
	if r.Verdict.Anomalous {
		anomaly = anomalyYes
	}

	gas := "0"
	if r.Sample.GasPresent {
		gas = "1"
	}

	return []string{
		r.Sample.Timestamp.Format(timeLayout),
		formatMeasurement(r.Sample.Temperature, -1),
		gas,
		formatMeasurement(r.Sample.Distance, 2),
		anomaly,
	}
}

func formatMeasurement(m sensor.Measurement, decimals int) string {
	if !m.Valid {
		return sentinel
	}
	if decimals >= 0 {
		return strconv.FormatFloat(m.Value, 'f', decimals, 64)
	}

	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

func parseRecord(row []string) (Record, bool) {
	if len(row) < 5 {
		return Record{}, false
	}

	ts, err := time.ParseInLocation(timeLayout, row[0], time.Local)
	if err != nil {
		return Record{}, false
	}

	temperature, ok := parseMeasurement(row[1])
	if !ok {
		return Record{}, false
	}

	gas, err := strconv.Atoi(row[2])
	if err != nil {
		return Record{}, false
	}

	distance, ok := parseMeasurement(row[3])
	if !ok {
		return Record{}, false
	}

	return Record{
		Sample: sensor.Sample{
			Timestamp:   ts,
			Temperature: temperature,
			GasPresent:  gas != 0,
			Distance:    distance,
		},
		Verdict: classify.Verdict{Anomalous: row[4] == anomalyYes},
	}, true
}

func parseMeasurement(field string) (sensor.Measurement, bool) {
	if field == sentinel {
		return sensor.None(), true
	}

	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return sensor.Measurement{}, false
	}

	return sensor.Some(value), true
}
