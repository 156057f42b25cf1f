package exporters

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kova98/redditscrape/data"
	"github.com/kova98/redditscrape/enums"
)

const timestampLayout = "20060102_150405"

// Writer saves a run's records under dir. The directory must already exist.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path returns the output file for a run started at.
func (w *Writer) Path(format enums.Format, at time.Time) string {
	name := fmt.Sprintf("reddit_results_%s.%s", at.Format(timestampLayout), format)
	return filepath.Join(w.dir, name)
}

// Write serializes records in format and returns the written path. Writing
// an empty collection as CSV is a no-op that returns "".
func (w *Writer) Write(records []data.PostRecord, format enums.Format, at time.Time) (string, error) {
	switch format {
	case enums.FormatJSON:
		return w.writeJSON(records, at)
	case enums.FormatCSV:
		if len(records) == 0 {
			return "", nil
		}
		return w.writeCSV(records, at)
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func (w *Writer) writeJSON(records []data.PostRecord, at time.Time) (string, error) {
	path := w.Path(enums.FormatJSON, at)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create json output: %w", err)
	}
	defer f.Close()

	if records == nil {
		records = []data.PostRecord{}
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode json output: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close json output: %w", err)
	}
	return path, nil
}

// writeCSV takes the header from the first record and writes every row in
// that column order. Cells for keys a record lacks are left empty. The file
// holds N+1 CSV records (header plus one per post); a multi-line selftext is
// quoted and spans several physical lines of its record.
func (w *Writer) writeCSV(records []data.PostRecord, at time.Time) (string, error) {
	path := w.Path(enums.FormatCSV, at)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv output: %w", err)
	}
	defer f.Close()

	first := records[0].Fields()
	header := make([]string, 0, len(first))
	for _, field := range first {
		header = append(header, field.Key)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for _, record := range records {
		values := make(map[string]string, len(header))
		for _, field := range record.Fields() {
			values[field.Key] = field.Value
		}
		for i, key := range header {
			row[i] = values[key]
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %s: %w", record.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush csv output: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv output: %w", err)
	}
	return path, nil
}
