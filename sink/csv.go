// Package sink writes finished record batches to CSV files.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/dinescrape/models"
)

// CSV writes one file per batch: a header row of column names followed by
// one row per record.
type CSV struct{}

// WriteRecords replaces dest with the batch. Parent directories are created.
func (CSV) WriteRecords(columns []string, records []models.Record, dest string) error {
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", dest, err)
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("write header to %s: %w", dest, err)
	}
	for i, rec := range records {
		if err := w.Write(rec.Values(columns)); err != nil {
			f.Close()
			return fmt.Errorf("write row %d to %s: %w", i, dest, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", dest, err)
	}
	return f.Close()
}
