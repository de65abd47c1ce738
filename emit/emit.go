// Package emit turns aligned field sequences into records and hands them
// to a sink in a single batch.
package emit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/dinescrape/align"
	"github.com/use-agent/dinescrape/models"
)

// Sink persists a finished batch of records.
type Sink interface {
	WriteRecords(columns []string, records []models.Record, dest string) error
}

// Summary describes one emitted batch.
type Summary struct {
	Dest    string
	Records int
	Columns []string
	Filled  map[string]int
	Dropped map[string]int
}

// Emitter writes record batches to a Sink and reports completion on out.
type Emitter struct {
	sink   Sink
	out    io.Writer
	logger *slog.Logger
}

// New creates an Emitter. A nil out writes the completion report to
// stdout; a nil logger uses slog.Default().
func New(sink Sink, out io.Writer, logger *slog.Logger) *Emitter {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{sink: sink, out: out, logger: logger}
}

// Records zips seqs positionally: record i takes index i of every column.
// Sequences are aligned first, so unequal inputs are truncated to the
// shortest. Columns with no sequence are filled with models.Sentinel.
func Records(columns []string, seqs map[string]models.Sequence) []models.Record {
	aligned := align.Align(pick(columns, seqs))
	n := align.Shortest(aligned)

	records := make([]models.Record, n)
	for i := 0; i < n; i++ {
		rec := make(models.Record, len(columns))
		for _, c := range columns {
			rec[c] = aligned[c][i]
		}
		records[i] = rec
	}
	return records
}

// Emit builds the records for columns and writes them to dest in one call.
// A sink failure is returned as SINK_WRITE_FAILED and not retried.
func (e *Emitter) Emit(ctx context.Context, columns []string, seqs map[string]models.Sequence, dest string) (Summary, error) {
	picked := pick(columns, seqs)
	dropped := align.Dropped(picked)
	if len(dropped) > 0 {
		e.logger.Warn("field sequences had unequal lengths, truncating",
			"dest", dest,
			"length", align.Shortest(picked),
			"dropped", dropped,
		)
	}

	records := Records(columns, seqs)
	if err := ctx.Err(); err != nil {
		return Summary{}, models.NewScrapeError(models.ErrCodeSinkWrite, "emit canceled before write", err)
	}
	if err := e.sink.WriteRecords(columns, records, dest); err != nil {
		return Summary{}, models.NewScrapeError(models.ErrCodeSinkWrite, fmt.Sprintf("failed to write %d records to %s", len(records), dest), err)
	}

	sum := Summary{
		Dest:    dest,
		Records: len(records),
		Columns: columns,
		Filled:  make(map[string]int, len(columns)),
		Dropped: dropped,
	}
	for _, c := range columns {
		sum.Filled[c] = models.Filled(models.Column(records, c))
	}

	e.logger.Info("records saved", "dest", dest, "records", sum.Records)
	e.report(sum)
	return sum, nil
}

// report prints the human-readable completion signal.
func (e *Emitter) report(sum Summary) {
	fmt.Fprintf(e.out, "Saved %d records to %s\n", sum.Records, sum.Dest)

	t := table.NewWriter()
	t.SetOutputMirror(e.out)
	t.AppendHeader(table.Row{"Column", "Filled", "NA"})
	for _, c := range sum.Columns {
		t.AppendRow(table.Row{c, sum.Filled[c], sum.Records - sum.Filled[c]})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// pick restricts seqs to columns, substituting an all-sentinel sequence
// for a column nobody produced values for.
func pick(columns []string, seqs map[string]models.Sequence) map[string]models.Sequence {
	out := make(map[string]models.Sequence, len(columns))
	longest := 0
	for _, c := range columns {
		if len(seqs[c]) > longest {
			longest = len(seqs[c])
		}
	}
	for _, c := range columns {
		s, ok := seqs[c]
		if !ok {
			s = make(models.Sequence, longest)
			for i := range s {
				s[i] = models.Sentinel
			}
		}
		out[c] = s
	}
	return out
}
