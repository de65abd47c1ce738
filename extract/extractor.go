// Package extract resolves named fields out of record containers. A field
// that cannot be resolved becomes models.Sentinel; it never fails the
// record it belongs to.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/models"
)

// Field is a named lookup rule relative to a container. When Attr is set
// the attribute is read, otherwise the element text.
type Field struct {
	Name    string
	Locator browser.Locator
	Attr    string
}

// Validate checks the name and locator.
func (f Field) Validate() error {
	if f.Name == "" {
		return errors.New("field has no name")
	}
	if err := f.Locator.Validate(); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	return nil
}

// GroupField is a field recovered from a flat element list shared with
// other fields of the same review block.
type GroupField struct {
	Name    string
	Locator browser.Locator
	Pattern Pattern
}

// Extractor reads fields through a browser.Surface.
type Extractor struct {
	surface browser.Surface
	logger  *slog.Logger
}

// New creates an Extractor. A nil logger uses slog.Default().
func New(surface browser.Surface, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{surface: surface, logger: logger}
}

// Resolve looks up a single field inside container. An ambiguous locator
// resolves to its first match.
func (x *Extractor) Resolve(ctx context.Context, container browser.Element, f Field) Result {
	el, err := x.surface.Locate(ctx, container, f.Locator)
	if err != nil {
		return failed(f, err)
	}

	var v string
	if f.Attr != "" {
		v, err = x.surface.Attribute(ctx, el, f.Attr)
	} else {
		v, err = x.surface.Text(ctx, el)
	}
	if err != nil {
		return failed(f, err)
	}
	return Result{Value: v}
}

// One extracts every field of one container. The returned record always
// holds an entry per field.
func (x *Extractor) One(ctx context.Context, container browser.Element, fields []Field) models.Record {
	rec := make(models.Record, len(fields))
	for _, f := range fields {
		res := x.Resolve(ctx, container, f)
		if !res.OK() {
			x.logger.Debug("field unresolved", "field", f.Name, "error", res.Err)
		}
		rec[f.Name] = res.OrSentinel()
	}
	return rec
}

// Collect runs One over every container and appends each value to its
// field's sequence, so all sequences come back with len(containers) entries.
func (x *Extractor) Collect(ctx context.Context, containers []browser.Element, fields []Field) map[string]models.Sequence {
	seqs := make(map[string]models.Sequence, len(fields))
	for _, f := range fields {
		seqs[f.Name] = make(models.Sequence, 0, len(containers))
	}
	for _, c := range containers {
		rec := x.One(ctx, c, fields)
		for _, f := range fields {
			seqs[f.Name] = append(seqs[f.Name], rec[f.Name])
		}
	}
	return seqs
}

// Group bulk-locates each field's elements under scope and partitions them
// by the field's pattern. Fields sharing a locator share one lookup.
//
// A field with an invalid pattern is skipped with a warning and yields an
// empty sequence. A flat list whose length does not fit the period is
// logged and still partitioned.
func (x *Extractor) Group(ctx context.Context, scope browser.Element, fields []GroupField) map[string]models.Sequence {
	seqs := make(map[string]models.Sequence, len(fields))
	flat := make(map[browser.Locator][]browser.Element)

	for _, f := range fields {
		if err := f.Pattern.Validate(); err != nil {
			x.logger.Warn("skipping interleaved field", "field", f.Name, "error", err)
			seqs[f.Name] = models.Sequence{}
			continue
		}

		els, ok := flat[f.Locator]
		if !ok {
			var err error
			els, err = x.surface.LocateAll(ctx, scope, f.Locator)
			if err != nil {
				x.logger.Debug("bulk locate failed", "field", f.Name, "locator", f.Locator.String(), "error", err)
				els = nil
			}
			flat[f.Locator] = els
		}

		if err := f.Pattern.Check(len(els)); err != nil {
			x.logger.Warn("interleaved list does not match pattern",
				"field", f.Name,
				"period", f.Pattern.Period,
				"offset", f.Pattern.Offset,
				"error", err,
			)
		}

		picked := Partition(els, f.Pattern)
		seq := make(models.Sequence, 0, len(picked))
		for _, el := range picked {
			text, err := x.surface.Text(ctx, el)
			if err != nil {
				text = models.Sentinel
			}
			seq = append(seq, text)
		}
		seqs[f.Name] = seq
	}
	return seqs
}

// Names returns field names in order; this is the CSV column contract.
func Names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// GroupNames returns group field names in order.
func GroupNames(fields []GroupField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
