// Package runner drives the one-shot conversion: read the PDF, map the
// fields, write the cells. Strictly sequential, no retries; any stage error
// aborts the run tagged with the stage that failed.
package runner

import (
	"context"
	"fmt"
	"sort"

	"charsync/internal/character"
	"charsync/internal/layout"
	"charsync/internal/pdf"
	"charsync/internal/sheets"
)

// Stage names the pipeline state in which a failure occurred
type Stage string

const (
	StageReadingPDF Stage = "reading-pdf"
	StageMapping    Stage = "mapping"
	StageWriting    Stage = "writing"
)

// StageError tags a failure with the pipeline stage it occurred in
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause
func (e *StageError) Unwrap() error {
	return e.Err
}

// Result summarizes a completed run
type Result struct {
	Attributes   int
	CellsWritten int
}

// Pipeline wires the extractor, mapper, layout template and writer. The
// extractor and writer are interfaces so tests run against fakes.
type Pipeline struct {
	Extractor pdf.Extractor
	Mapper    *character.Mapper
	Template  *layout.Template
	Writer    sheets.Writer
	Logf      func(format string, args ...any)
}

// Run executes the pipeline for one character-sheet PDF
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Result, error) {
	fields, err := p.Extractor.Extract(pdfPath)
	if err != nil {
		return nil, &StageError{Stage: StageReadingPDF, Err: err}
	}
	p.logf("extracted %d raw fields from %s", len(fields), pdfPath)

	record, err := p.Mapper.Map(fields)
	if err != nil {
		return nil, &StageError{Stage: StageMapping, Err: err}
	}
	p.logf("mapped %d attributes", len(record))

	writes := BuildWrites(record, p.Template, p.Logf)

	if err := p.Writer.Write(ctx, writes); err != nil {
		return nil, &StageError{Stage: StageWriting, Err: err}
	}

	return &Result{Attributes: len(record), CellsWritten: len(writes)}, nil
}

// BuildWrites resolves every record attribute against the layout template.
// Attributes the template does not track are skipped without error; the
// template is the contract. Attributes are visited in sorted order so the
// write batch is deterministic.
func BuildWrites(record character.Record, template *layout.Template, logf func(string, ...any)) []sheets.CellWrite {
	attrs := make([]string, 0, len(record))
	for attr := range record {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	var writes []sheets.CellWrite
	for _, attr := range attrs {
		switch value := record[attr].(type) {
		case []string:
			for i, item := range value {
				ref, ok := template.ResolveIndexed(attr, i)
				if !ok {
					break
				}
				writes = append(writes, sheets.CellWrite{Ref: ref, Value: item})
			}
		default:
			ref, ok := template.Resolve(attr)
			if !ok {
				if logf != nil {
					logf("attribute %s has no cell in template %s; skipped", attr, template.Version)
				}
				continue
			}
			writes = append(writes, sheets.CellWrite{Ref: ref, Value: value})
		}
	}

	return writes
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}
