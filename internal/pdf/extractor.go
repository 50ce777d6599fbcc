// Package pdf reads named field values out of exported character-sheet PDFs.
//
// Two strategies are supported. Exports that keep their interactive form
// carry an AcroForm dictionary and are read field-by-field with pdfcpu.
// Flattened exports only have page text; those are read line-by-line and
// values are located by their offset from known anchor lines.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Mode selects the extraction strategy
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeForm Mode = "form"
	ModeText Mode = "text"
)

// ValidModes lists the recognized extraction modes
func ValidModes() []Mode {
	return []Mode{ModeAuto, ModeForm, ModeText}
}

// Extractor reads the raw field map from a character-sheet PDF
type Extractor interface {
	Extract(path string) (FieldMap, error)
}

// NewExtractor returns an extractor for the given mode. ModeAuto tries the
// AcroForm strategy first and falls back to text anchors when the document
// carries no form fields.
func NewExtractor(mode Mode, maxFileSize int64) (Extractor, error) {
	switch mode {
	case ModeForm:
		return NewAcroFormExtractor(maxFileSize), nil
	case ModeText:
		return NewTextAnchorExtractor(maxFileSize), nil
	case ModeAuto:
		return &autoExtractor{
			form: NewAcroFormExtractor(maxFileSize),
			text: NewTextAnchorExtractor(maxFileSize),
		}, nil
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", mode)
	}
}

type autoExtractor struct {
	form *AcroFormExtractor
	text *TextAnchorExtractor
}

func (e *autoExtractor) Extract(path string) (FieldMap, error) {
	fields, err := e.form.Extract(path)
	if err == nil {
		return fields, nil
	}
	if errors.Is(err, ErrNoFormFields) {
		return e.text.Extract(path)
	}
	return nil, err
}

// validateFile performs basic validation on a PDF file before parsing
func validateFile(path string, maxFileSize int64) error {
	if path == "" {
		return &DocumentReadError{Path: path, Err: errors.New("path cannot be empty")}
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &DocumentReadError{Path: path, Err: errors.New("file does not exist")}
	}
	if err != nil {
		return &DocumentReadError{Path: path, Err: err}
	}

	if fileInfo.IsDir() {
		return &DocumentReadError{Path: path, Err: errors.New("path is a directory, not a file")}
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return &DocumentReadError{Path: path, Err: errors.New("file is not a PDF")}
	}

	if fileInfo.Size() > maxFileSize {
		return &DocumentReadError{
			Path: path,
			Err:  fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), maxFileSize),
		}
	}

	return nil
}
