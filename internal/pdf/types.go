package pdf

import (
	"errors"
	"fmt"
)

// FieldType represents the type of an extracted field value
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeChoice   FieldType = "choice"
	FieldTypeUnknown  FieldType = "unknown"
)

// Value is a single field value read out of a character-sheet PDF.
// Text and choice fields carry Text; checkbox fields carry Checked.
type Value struct {
	Type    FieldType
	Text    string
	Checked bool
}

// TextValue builds a text field value
func TextValue(s string) Value {
	return Value{Type: FieldTypeText, Text: s}
}

// ChoiceValue builds a choice field value carrying the selected label
func ChoiceValue(label string) Value {
	return Value{Type: FieldTypeChoice, Text: label}
}

// CheckboxValue builds a checkbox field value
func CheckboxValue(checked bool) Value {
	return Value{Type: FieldTypeCheckbox, Checked: checked}
}

// FieldMap maps a field name to its extracted value for one document
type FieldMap map[string]Value

// ErrNoFormFields indicates the document parsed fine but carries no AcroForm
// fields. Flattened exports hit this; the auto extractor falls back to the
// text-anchor strategy.
var ErrNoFormFields = errors.New("document contains no form fields")

// DocumentReadError indicates the source PDF is missing, unreadable, or not a
// recognized character-sheet export
type DocumentReadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("cannot read document %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *DocumentReadError) Unwrap() error {
	return e.Err
}
