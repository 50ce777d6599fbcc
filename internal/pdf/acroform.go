package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// AcroFormExtractor reads interactive form fields using the pdfcpu library
type AcroFormExtractor struct {
	maxFileSize int64
}

// NewAcroFormExtractor creates a new AcroForm extractor
func NewAcroFormExtractor(maxFileSize int64) *AcroFormExtractor {
	return &AcroFormExtractor{maxFileSize: maxFileSize}
}

// Extract reads all named form fields from the PDF at path
func (e *AcroFormExtractor) Extract(path string) (FieldMap, error) {
	if err := validateFile(path, e.maxFileSize); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: err}
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: fmt.Errorf("failed to read PDF context: %w", err)}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &DocumentReadError{Path: path, Err: fmt.Errorf("failed to ensure page count: %w", err)}
	}

	fields, err := e.fieldsFromContext(ctx)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Err: err}
	}
	if len(fields) == 0 {
		return nil, &DocumentReadError{Path: path, Err: ErrNoFormFields}
	}

	return fields, nil
}

// fieldsFromContext walks the AcroForm Fields array of a pdfcpu context
func (e *AcroFormExtractor) fieldsFromContext(ctx *model.Context) (FieldMap, error) {
	fields := make(FieldMap)

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return fields, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return fields, nil
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fields, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for _, fieldRef := range fieldsArray {
		name, value, ok := e.processField(ctx, fieldRef)
		if ok {
			fields[name] = value
		}
	}

	return fields, nil
}

// processField resolves a single field dictionary to its name and value.
// Unnamed fields are dropped; the mapper can only address fields by name.
func (e *AcroFormExtractor) processField(ctx *model.Context, fieldObj types.Object) (string, Value, bool) {
	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil || fieldDict == nil {
		return "", Value{}, false
	}

	var name string
	if nameObj, found := fieldDict.Find("T"); found {
		if n, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			name = n
		}
	}
	if name == "" {
		return "", Value{}, false
	}

	fieldType := e.fieldType(ctx, fieldDict)

	valueObj, found := fieldDict.Find("V")
	if !found {
		// Absent V means the field was never filled in; report it as empty
		// so the mapper applies its documented default.
		return name, emptyValue(fieldType), true
	}

	return name, e.fieldValue(ctx, valueObj, fieldType), true
}

// fieldType determines the field type from the FT entry, consulting the
// parent hierarchy for inherited types
func (e *AcroFormExtractor) fieldType(ctx *model.Context, fieldDict types.Dict) FieldType {
	ftObj, found := fieldDict.Find("FT")
	if !found {
		if parentObj, found := fieldDict.Find("Parent"); found {
			if parentDict, err := ctx.DereferenceDict(parentObj); err == nil && parentDict != nil {
				return e.fieldType(ctx, parentDict)
			}
		}
		return FieldTypeUnknown
	}

	ftName, err := ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch ftName {
	case "Tx":
		return FieldTypeText
	case "Btn":
		return FieldTypeCheckbox
	case "Ch":
		return FieldTypeChoice
	default:
		return FieldTypeUnknown
	}
}

// fieldValue extracts the V entry according to the field type
func (e *AcroFormExtractor) fieldValue(ctx *model.Context, valueObj types.Object, fieldType FieldType) Value {
	switch fieldType {
	case FieldTypeCheckbox:
		if name, err := ctx.DereferenceName(valueObj, model.V10, nil); err == nil {
			return CheckboxValue(name == "Yes" || name == "On")
		}
		return CheckboxValue(false)
	case FieldTypeChoice:
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return ChoiceValue(val)
		}
		// Multi-select choice fields carry an array; use the first label.
		if arr, err := ctx.DereferenceArray(valueObj); err == nil && len(arr) > 0 {
			if val, err := ctx.DereferenceStringOrHexLiteral(arr[0], model.V10, nil); err == nil {
				return ChoiceValue(val)
			}
		}
		return ChoiceValue("")
	default:
		if val, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			return TextValue(val)
		}
		return TextValue("")
	}
}

func emptyValue(fieldType FieldType) Value {
	if fieldType == FieldTypeCheckbox {
		return CheckboxValue(false)
	}
	return Value{Type: fieldType}
}
