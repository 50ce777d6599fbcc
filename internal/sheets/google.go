package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleWriter writes cell values into a Google Spreadsheet located by name,
// authenticated with a service-account credential file. The session is
// acquired once at construction and passed explicitly for the rest of the
// run.
type GoogleWriter struct {
	service       *gsheets.Service
	spreadsheetID string
}

// NewGoogleWriter authenticates with the credential file and resolves the
// named spreadsheet to its document ID via the Drive API. Credential
// problems surface as AuthError; a missing or ambiguous document as
// WriteError.
func NewGoogleWriter(ctx context.Context, credentialsFile, spreadsheetName string) (*GoogleWriter, error) {
	sheetsService, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveMetadataReadonlyScope))
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	id, err := findSpreadsheetID(ctx, driveService, spreadsheetName)
	if err != nil {
		return nil, err
	}

	return &GoogleWriter{service: sheetsService, spreadsheetID: id}, nil
}

// Write issues one batched values update for all cells
func (w *GoogleWriter) Write(ctx context.Context, writes []CellWrite) error {
	if len(writes) == 0 {
		return nil
	}

	data := make([]*gsheets.ValueRange, 0, len(writes))
	for _, cw := range writes {
		data = append(data, &gsheets.ValueRange{
			Range:  cw.Ref.A1(),
			Values: [][]any{{cw.Value}},
		})
	}

	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	if _, err := w.service.Spreadsheets.Values.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify(err)
	}

	return nil
}

// findSpreadsheetID resolves a spreadsheet name to its document ID
func findSpreadsheetID(ctx context.Context, driveService *drive.Service, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, `'`, `\'`))

	list, err := driveService.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(2).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify(err)
	}

	switch len(list.Files) {
	case 0:
		return "", &WriteError{Err: fmt.Errorf("no spreadsheet named %q is shared with the service account", name)}
	case 1:
		return list.Files[0].Id, nil
	default:
		return "", &WriteError{Err: fmt.Errorf("spreadsheet name %q is ambiguous", name)}
	}
}

// classify maps a Google API failure onto the error taxonomy. Credential
// rejections are AuthError, everything else is WriteError.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return &AuthError{Err: err}
		}
	}
	return &WriteError{Err: err}
}
