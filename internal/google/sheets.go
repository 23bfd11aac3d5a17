// Package google mirrors the reservation collection to a Google
// Spreadsheet owned by the operator. The sheet is a read-only copy; the
// local store stays the source of truth.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"reservas/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const reservationsSheet = "Reservaciones"

var sheetHeaders = []interface{}{
	"ID", "Nombre", "Email", "Teléfono",
	"Check-In", "Check-Out", "Adultos", "Niños",
	"Alergias", "Restricciones Dietéticas", "Ocasión",
	"Preferencias", "Fecha de Registro",
}

type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsService authenticates with a service account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	client := config.Client(ctx)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsService{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection reads the header cell to verify the spreadsheet is
// reachable and shared with the service account.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, reservationsSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// ServiceAccountEmail extracts the account email from the credentials file,
// so operators know which address to share the spreadsheet with.
func ServiceAccountEmail(credentialsFile string) (string, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// ReplaceReservationsSheet clears the sheet and rewrites it from the full
// collection. Full replacement keeps the mirror consistent after bulk
// deletions without tracking per-row positions.
func (s *SheetsService) ReplaceReservationsSheet(ctx context.Context, reservations []models.Reservation) error {
	clearRange := reservationsSheet + "!A:M"
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear reservations sheet: %w", err)
	}

	values := [][]interface{}{sheetHeaders}
	for _, r := range reservations {
		values = append(values, reservationRowValues(r))
	}

	rangeData := fmt.Sprintf("%s!A1:M%d", reservationsSheet, len(values))
	valueRange := &sheets.ValueRange{Values: values}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update reservations sheet: %w", err)
	}
	return nil
}

func reservationRowValues(r models.Reservation) []interface{} {
	submitted := ""
	if !r.SubmittedAt.IsZero() {
		submitted = r.SubmittedAt.Format("2006-01-02 15:04:05")
	}
	return []interface{}{
		r.ID,
		r.FullName,
		r.Email,
		r.Phone,
		r.CheckIn,
		r.CheckOut,
		r.Adults,
		r.Children,
		strings.Join(r.Allergies, "; "),
		strings.Join(r.Diet, "; "),
		models.FormatOccasion(r.Occasion),
		r.Preferences,
		submitted,
	}
}
