package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reservas/internal/models"
)

// csvHeaders is the fixed 13-column schema of the reservation export.
var csvHeaders = []string{
	"ID", "Nombre", "Email", "Teléfono",
	"Check-In", "Check-Out", "Adultos", "Niños",
	"Alergias", "Restricciones Dietéticas", "Ocasión",
	"Preferencias", "Fecha de Registro",
}

const multiValueSeparator = "; "

// ToCSV renders the reservation list as UTF-8 CSV with RFC-4180 quoting.
// Fecha de Registro is RFC3339 so the export stays machine-reversible.
func ToCSV(reservations []models.Reservation) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range reservations {
		submitted := ""
		if !r.SubmittedAt.IsZero() {
			submitted = r.SubmittedAt.Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.FullName,
			r.Email,
			r.Phone,
			r.CheckIn,
			r.CheckOut,
			strconv.Itoa(r.Adults),
			strconv.Itoa(r.Children),
			strings.Join(r.Allergies, multiValueSeparator),
			strings.Join(r.Diet, multiValueSeparator),
			models.FormatOccasion(r.Occasion),
			r.Preferences,
			submitted,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVFilename follows the original download naming scheme.
func CSVFilename(brand string, now time.Time) string {
	return fmt.Sprintf("reservaciones_%s_%d.csv", brand, now.UnixMilli())
}

// occasionKeys reverses the display vocabulary; labels outside it pass
// through unchanged, mirroring FormatOccasion.
var occasionKeys = map[string]string{
	"Cumpleaños":         "cumpleanos",
	"Aniversario":        "aniversario",
	"Luna de Miel":       "luna_miel",
	"Compromiso":         "compromiso",
	"Evento Corporativo": "corporativo",
	"Otro":               "otro",
}

// FromCSV parses a document produced by ToCSV back into records.
func FromCSV(data []byte) ([]models.Reservation, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(csvHeaders)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: missing header row")
	}

	reservations := make([]models.Reservation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse csv id %q: %w", row[0], err)
		}
		adults, err := strconv.Atoi(row[6])
		if err != nil {
			return nil, fmt.Errorf("parse csv adults %q: %w", row[6], err)
		}
		children, err := strconv.Atoi(row[7])
		if err != nil {
			return nil, fmt.Errorf("parse csv children %q: %w", row[7], err)
		}

		var submitted time.Time
		if row[12] != "" {
			submitted, err = time.Parse(time.RFC3339, row[12])
			if err != nil {
				return nil, fmt.Errorf("parse csv submitted_at %q: %w", row[12], err)
			}
		}

		occasion := row[10]
		if key, ok := occasionKeys[occasion]; ok {
			occasion = key
		}

		reservations = append(reservations, models.Reservation{
			ID:          id,
			FullName:    row[1],
			Email:       row[2],
			Phone:       row[3],
			CheckIn:     row[4],
			CheckOut:    row[5],
			Adults:      adults,
			Children:    children,
			Allergies:   splitMultiValue(row[8]),
			Diet:        splitMultiValue(row[9]),
			Occasion:    occasion,
			Preferences: row[11],
			SubmittedAt: submitted,
			Status:      models.StatusPending,
		})
	}
	return reservations, nil
}

func splitMultiValue(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, multiValueSeparator)
}
