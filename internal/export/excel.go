package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reservas/internal/models"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Reservaciones"

// ToExcel writes the reservation list as an XLSX workbook under dir and
// returns the file path.
func ToExcel(reservations []models.Reservation, dir, brand string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	for i, header := range csvHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(excelSheetName, cell, header)
		_ = f.SetCellStyle(excelSheetName, cell, cell, headerStyle)
	}

	for i, r := range reservations {
		row := i + 2
		submitted := ""
		if !r.SubmittedAt.IsZero() {
			submitted = r.SubmittedAt.Format(displayTimeLayout)
		}
		values := []interface{}{
			r.ID,
			r.FullName,
			r.Email,
			r.Phone,
			r.CheckIn,
			r.CheckOut,
			r.Adults,
			r.Children,
			orNinguna(r.Allergies),
			orNinguna(r.Diet),
			models.FormatOccasion(r.Occasion),
			r.Preferences,
			submitted,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(excelSheetName, cell, value)
		}
	}

	_ = f.SetColWidth(excelSheetName, "A", "A", 16)
	_ = f.SetColWidth(excelSheetName, "B", "D", 22)
	_ = f.SetColWidth(excelSheetName, "E", "H", 12)
	_ = f.SetColWidth(excelSheetName, "I", "M", 24)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservaciones_%s_%d.xlsx", brand, time.Now().UnixMilli())
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return filePath, nil
}
