package export

import (
	"fmt"
	"strings"

	"reservas/internal/models"
)

const displayTimeLayout = "02/01/2006 15:04"

// ToClipboardText renders a human-readable dump, one labeled block per
// record. Absent values show the localized placeholders.
func ToClipboardText(reservations []models.Reservation, brand string) string {
	var b strings.Builder

	title := strings.ToUpper(strings.ReplaceAll(brand, "_", " "))
	fmt.Fprintf(&b, "=== RESERVACIONES %s ===\n\n", title)

	for i, r := range reservations {
		fmt.Fprintf(&b, "--- Reservación #%d ---\n", i+1)
		fmt.Fprintf(&b, "Nombre: %s\n", orNA(r.FullName))
		fmt.Fprintf(&b, "Email: %s\n", orNA(r.Email))
		fmt.Fprintf(&b, "Teléfono: %s\n", orNA(r.Phone))
		fmt.Fprintf(&b, "Check-In: %s\n", orNA(r.CheckIn))
		fmt.Fprintf(&b, "Check-Out: %s\n", orNA(r.CheckOut))
		fmt.Fprintf(&b, "Personas: %d adultos, %d niños\n", r.Adults, r.Children)
		fmt.Fprintf(&b, "Alergias: %s\n", orNinguna(r.Allergies))
		fmt.Fprintf(&b, "Dieta: %s\n", orNinguna(r.Diet))
		fmt.Fprintf(&b, "Ocasión: %s\n", models.FormatOccasion(r.Occasion))
		if r.Preferences != "" {
			fmt.Fprintf(&b, "Preferencias: %s\n", r.Preferences)
		}
		registered := "N/A"
		if !r.SubmittedAt.IsZero() {
			registered = r.SubmittedAt.Format(displayTimeLayout)
		}
		fmt.Fprintf(&b, "Registrado: %s\n\n", registered)
	}

	return b.String()
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func orNinguna(values []string) string {
	if len(values) == 0 {
		return "Ninguna"
	}
	return strings.Join(values, ", ")
}
