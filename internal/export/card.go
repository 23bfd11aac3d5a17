package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"reservas/internal/models"
)

// cardTemplate renders one reservation as dashboard markup. html/template's
// contextual escaping neutralizes every user-supplied string; this is the one
// correctness-critical contract of the display layer.
var cardTemplate = template.Must(template.New("card").Parse(`<div class="client-card">
  <div class="client-header">
    <div class="client-name">{{.FullName}}</div>
    <div class="client-date">Registrado: {{.Submitted}}</div>
    <span class="badge badge-success">Activa</span>
  </div>
  <div class="client-info">
    <div class="info-item"><span class="info-label">Email:</span> <a href="mailto:{{.Email}}">{{.Email}}</a></div>
    <div class="info-item"><span class="info-label">Teléfono:</span> <a href="tel:{{.Phone}}">{{.Phone}}</a></div>
    <div class="info-item"><span class="info-label">Ocasión:</span> {{.Occasion}}</div>
    <div class="info-item"><span class="info-label">Check-In:</span> {{.CheckIn}}</div>
    <div class="info-item"><span class="info-label">Check-Out:</span> {{.CheckOut}}</div>
    <div class="info-item"><span class="info-label">Personas:</span> {{.Adults}} adultos, {{.Children}} niños</div>
  </div>
  <div class="tags tags-allergy">{{range .Allergies}}<span class="tag tag-allergy">{{.}}</span>{{else}}<span class="tag">Sin alergias</span>{{end}}</div>
  <div class="tags tags-diet">{{range .Diet}}<span class="tag tag-diet">{{.}}</span>{{else}}<span class="tag">Sin restricciones</span>{{end}}</div>
{{if .Preferences}}  <div class="preferences">{{.Preferences}}</div>
{{end}}</div>`))

type cardData struct {
	FullName    string
	Email       string
	Phone       string
	Occasion    string
	CheckIn     string
	CheckOut    string
	Adults      int
	Children    int
	Allergies   []string
	Diet        []string
	Preferences string
	Submitted   string
}

// ToDisplayCard renders a sanitized card for one reservation.
func ToDisplayCard(r models.Reservation) (string, error) {
	data := cardData{
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		Occasion:    orNA(models.FormatOccasion(r.Occasion)),
		CheckIn:     formatLongDate(r.CheckIn),
		CheckOut:    formatLongDate(r.CheckOut),
		Adults:      r.Adults,
		Children:    r.Children,
		Allergies:   r.Allergies,
		Diet:        r.Diet,
		Preferences: r.Preferences,
		Submitted:   "N/A",
	}
	if !r.SubmittedAt.IsZero() {
		data.Submitted = r.SubmittedAt.Format(displayTimeLayout)
	}

	var b strings.Builder
	if err := cardTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render card: %w", err)
	}
	return b.String(), nil
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatLongDate renders a calendar date the way the dashboard shows it,
// e.g. "1 de junio de 2025". Malformed or empty dates show as N/A.
func formatLongDate(value string) string {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return "N/A"
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
