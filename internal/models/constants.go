package models

const (
	StatusPending = "pending"
)

const (
	DefaultSessionTTL  = 43200 // seconds; half a day of dashboard access
	DefaultMinPassword = 8
)

// occasionLabels is the closed display vocabulary for the occasion field.
// Unknown keys intentionally pass through unchanged.
var occasionLabels = map[string]string{
	"cumpleanos":  "Cumpleaños",
	"aniversario": "Aniversario",
	"luna_miel":   "Luna de Miel",
	"compromiso":  "Compromiso",
	"corporativo": "Evento Corporativo",
	"otro":        "Otro",
}

// FormatOccasion maps an occasion key to its display label.
func FormatOccasion(key string) string {
	if label, ok := occasionLabels[key]; ok {
		return label
	}
	return key
}
