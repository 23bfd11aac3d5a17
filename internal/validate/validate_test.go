package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		FullName: "Ana Ruiz",
		Email:    "ana@example.com",
		Phone:    "+52 55 1234 5678",
		CheckIn:  "2026-09-10",
		CheckOut: "2026-09-12",
		Adults:   2,
	}
}

func TestCheckValidSubmission(t *testing.T) {
	result := Check(validSubmission())
	require.True(t, result.Valid)
	assert.Empty(t, result.FieldErrors)
}

func TestCheckFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{
			name:   "short name",
			mutate: func(s *Submission) { s.FullName = "Al" },
			field:  "fullName",
		},
		{
			name:   "name of spaces only",
			mutate: func(s *Submission) { s.FullName = "   a   " },
			field:  "fullName",
		},
		{
			name:   "email without at sign",
			mutate: func(s *Submission) { s.Email = "ana.example.com" },
			field:  "email",
		},
		{
			name:   "email without domain dot",
			mutate: func(s *Submission) { s.Email = "ana@example" },
			field:  "email",
		},
		{
			name:   "email with space",
			mutate: func(s *Submission) { s.Email = "ana ruiz@example.com" },
			field:  "email",
		},
		{
			name:   "phone too short",
			mutate: func(s *Submission) { s.Phone = "1234567" },
			field:  "phone",
		},
		{
			name:   "phone with letters",
			mutate: func(s *Submission) { s.Phone = "55-CALL-NOW" },
			field:  "phone",
		},
		{
			name:   "missing check-in",
			mutate: func(s *Submission) { s.CheckIn = "" },
			field:  "checkIn",
		},
		{
			name:   "malformed check-in",
			mutate: func(s *Submission) { s.CheckIn = "10/09/2026" },
			field:  "checkIn",
		},
		{
			name:   "missing check-out",
			mutate: func(s *Submission) { s.CheckOut = "" },
			field:  "checkOut",
		},
		{
			name:   "check-out equal to check-in",
			mutate: func(s *Submission) { s.CheckOut = s.CheckIn },
			field:  "checkOut",
		},
		{
			name: "check-out before check-in",
			mutate: func(s *Submission) {
				s.CheckIn = "2026-09-12"
				s.CheckOut = "2026-09-10"
			},
			field: "checkOut",
		},
		{
			name:   "zero adults",
			mutate: func(s *Submission) { s.Adults = 0 },
			field:  "adults",
		},
		{
			name:   "negative children",
			mutate: func(s *Submission) { s.Children = -1 },
			field:  "children",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)

			result := Check(s)
			require.False(t, result.Valid)
			assert.Contains(t, result.FieldErrors, tt.field)
		})
	}
}

func TestCheckPhoneAllowsFormattingCharacters(t *testing.T) {
	s := validSubmission()
	s.Phone = "+1 (555) 123-4567"

	result := Check(s)
	require.True(t, result.Valid)
}

func TestCheckCollectsAllFailures(t *testing.T) {
	result := Check(Submission{})
	require.False(t, result.Valid)

	for _, field := range []string{"fullName", "email", "phone", "checkIn", "checkOut", "adults"} {
		assert.Contains(t, result.FieldErrors, field)
	}
}

func TestCheckOptionalFieldsNotValidated(t *testing.T) {
	s := validSubmission()
	s.Allergies = nil
	s.Diet = nil
	s.Occasion = ""
	s.Preferences = ""

	result := Check(s)
	require.True(t, result.Valid)
}
