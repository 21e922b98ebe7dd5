package ai

import (
	"strings"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
)

// DietaryPreference is one of a fixed set of restrictions passed through to
// the prompt. The zero value is DietNone.
type DietaryPreference int

const (
	DietNone DietaryPreference = iota
	DietVegetarian
	DietVegan
	DietGlutenFree
	DietLowCarb
	DietKeto
)

var dietaryNames = [...]string{
	DietNone:       "None",
	DietVegetarian: "Vegetarian",
	DietVegan:      "Vegan",
	DietGlutenFree: "Gluten-Free",
	DietLowCarb:    "Low-Carb",
	DietKeto:       "Keto",
}

// DietaryPreferences lists every preference in selector order.
func DietaryPreferences() []DietaryPreference {
	return []DietaryPreference{DietNone, DietVegetarian, DietVegan, DietGlutenFree, DietLowCarb, DietKeto}
}

// String returns the display name used in the prompt and the UI.
func (p DietaryPreference) String() string {
	if p < 0 || int(p) >= len(dietaryNames) {
		return dietaryNames[DietNone]
	}
	return dietaryNames[p]
}

// ParseDietaryPreference maps a display name (any case) to its value.
// The empty string is DietNone.
func ParseDietaryPreference(s string) (DietaryPreference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DietNone, nil
	}
	for i, name := range dietaryNames {
		if strings.EqualFold(s, name) {
			return DietaryPreference(i), nil
		}
	}
	return DietNone, apperrors.NewInputError(
		"unknown dietary preference: "+s,
		"INVALID_DIETARY_PREFERENCE",
		"Choose one of: "+strings.Join(dietaryNames[:], ", "),
	)
}

func (p DietaryPreference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *DietaryPreference) UnmarshalText(b []byte) error {
	v, err := ParseDietaryPreference(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
