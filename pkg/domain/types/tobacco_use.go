package types

import (
	"fmt"
	"strings"
)

// TobaccoUse represents the smoking/tobacco habit of an applicant
type TobaccoUse string

const (
	TobaccoUseNo         TobaccoUse = "No"
	TobaccoUseOccasional TobaccoUse = "Occasional"
	TobaccoUseYes        TobaccoUse = "Yes"
)

// AllTobaccoUses returns all valid tobacco use values
func AllTobaccoUses() []TobaccoUse {
	return []TobaccoUse{
		TobaccoUseNo,
		TobaccoUseOccasional,
		TobaccoUseYes,
	}
}

// IsValid checks if the tobacco use value is valid
func (t TobaccoUse) IsValid() bool {
	switch t {
	case TobaccoUseNo, TobaccoUseOccasional, TobaccoUseYes:
		return true
	default:
		return false
	}
}

// Normalize returns the tobacco use, treating empty as TobaccoUseNo
func (t TobaccoUse) Normalize() TobaccoUse {
	if t == "" {
		return TobaccoUseNo
	}
	return t
}

// String returns the string representation of the tobacco use
func (t TobaccoUse) String() string {
	return string(t)
}

// ParseTobaccoUse parses a string into a TobaccoUse (case-insensitive,
// empty and common negatives map to the No default)
func ParseTobaccoUse(s string) (TobaccoUse, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "false", "never":
		return TobaccoUseNo, nil
	case "occasional", "occasionally":
		return TobaccoUseOccasional, nil
	case "yes", "true", "regular":
		return TobaccoUseYes, nil
	default:
		return "", fmt.Errorf("invalid tobacco use: %s", s)
	}
}
