package types

import (
	"fmt"
	"strings"
)

// Gender represents the gender of an applicant
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderOther   Gender = "Other"
)

// AllGenders returns all valid gender values, excluding the unknown default
func AllGenders() []Gender {
	return []Gender{
		GenderMale,
		GenderFemale,
		GenderOther,
	}
}

// IsValid checks if the gender is valid
func (g Gender) IsValid() bool {
	switch g {
	case GenderUnknown,
		GenderMale,
		GenderFemale,
		GenderOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the gender
func (g Gender) String() string {
	return string(g)
}

// ParseGender parses a string into a Gender. Matching is case-insensitive
// and an empty string maps to GenderUnknown.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnknown, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	default:
		return GenderUnknown, fmt.Errorf("invalid gender: %s", s)
	}
}
