package types

import (
	"fmt"
	"strings"
)

// PlanType represents the coverage plan type of a policy
type PlanType string

const (
	PlanTypeIndividual PlanType = "Individual"
	PlanTypeFamily     PlanType = "Family"
)

// AllPlanTypes returns all valid plan types
func AllPlanTypes() []PlanType {
	return []PlanType{
		PlanTypeIndividual,
		PlanTypeFamily,
	}
}

// IsValid checks if the plan type is valid
func (p PlanType) IsValid() bool {
	switch p {
	case PlanTypeIndividual, PlanTypeFamily:
		return true
	default:
		return false
	}
}

// Normalize returns the plan type, treating empty as PlanTypeIndividual
func (p PlanType) Normalize() PlanType {
	if p == "" {
		return PlanTypeIndividual
	}
	return p
}

// String returns the string representation of the plan type
func (p PlanType) String() string {
	return string(p)
}

// ParsePlanType parses a string into a PlanType (case-insensitive, empty
// maps to the Individual default)
func ParsePlanType(s string) (PlanType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PlanTypeIndividual, nil
	case "individual":
		return PlanTypeIndividual, nil
	case "family":
		return PlanTypeFamily, nil
	default:
		return "", fmt.Errorf("invalid plan type: %s", s)
	}
}
