package types

import (
	"fmt"
	"strings"
)

// PaymentMode represents how often premium installments are paid
type PaymentMode string

const (
	PaymentModeYearly     PaymentMode = "Yearly"
	PaymentModeHalfYearly PaymentMode = "Half-Yearly"
	PaymentModeQuarterly  PaymentMode = "Quarterly"
	PaymentModeMonthly    PaymentMode = "Monthly"
)

// AllPaymentModes returns all valid payment modes
func AllPaymentModes() []PaymentMode {
	return []PaymentMode{
		PaymentModeYearly,
		PaymentModeHalfYearly,
		PaymentModeQuarterly,
		PaymentModeMonthly,
	}
}

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeYearly,
		PaymentModeHalfYearly,
		PaymentModeQuarterly,
		PaymentModeMonthly:
		return true
	default:
		return false
	}
}

// Normalize returns the payment mode, treating empty as PaymentModeYearly
func (m PaymentMode) Normalize() PaymentMode {
	if m == "" {
		return PaymentModeYearly
	}
	return m
}

// InstallmentsPerYear returns the number of installments paid per year
// under this payment mode
func (m PaymentMode) InstallmentsPerYear() int {
	switch m {
	case PaymentModeHalfYearly:
		return 2
	case PaymentModeQuarterly:
		return 4
	case PaymentModeMonthly:
		return 12
	default:
		return 1
	}
}

// String returns the string representation of the payment mode
func (m PaymentMode) String() string {
	return string(m)
}

// ParsePaymentMode parses a string into a PaymentMode (case-insensitive,
// empty maps to the Yearly default)
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PaymentModeYearly, nil
	case "yearly", "annual", "annually":
		return PaymentModeYearly, nil
	case "half-yearly", "halfyearly", "half yearly":
		return PaymentModeHalfYearly, nil
	case "quarterly":
		return PaymentModeQuarterly, nil
	case "monthly":
		return PaymentModeMonthly, nil
	default:
		return "", fmt.Errorf("invalid payment mode: %s", s)
	}
}
