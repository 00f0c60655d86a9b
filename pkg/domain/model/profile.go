package model

import (
	"fmt"
	"strings"

	"github.com/quotelab/premia/pkg/domain/types"
)

// Default values applied when a profile field is absent. An explicitly set
// default must produce the same result as an omitted field, so all lookups
// go through Normalized() first.
const (
	DefaultAge           = 35
	DefaultMembers       = 1
	DefaultSumInsuredINR = 500000

	MinAge = 0
	MaxAge = 120
)

// ApplicantProfile is the applicant-supplied input for a quote. All fields
// are optional; absent fields resolve to documented defaults. The profile is
// created per request and discarded after the response.
type ApplicantProfile struct {
	Age                   *int              `json:"age,omitempty"`
	Gender                types.Gender      `json:"gender,omitempty"`
	Location              string            `json:"location,omitempty"`
	Members               *int              `json:"numberOfInsuredMembers,omitempty"`
	PreExistingConditions string            `json:"preExistingConditions,omitempty"`
	TobaccoUse            types.TobaccoUse  `json:"smokingTobaccoUse,omitempty"`
	SumInsuredINR         *int64            `json:"sumInsured,omitempty"`
	PlanType              types.PlanType    `json:"planType,omitempty"`
	PaymentMode           types.PaymentMode `json:"premiumPaymentMode,omitempty"`
}

// NormalizedProfile is an ApplicantProfile with every absence resolved to
// its default and out-of-range values clamped. It is the only form the
// pricing and refinement components consume.
type NormalizedProfile struct {
	Age            int
	Gender         types.Gender
	Location       string
	Members        int
	HasPreExisting bool
	TobaccoUse     types.TobaccoUse
	SumInsuredINR  int64
	PlanType       types.PlanType
	PaymentMode    types.PaymentMode
}

// Normalized resolves all absent fields to their defaults and clamps age
// into [MinAge, MaxAge]. Sum insured values at or below zero are kept as-is
// here; the pricing calculator applies its configured floor.
func (p ApplicantProfile) Normalized() NormalizedProfile {
	np := NormalizedProfile{
		Age:            DefaultAge,
		Gender:         p.Gender,
		Location:       strings.TrimSpace(p.Location),
		Members:        DefaultMembers,
		HasPreExisting: strings.TrimSpace(p.PreExistingConditions) != "",
		TobaccoUse:     p.TobaccoUse.Normalize(),
		SumInsuredINR:  DefaultSumInsuredINR,
		PlanType:       p.PlanType.Normalize(),
		PaymentMode:    p.PaymentMode.Normalize(),
	}

	if p.Age != nil {
		np.Age = clampInt(*p.Age, MinAge, MaxAge)
	}
	if p.Members != nil && *p.Members >= 1 {
		np.Members = *p.Members
	}
	if p.SumInsuredINR != nil {
		np.SumInsuredINR = *p.SumInsuredINR
	}

	return np
}

// QueryText renders the profile as the text representation used for
// embedding. Fields follow a fixed order and absent fields are omitted
// rather than replaced by placeholders, matching the representation built
// at ingestion time.
func (p ApplicantProfile) QueryText() string {
	var parts []string

	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("Age: %d", *p.Age))
	}
	if p.Gender != types.GenderUnknown {
		parts = append(parts, "Gender: "+p.Gender.String())
	}
	if loc := strings.TrimSpace(p.Location); loc != "" {
		parts = append(parts, "Location: "+loc)
	}
	if p.Members != nil {
		parts = append(parts, fmt.Sprintf("Family size: %d", *p.Members))
	}
	if cond := strings.TrimSpace(p.PreExistingConditions); cond != "" {
		parts = append(parts, "Pre-existing conditions: "+cond)
	}
	if p.TobaccoUse != "" {
		parts = append(parts, "Smoking/tobacco: "+p.TobaccoUse.String())
	}
	if p.PlanType != "" {
		parts = append(parts, "Plan type: "+p.PlanType.String())
	}
	if p.SumInsuredINR != nil {
		parts = append(parts, fmt.Sprintf("Sum insured: ₹%d", *p.SumInsuredINR))
	}
	if p.PaymentMode != "" {
		parts = append(parts, "Payment mode: "+p.PaymentMode.String())
	}

	if len(parts) == 0 {
		return "Health insurance quote request"
	}
	return strings.Join(parts, "; ")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
