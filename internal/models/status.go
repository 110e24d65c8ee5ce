package models

import "strings"

// Phase tags the submission workflow state.
type Phase string

const (
	PhaseBuilding   Phase = "building"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

type PaymentTerms string

const (
	PaymentTermsImmediate PaymentTerms = "immediate"
	PaymentTermsCredit7   PaymentTerms = "credit-7"
	PaymentTermsCredit15  PaymentTerms = "credit-15"
	PaymentTermsCredit30  PaymentTerms = "credit-30"
)

var paymentTermLabels = map[PaymentTerms]string{
	PaymentTermsImmediate: "Immediate Cash",
	PaymentTermsCredit7:   "Credit - 7 days",
	PaymentTermsCredit15:  "Credit - 15 days",
	PaymentTermsCredit30:  "Credit - 30 days",
}

func (p PaymentTerms) Valid() bool {
	_, ok := paymentTermLabels[p]
	return ok
}

// Label is the option text shown in the payment terms selector.
func (p PaymentTerms) Label() string {
	return paymentTermLabels[p]
}

// Display is the confirmation-screen rendering, e.g. "credit 7".
func (p PaymentTerms) Display() string {
	return strings.Replace(string(p), "-", " ", 1)
}

func PaymentTermsOptions() []PaymentTerms {
	return []PaymentTerms{PaymentTermsImmediate, PaymentTermsCredit7, PaymentTermsCredit15, PaymentTermsCredit30}
}
