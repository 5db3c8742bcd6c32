package entity

// OutcomeStatus is the settlement status reported to the storefront.
type OutcomeStatus string

const (
	OutcomeStatusSucceeded OutcomeStatus = "succeeded"
	OutcomeStatusFailed    OutcomeStatus = "failed"
)

// CheckoutOutcome is the terminal result of a checkout that reached the
// confirmation step. Success implies both PaymentID and TransactionID are set.
type CheckoutOutcome struct {
	Success       bool          `json:"success"`
	PaymentID     string        `json:"payment_id"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Status        OutcomeStatus `json:"status"`
	Message       string        `json:"message"`
	RedirectURL   string        `json:"redirect_url"`
}

// Stage names a step of the checkout pipeline.
type Stage string

const (
	StageValidating Stage = "validating"
	StageCreating   Stage = "creating"
	StageConfirming Stage = "confirming"
	StageSucceeded  Stage = "succeeded"
	StageDeclined   Stage = "declined"
	StageFailed     Stage = "failed"
)

// IsTerminal reports whether no further stage follows s.
func (s Stage) IsTerminal() bool {
	return s == StageSucceeded || s == StageDeclined || s == StageFailed
}
