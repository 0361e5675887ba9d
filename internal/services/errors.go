package services

import (
	"errors"
	"fmt"
)

// ErrSignatureInvalid marks a gateway callback that failed signature
// verification. Callers must not act on any field of such a callback.
var ErrSignatureInvalid = errors.New("gateway callback signature invalid")

// ValidationError reports missing or invalid caller-supplied identifiers
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataIntegrityError reports a PAID callback for which neither an order nor
// an intent exists: a forged reference, or an intent lost to expiry. It must
// be logged at high severity and never silently swallowed.
type DataIntegrityError struct {
	TxnRef string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("no payment intent or order for paid transaction %q", e.TxnRef)
}

// PreconditionReason identifies which approval precondition failed
type PreconditionReason string

const (
	ReasonNotFound           PreconditionReason = "not_found"
	ReasonNotPaid            PreconditionReason = "not_paid"
	ReasonAlreadyProvisioned PreconditionReason = "already_provisioned"
)

// PreconditionError reports an approval attempted in the wrong order state
type PreconditionError struct {
	Reason  PreconditionReason
	OrderID uint
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("order %d: %s", e.OrderID, e.Reason)
}
