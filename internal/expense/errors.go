package expense

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID has no stored state
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidProfile is returned when a payee profile fails validation
	ErrInvalidProfile = errors.New("invalid payee profile")

	// ErrProfileLocked is returned when a profile update arrives after a
	// report has already been generated for the session
	ErrProfileLocked = errors.New("profile is locked after report generation")

	// ErrNoProfile is returned when a report is requested before the payee
	// profile was set
	ErrNoProfile = errors.New("payee profile not set")

	// ErrNoExpenses is returned when a report is requested for an empty ledger
	ErrNoExpenses = errors.New("no expenses recorded")

	// ErrNothingPending is returned when a confirmation arrives without a
	// prior successful analysis
	ErrNothingPending = errors.New("no pending extraction to confirm")

	// ErrInvalidCategory is returned for categories outside the closed list
	ErrInvalidCategory = errors.New("invalid expense category")

	// ErrInvalidAmount is returned for negative amounts on confirmation
	ErrInvalidAmount = errors.New("amount must be non-negative")
)
