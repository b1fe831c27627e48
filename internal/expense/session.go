package expense

import (
	"time"

	"github.com/lucasvieira/reembolso/internal/scanning"
)

// Session is the per-user context carried across interactions. Exactly one
// user owns a session; there is no concurrent mutation within one. The
// single-receipt flow parks its extractor output in Pending/PendingImage
// until the user confirms; the multi-receipt flow appends straight to the
// Ledger.
type Session struct {
	ID              string                     `json:"id"`
	Profile         *PayeeProfile              `json:"profile,omitempty"`
	Ledger          Ledger                     `json:"ledger"`
	Pending         *scanning.ExtractionResult `json:"pending,omitempty"`
	PendingImage    []byte                     `json:"pending_image,omitempty"`
	ReportGenerated bool                       `json:"report_generated"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}
