package model

import "time"

// Return request statuses. Transitions are strictly forward:
// PENDING -> APPROVED -> COMPLETED.
const (
	RequestStatusPending   = "PENDING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusCompleted = "COMPLETED"
)

// Return request priorities. HIGH is derived at creation time when
// any selected drum is already overdue.
const (
	RequestPriorityNormal = "NORMAL"
	RequestPriorityHigh   = "HIGH"
)

// ReturnRequest records a client's pickup request for one or more
// drums. DrumCodes is an opaque ordered list (stored as JSON, no
// foreign keys; the inventory it points into is rebuilt daily).
// Requests are created by clients, moved through statuses by admins
// and never deleted.
type ReturnRequest struct {
	ID            uint64    `json:"id"`
	NIP           string    `json:"nip"`
	DrumCodes     []string  `json:"drum_codes"`
	Street        string    `json:"street"`
	PostalCode    string    `json:"postal_code"`
	City          string    `json:"city"`
	ContactPerson string    `json:"contact_person"`
	ContactPhone  string    `json:"contact_phone"`
	PreferredDate string    `json:"preferred_date"` // ISO date requested by the client, may be empty
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
