// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and the log-writing consumer.
package queue

// ReturnRequestCreatedEvent is published when a client submits a
// pickup request. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ReturnRequestCreatedEvent struct {
	RequestID   uint64   `json:"request_id"`
	NIP         string   `json:"nip"`
	CompanyName string   `json:"company_name"`
	DrumCodes   []string `json:"drum_codes"`
	Priority    string   `json:"priority"`
	City        string   `json:"city"`
	CreatedAt   string   `json:"created_at"`
}

// InventoryImportedEvent is published after a successful bulk import
// replaced the drum inventory.
type InventoryImportedEvent struct {
	RequestID  string `json:"request_id"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	FinishedAt string `json:"finished_at"`
}
