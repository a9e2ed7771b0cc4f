package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AssignPendingRequest binds the pending scanned tag to an employee.
type AssignPendingRequest struct {
	DocumentID string `json:"document_id" validate:"required,min=1,max=40"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PendingResponse struct {
	Pending   bool   `json:"pending"`
	RFIDUID   string `json:"rfid_uid,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ─── Config DTOs ─────────────────────────────────────────────────────────────

type SetConfigRequest struct {
	Value string `json:"value" validate:"required"`
}

type ConfigEntryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
