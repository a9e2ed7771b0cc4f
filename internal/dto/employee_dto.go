package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpsertEmployeeRequest struct {
	DocumentID string  `json:"document_id" validate:"required,min=1,max=40"`
	Name       string  `json:"name"        validate:"required,min=1,max=200"`
	RFIDUID    *string `json:"rfid_uid"    validate:"omitempty,min=1,max=64"`
}

// AssignTagRequest with a null rfid_uid removes the tag and archives the
// employee.
type AssignTagRequest struct {
	RFIDUID *string `json:"rfid_uid" validate:"omitempty,min=1,max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EmployeeResponse struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	RFIDUID    *string `json:"rfid_uid"`
	ArchivedAt *string `json:"archived_at"` // RFC 3339, null when active
}
