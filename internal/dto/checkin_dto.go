package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ScanRequest is posted by readers (or the admin panel's mock scan).
type ScanRequest struct {
	RFIDUID string `json:"rfid_uid" validate:"required,min=1,max=64"`
}

type ManualCheckInRequest struct {
	DocumentID string `json:"document_id" validate:"required,min=1,max=40"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CheckInResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Type         string `json:"type"` // entry | exit
	Timestamp    string `json:"timestamp"`
	Message      string `json:"message,omitempty"`
}
