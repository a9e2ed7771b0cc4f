package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an append-only record of an administrative mutation.
// Entries are never updated or deleted by normal operation.
type AuditEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Timestamp time.Time `gorm:"index;not null"`
	// Actor is the admin username that performed the action.
	Actor string `gorm:"not null"`
	// Action: create_employee | update_employee | assign_rfid | reassign_rfid |
	// archive_employee | restore_employee | manual_checkin | set_config
	Action  string `gorm:"type:varchar(40);index;not null"`
	Details string
}

func (AuditEntry) TableName() string { return "audit_entries" }
