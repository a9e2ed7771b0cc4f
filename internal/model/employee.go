package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is identified by DocumentID (national document number), stored
// trimmed and uppercased. RFIDUID is the physical badge currently assigned;
// at most one non-archived employee may hold a given tag at any time.
// An archived employee never holds a tag — archiving clears it.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentID string    `gorm:"uniqueIndex;not null"`
	Name       string    `gorm:"not null"`
	RFIDUID    *string   `gorm:"column:rfid_uid;uniqueIndex"`
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string { return "employees" }

// Archived reports whether the employee has been soft-deleted.
func (e *Employee) Archived() bool { return e.ArchivedAt != nil }

// NormalizeDocumentID canonicalizes a document id for storage and lookup.
// All comparisons in the system go through this.
func NormalizeDocumentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
