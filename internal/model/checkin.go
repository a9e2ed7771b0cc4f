package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckType is the closed set of check-in event kinds. Core code only ever
// constructs the two constants below; anything else found in storage is data
// corruption, not a third state.
type CheckType string

const (
	CheckTypeEntry CheckType = "entry"
	CheckTypeExit  CheckType = "exit"
)

// Opposite returns the alternating successor type.
func (t CheckType) Opposite() CheckType {
	if t == CheckTypeEntry {
		return CheckTypeExit
	}
	return CheckTypeEntry
}

// CheckIn is an immutable attendance event. Records are created and read,
// never updated — corrections happen by appending, retention cleanup deletes
// in bulk after expiry.
type CheckIn struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// EmployeeID holds the normalized DocumentID of the employee.
	EmployeeID string    `gorm:"index;not null"`
	Type       CheckType `gorm:"type:varchar(10);not null"`
	// Timestamp is set server-side at creation, never client-supplied.
	Timestamp time.Time `gorm:"index;not null"`
}

func (CheckIn) TableName() string { return "checkins" }
