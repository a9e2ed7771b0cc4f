package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup resolves to no row. Services translate
// it into their own NotFound signal; it never reaches the HTTP layer directly.
var ErrNotFound = errors.New("record not found")

type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	Update(ctx context.Context, e *model.Employee) error
	FindByDocumentID(ctx context.Context, documentID string) (*model.Employee, error)
	// FindByTag resolves the current holder of a tag. Archived employees never
	// hold tags, so a hit is always an active employee.
	FindByTag(ctx context.Context, rfidUID string) (*model.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]model.Employee, error)
	// ReassignTag strips rfidUID from its current holder (if any employee other
	// than keepDocumentID holds it) and archives that holder, atomically.
	// Returns the displaced employee, or nil when the tag was free.
	ReassignTag(ctx context.Context, rfidUID, keepDocumentID string, now time.Time) (*model.Employee, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *employeeRepo) FindByDocumentID(ctx context.Context, documentID string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Where("document_id = ?", model.NormalizeDocumentID(documentID)).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) FindByTag(ctx context.Context, rfidUID string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Where("rfid_uid = ? AND archived_at IS NULL", rfidUID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) List(ctx context.Context, activeOnly bool) ([]model.Employee, error) {
	var employees []model.Employee
	q := r.db.WithContext(ctx).Order("document_id ASC")
	if activeOnly {
		q = q.Where("rfid_uid IS NOT NULL AND archived_at IS NULL")
	}
	err := q.Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) ReassignTag(ctx context.Context, rfidUID, keepDocumentID string, now time.Time) (*model.Employee, error) {
	var displaced *model.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holder model.Employee
		err := tx.Where("rfid_uid = ? AND document_id <> ?", rfidUID, keepDocumentID).
			First(&holder).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		holder.RFIDUID = nil
		holder.ArchivedAt = &now
		if err := tx.Save(&holder).Error; err != nil {
			return err
		}
		displaced = &holder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return displaced, nil
}
