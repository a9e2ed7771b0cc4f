package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"

	"gorm.io/gorm"
)

type CheckInRepository interface {
	Insert(ctx context.Context, c *model.CheckIn) error
	// Last returns the most recent event for an employee, or ErrNotFound when
	// the employee has no history.
	Last(ctx context.Context, employeeID string) (*model.CheckIn, error)
	// ListByEmployee returns events ascending by timestamp, bounded inclusively
	// by start/end when non-nil.
	ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]model.CheckIn, error)
	// ListRecent returns the newest events first, across all employees when
	// employeeID is empty.
	ListRecent(ctx context.Context, employeeID string, limit int) ([]model.CheckIn, error)
}

type checkInRepo struct{ db *gorm.DB }

func NewCheckInRepository(db *gorm.DB) CheckInRepository { return &checkInRepo{db: db} }

func (r *checkInRepo) Insert(ctx context.Context, c *model.CheckIn) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *checkInRepo) Last(ctx context.Context, employeeID string) (*model.CheckIn, error) {
	var c model.CheckIn
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("timestamp DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkInRepo) ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]model.CheckIn, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}
	var events []model.CheckIn
	err := q.Order("timestamp ASC").Find(&events).Error
	return events, err
}

func (r *checkInRepo) ListRecent(ctx context.Context, employeeID string, limit int) ([]model.CheckIn, error) {
	q := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	var events []model.CheckIn
	err := q.Find(&events).Error
	return events, err
}
