package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"
)

// EmployeeService maintains the tag-to-employee ownership invariant and the
// archive lifecycle: at most one non-archived employee holds a given tag, and
// assigning a tag that another employee holds displaces (strips + archives)
// the previous holder.
type EmployeeService interface {
	Upsert(ctx context.Context, documentID, name string, rfidUID *string, actor *string) (*model.Employee, error)
	// AssignTag sets the tag when rfidUID is non-nil. A nil rfidUID removes the
	// tag, which is defined as archiving: there is no active-but-tagless state
	// reachable through this operation.
	AssignTag(ctx context.Context, documentID string, rfidUID *string, actor *string) (*model.Employee, error)
	Archive(ctx context.Context, documentID string, actor *string) (*model.Employee, error)
	// Restore clears ArchivedAt. The tag stays nil — the operator must reassign
	// explicitly.
	Restore(ctx context.Context, documentID string, actor *string) (*model.Employee, error)
	Get(ctx context.Context, documentID string) (*model.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]model.Employee, error)
}

type employeeService struct {
	repo  repository.EmployeeRepository
	audit AuditRecorder
	// tagLocks serializes displacement per tag so that read-the-holder,
	// archive-the-holder, assign-to-new-holder never interleaves with another
	// assignment of the same tag.
	tagLocks *keyedMutex
}

func NewEmployeeService(repo repository.EmployeeRepository, audit AuditRecorder) EmployeeService {
	return &employeeService{repo: repo, audit: audit, tagLocks: newKeyedMutex()}
}

func (s *employeeService) Upsert(ctx context.Context, documentID, name string, rfidUID *string, actor *string) (*model.Employee, error) {
	docID := model.NormalizeDocumentID(documentID)

	if rfidUID != nil {
		unlock := s.tagLocks.Lock("tag:" + *rfidUID)
		defer unlock()
		if err := s.displace(ctx, *rfidUID, docID, actor); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindByDocumentID(ctx, docID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		emp := &model.Employee{DocumentID: docID, Name: name, RFIDUID: rfidUID}
		if err := s.repo.Create(ctx, emp); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, actor, AuditCreateEmployee, fmt.Sprintf("employee %s (%s)", docID, name))
		return emp, nil
	case err != nil:
		return nil, err
	}

	existing.Name = name
	if rfidUID != nil {
		existing.RFIDUID = rfidUID
		existing.ArchivedAt = nil
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, AuditUpdateEmployee, fmt.Sprintf("employee %s (%s)", docID, name))
	return existing, nil
}

func (s *employeeService) AssignTag(ctx context.Context, documentID string, rfidUID *string, actor *string) (*model.Employee, error) {
	docID := model.NormalizeDocumentID(documentID)

	emp, err := s.repo.FindByDocumentID(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rfidUID == nil {
		// Removing the tag archives the employee.
		now := time.Now().UTC()
		emp.RFIDUID = nil
		emp.ArchivedAt = &now
		if err := s.repo.Update(ctx, emp); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, actor, AuditAssignRFID, fmt.Sprintf("employee %s: tag removed, archived", docID))
		return emp, nil
	}

	unlock := s.tagLocks.Lock("tag:" + *rfidUID)
	defer unlock()
	if err := s.displace(ctx, *rfidUID, docID, actor); err != nil {
		return nil, err
	}

	emp.RFIDUID = rfidUID
	emp.ArchivedAt = nil
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, AuditAssignRFID, fmt.Sprintf("employee %s: tag %s assigned", docID, *rfidUID))
	return emp, nil
}

func (s *employeeService) Archive(ctx context.Context, documentID string, actor *string) (*model.Employee, error) {
	docID := model.NormalizeDocumentID(documentID)
	emp, err := s.repo.FindByDocumentID(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	emp.RFIDUID = nil
	emp.ArchivedAt = &now
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, AuditArchiveEmployee, fmt.Sprintf("employee %s archived", docID))
	return emp, nil
}

func (s *employeeService) Restore(ctx context.Context, documentID string, actor *string) (*model.Employee, error) {
	docID := model.NormalizeDocumentID(documentID)
	emp, err := s.repo.FindByDocumentID(ctx, docID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	emp.ArchivedAt = nil
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, AuditRestoreEmployee, fmt.Sprintf("employee %s restored", docID))
	return emp, nil
}

func (s *employeeService) Get(ctx context.Context, documentID string) (*model.Employee, error) {
	emp, err := s.repo.FindByDocumentID(ctx, model.NormalizeDocumentID(documentID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return emp, err
}

func (s *employeeService) List(ctx context.Context, activeOnly bool) ([]model.Employee, error) {
	return s.repo.List(ctx, activeOnly)
}

// displace strips rfidUID from any holder other than keepDocID and archives
// that holder. At most one prior owner exists (tag uniqueness), so at most one
// reassign_rfid entry is written.
func (s *employeeService) displace(ctx context.Context, rfidUID, keepDocID string, actor *string) error {
	displaced, err := s.repo.ReassignTag(ctx, rfidUID, keepDocID, time.Now().UTC())
	if err != nil {
		return err
	}
	if displaced != nil {
		s.audit.Record(ctx, actor, AuditReassignRFID,
			fmt.Sprintf("tag %s taken from employee %s (archived)", rfidUID, displaced.DocumentID))
	}
	return nil
}
