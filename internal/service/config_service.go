package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"
)

// ConfigService manages key/value application settings (last writer wins).
type ConfigService interface {
	Get(ctx context.Context, key string) (*model.ConfigEntry, error)
	Set(ctx context.Context, key, value string, actor *string) error
	List(ctx context.Context) ([]model.ConfigEntry, error)
}

type configService struct {
	repo  repository.ConfigRepository
	audit AuditRecorder
}

func NewConfigService(repo repository.ConfigRepository, audit AuditRecorder) ConfigService {
	return &configService{repo: repo, audit: audit}
}

func (s *configService) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	entry, err := s.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return entry, err
}

func (s *configService) Set(ctx context.Context, key, value string, actor *string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, AuditSetConfig, fmt.Sprintf("config %s updated", key))
	return nil
}

func (s *configService) List(ctx context.Context) ([]model.ConfigEntry, error) {
	return s.repo.List(ctx)
}
