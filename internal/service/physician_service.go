package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PhysicianService struct {
	repo     physician.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewPhysicianService(repo physician.Repository, auditSvc *AuditService, log *zap.Logger) *PhysicianService {
	return &PhysicianService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
	}
}

func (s *PhysicianService) RegisterPhysician(ctx context.Context, cmd *physician.RegisterPhysicianCommand, ip string) (*physician.Physician, error) {
	if err := validateRegisterPhysician(cmd); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByLicenseNumber(ctx, strings.TrimSpace(cmd.LicenseNumber))
	if err != nil {
		s.log.Error("failed to check license number uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, physician.ErrPhysicianAlreadyExists
	}

	p := &physician.Physician{
		FirstName:     strings.TrimSpace(cmd.FirstName),
		LastName:      strings.TrimSpace(cmd.LastName),
		Specialty:     strings.TrimSpace(cmd.Specialty),
		LicenseNumber: strings.TrimSpace(cmd.LicenseNumber),
		Phone:         strings.TrimSpace(cmd.Phone),
		Email:         strings.ToLower(strings.TrimSpace(cmd.Email)),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create physician", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "create",
		ResourceType: "physician",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("physician registered",
		zap.String("physician_id", p.ID.String()),
		zap.String("specialty", p.Specialty),
	)

	return p, nil
}

func (s *PhysicianService) GetPhysician(ctx context.Context, id uuid.UUID) (*physician.Physician, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPhysicians returns all physicians, optionally narrowed to a specialty.
func (s *PhysicianService) ListPhysicians(ctx context.Context, specialty string) ([]*physician.Physician, error) {
	return s.repo.List(ctx, strings.TrimSpace(specialty))
}

func validateRegisterPhysician(cmd *physician.RegisterPhysicianCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(cmd.Specialty) == "" {
		errs = append(errs, "specialty is required")
	}
	if strings.TrimSpace(cmd.LicenseNumber) == "" {
		errs = append(errs, "license_number is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
