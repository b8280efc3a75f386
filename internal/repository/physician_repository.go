package repository

import (
	"context"
	"errors"

	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhysicianRepository struct {
	db *gorm.DB
}

var _ physician.Repository = (*PhysicianRepository)(nil)

func NewPhysicianRepository(db *gorm.DB) *PhysicianRepository {
	return &PhysicianRepository{db: db}
}

func (r *PhysicianRepository) Create(ctx context.Context, p *physician.Physician) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return physician.ErrPhysicianAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PhysicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*physician.Physician, error) {
	var p physician.Physician
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, physician.ErrPhysicianNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PhysicianRepository) List(ctx context.Context, specialty string) ([]*physician.Physician, error) {
	q := r.db.WithContext(ctx).Order("specialty, last_name, first_name")
	if specialty != "" {
		q = q.Where("specialty = ?", specialty)
	}

	var physicians []*physician.Physician
	if err := q.Find(&physicians).Error; err != nil {
		return nil, err
	}
	return physicians, nil
}

func (r *PhysicianRepository) ExistsByLicenseNumber(ctx context.Context, licenseNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&physician.Physician{}).
		Where("license_number = ?", licenseNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
