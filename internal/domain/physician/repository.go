package physician

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new physician. Returns ErrPhysicianAlreadyExists on duplicate LicenseNumber.
	Create(ctx context.Context, p *Physician) error

	// GetByID retrieves a physician by primary key. Returns ErrPhysicianNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Physician, error)

	// List returns physicians ordered by specialty then last name.
	// A non-empty specialty narrows the result.
	List(ctx context.Context, specialty string) ([]*Physician, error)

	// ExistsByLicenseNumber checks for uniqueness without fetching the full record.
	ExistsByLicenseNumber(ctx context.Context, licenseNumber string) (bool, error)
}
