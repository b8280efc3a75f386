package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate NationalID.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByNationalID retrieves a patient by their national identifier.
	GetByNationalID(ctx context.Context, nationalID string) (*Patient, error)

	// UpdateContact applies partial updates to the mutable contact fields.
	UpdateContact(ctx context.Context, id uuid.UUID, cmd *UpdateContactCommand) (*Patient, error)

	// List returns all patients ordered by last name, first name.
	List(ctx context.Context) ([]*Patient, error)

	// ExistsByNationalID checks for uniqueness without fetching the full record.
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}
