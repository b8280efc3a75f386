package service

import (
	"context"
	"testing"

	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newPhysicianService(t *testing.T) *PhysicianService {
	t.Helper()
	auditSvc := NewAuditService(&memAuditRepo{}, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)
	return NewPhysicianService(newMemPhysicianRepo(), auditSvc, zap.NewNop())
}

func TestRegisterPhysician(t *testing.T) {
	svc := newPhysicianService(t)

	p, err := svc.RegisterPhysician(context.Background(), &physician.RegisterPhysicianCommand{
		FirstName:     "Ana",
		LastName:      "Martinez",
		Specialty:     "Traumatology",
		LicenseNumber: "MN67890",
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, "Ana Martinez", p.FullName())
}

func TestRegisterPhysicianDuplicateLicense(t *testing.T) {
	svc := newPhysicianService(t)

	cmd := &physician.RegisterPhysicianCommand{
		FirstName:     "Ana",
		LastName:      "Martinez",
		Specialty:     "Traumatology",
		LicenseNumber: "MN67890",
	}
	_, err := svc.RegisterPhysician(context.Background(), cmd, "")
	assert.NoError(t, err)

	_, err = svc.RegisterPhysician(context.Background(), cmd, "")
	assert.ErrorIs(t, err, physician.ErrPhysicianAlreadyExists)
}

func TestRegisterPhysicianValidation(t *testing.T) {
	svc := newPhysicianService(t)

	_, err := svc.RegisterPhysician(context.Background(), &physician.RegisterPhysicianCommand{}, "")

	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
	assert.True(t, containsField(validErr.Fields, "specialty"))
	assert.True(t, containsField(validErr.Fields, "license_number"))
}

func TestListPhysiciansBySpecialty(t *testing.T) {
	svc := newPhysicianService(t)

	for _, p := range []struct{ last, specialty, license string }{
		{"Rodriguez", "Cardiology", "MN1"},
		{"Martinez", "Traumatology", "MN2"},
		{"Alvarez", "Cardiology", "MN3"},
	} {
		_, err := svc.RegisterPhysician(context.Background(), &physician.RegisterPhysicianCommand{
			FirstName:     "Doc",
			LastName:      p.last,
			Specialty:     p.specialty,
			LicenseNumber: p.license,
		}, "")
		assert.NoError(t, err)
	}

	cardio, err := svc.ListPhysicians(context.Background(), "Cardiology")
	assert.NoError(t, err)
	assert.Len(t, cardio, 2)
	assert.Equal(t, "Alvarez", cardio[0].LastName)
	assert.Equal(t, "Rodriguez", cardio[1].LastName)

	all, err := svc.ListPhysicians(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}
