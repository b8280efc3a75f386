package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avillagra/turnero/internal/domain"
	"github.com/avillagra/turnero/internal/domain/appointment"
	"github.com/avillagra/turnero/internal/domain/patient"
	"github.com/avillagra/turnero/internal/domain/physician"
	"github.com/google/uuid"
)

// In-memory fakes backing the service tests. The appointment fake mirrors the
// production repository's contract: Schedule holds a lock across the overlap
// check and the insert, so the concurrency tests exercise the same
// check-then-insert atomicity the real store provides.

var _ patient.Repository = (*memPatientRepo)(nil)

type memPatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (r *memPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.patients {
		if existing.NationalID == p.NationalID {
			return patient.ErrPatientAlreadyExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *memPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPatientRepo) GetByNationalID(_ context.Context, nationalID string) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.NationalID == nationalID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (r *memPatientRepo) UpdateContact(_ context.Context, id uuid.UUID, cmd *patient.UpdateContactCommand) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		p.Email = *cmd.Email
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	cp := *p
	return &cp, nil
}

func (r *memPatientRepo) List(_ context.Context) ([]*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*patient.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *memPatientRepo) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

var _ physician.Repository = (*memPhysicianRepo)(nil)

type memPhysicianRepo struct {
	mu         sync.Mutex
	physicians map[uuid.UUID]*physician.Physician
}

func newMemPhysicianRepo() *memPhysicianRepo {
	return &memPhysicianRepo{physicians: make(map[uuid.UUID]*physician.Physician)}
}

func (r *memPhysicianRepo) Create(_ context.Context, p *physician.Physician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.physicians {
		if existing.LicenseNumber == p.LicenseNumber {
			return physician.ErrPhysicianAlreadyExists
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.physicians[p.ID] = &cp
	return nil
}

func (r *memPhysicianRepo) GetByID(_ context.Context, id uuid.UUID) (*physician.Physician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.physicians[id]
	if !ok {
		return nil, physician.ErrPhysicianNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPhysicianRepo) List(_ context.Context, specialty string) ([]*physician.Physician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*physician.Physician, 0, len(r.physicians))
	for _, p := range r.physicians {
		if specialty != "" && p.Specialty != specialty {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Specialty != out[j].Specialty {
			return out[i].Specialty < out[j].Specialty
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (r *memPhysicianRepo) ExistsByLicenseNumber(_ context.Context, licenseNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.physicians {
		if p.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

var _ appointment.Repository = (*memAppointmentRepo)(nil)

type memAppointmentRepo struct {
	mu         sync.Mutex
	appts      map[uuid.UUID]*appointment.Appointment
	patients   *memPatientRepo
	physicians *memPhysicianRepo
}

func newMemAppointmentRepo(patients *memPatientRepo, physicians *memPhysicianRepo) *memAppointmentRepo {
	return &memAppointmentRepo{
		appts:      make(map[uuid.UUID]*appointment.Appointment),
		patients:   patients,
		physicians: physicians,
	}
}

func (r *memAppointmentRepo) Schedule(ctx context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.physicians.GetByID(ctx, a.PhysicianID); err != nil {
		return err
	}

	end := a.EndsAt()
	for _, existing := range r.appts {
		if existing.PhysicianID != a.PhysicianID || existing.Status.IsTerminal() {
			continue
		}
		if existing.Overlaps(a.ScheduledAt, end) {
			return appointment.ErrScheduleConflict
		}
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

// UpdateStatus applies the same compare-and-swap the production store does:
// the write only lands if the row still holds the expected previous status.
func (r *memAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment, from appointment.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.appts[a.ID]
	if !ok {
		return appointment.ErrAppointmentNotFound
	}
	if stored.Status != from {
		return appointment.ErrInvalidStatusTransition
	}
	stored.Status = a.Status
	stored.Observation = a.Observation
	return nil
}

func (r *memAppointmentRepo) HasOverlap(_ context.Context, physicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.PhysicianID != physicianID || a.Status.IsTerminal() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAppointmentRepo) summarize(ctx context.Context, a *appointment.Appointment) *appointment.Summary {
	s := &appointment.Summary{
		ID:           a.ID,
		ScheduledAt:  a.ScheduledAt,
		DurationMins: a.DurationMins,
		Status:       a.Status,
		Reason:       a.Reason,
		PatientID:    a.PatientID,
		PhysicianID:  a.PhysicianID,
	}
	if p, err := r.patients.GetByID(ctx, a.PatientID); err == nil {
		s.PatientFirstName, s.PatientLastName = p.FirstName, p.LastName
	}
	if m, err := r.physicians.GetByID(ctx, a.PhysicianID); err == nil {
		s.PhysicianFirstName, s.PhysicianLastName = m.FirstName, m.LastName
		s.Specialty = m.Specialty
	}
	return s
}

func (r *memAppointmentRepo) ListByDate(ctx context.Context, day time.Time) ([]*appointment.Summary, error) {
	r.mu.Lock()
	matched := make([]*appointment.Appointment, 0)
	for _, a := range r.appts {
		y1, m1, d1 := a.ScheduledAt.Date()
		y2, m2, d2 := day.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			cp := *a
			matched = append(matched, &cp)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.Before(matched[j].ScheduledAt)
	})

	out := make([]*appointment.Summary, 0, len(matched))
	for _, a := range matched {
		out = append(out, r.summarize(ctx, a))
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Summary, error) {
	r.mu.Lock()
	matched := make([]*appointment.Appointment, 0)
	for _, a := range r.appts {
		if a.PatientID == patientID {
			cp := *a
			matched = append(matched, &cp)
		}
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ScheduledAt.After(matched[j].ScheduledAt)
	})

	out := make([]*appointment.Summary, 0, len(matched))
	for _, a := range matched {
		out = append(out, r.summarize(ctx, a))
	}
	return out, nil
}

var _ AuditRepository = (*memAuditRepo)(nil)

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// failNationalIDRepo wraps memPatientRepo to simulate a store outage on the
// uniqueness check.
type failNationalIDRepo struct {
	*memPatientRepo
	err error
}

func (r *failNationalIDRepo) ExistsByNationalID(context.Context, string) (bool, error) {
	return false, r.err
}

func strPtr(s string) *string { return &s }

func containsField(fields []string, substr string) bool {
	for _, f := range fields {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}
